// Package google is the Google Sheets binding of the expense export port.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"winner/internal/core"
	ports "winner/internal/sheets"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ ports.ExpenseAppender = (*Client)(nil)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Optional: GOOGLE_CREDENTIALS_JSON or GOOGLE_APPLICATION_CREDENTIALS for
// auth (application default credentials otherwise), GOOGLE_SHEET_NAME
// (default "Expenses").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Expenses"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	if credsJSON := strings.TrimSpace(os.Getenv("GOOGLE_CREDENTIALS_JSON")); credsJSON != "" {
		return gsheet.NewService(ctx, goption.WithCredentialsJSON([]byte(credsJSON)))
	}
	if credsFile := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")); credsFile != "" {
		return gsheet.NewService(ctx, goption.WithCredentialsFile(credsFile))
	}
	// Application default credentials.
	return gsheet.NewService(ctx)
}

// Append writes one expense row: date, note, amount, category, kind.
func (c *Client) Append(ctx context.Context, e core.Expense) (string, error) {
	values := &gsheet.ValueRange{
		Values: [][]any{{e.Date, e.Note, e.Amount, e.Category, string(e.Kind)}},
	}
	resp, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, c.sheetName, values).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("append expense row: %w", err)
	}
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		return resp.Updates.UpdatedRange, nil
	}
	return c.sheetName, nil
}
