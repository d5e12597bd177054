// Package sheets defines the outbound port for exporting expenses to a
// spreadsheet. The sync worker appends each created expense so the sheet
// stays a readable backup of the ledger.
package sheets

import (
	"context"

	"winner/internal/core"
)

// ExpenseAppender appends one expense row and returns a sheet row reference.
type ExpenseAppender interface {
	Append(ctx context.Context, e core.Expense) (rowRef string, err error)
}
