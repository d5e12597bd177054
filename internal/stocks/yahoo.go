package stocks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooClient fetches live prices from the Yahoo Finance quote endpoint,
// falling back to the chart endpoint when the quote API rejects the request.
type YahooClient struct {
	httpClient *http.Client
	baseURL    string
}

type YahooOption func(*YahooClient)

// WithBaseURL points the client at a different host, for tests.
func WithBaseURL(base string) YahooOption {
	return func(c *YahooClient) { c.baseURL = base }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) YahooOption {
	return func(c *YahooClient) { c.httpClient = hc }
}

func NewYahooClient(opts ...YahooOption) *YahooClient {
	c := &YahooClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultYahooBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			RegularMarketPrice float64 `json:"regularMarketPrice"`
		} `json:"result"`
	} `json:"quoteResponse"`
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
	} `json:"chart"`
}

// Quote returns the current market price for the symbol.
func (c *YahooClient) Quote(ctx context.Context, symbol string) (float64, error) {
	price, quoteErr := c.fetchQuote(ctx, symbol)
	if quoteErr == nil {
		return price, nil
	}
	price, chartErr := c.fetchChart(ctx, symbol)
	if chartErr != nil {
		return 0, fmt.Errorf("quote %s: %w (chart fallback: %v)", symbol, quoteErr, chartErr)
	}
	return price, nil
}

func (c *YahooClient) fetchQuote(ctx context.Context, symbol string) (float64, error) {
	endpoint := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", c.baseURL, url.QueryEscape(symbol))
	var parsed quoteResponse
	if err := c.getJSON(ctx, endpoint, &parsed); err != nil {
		return 0, err
	}
	results := parsed.QuoteResponse.Result
	if len(results) == 0 || results[0].RegularMarketPrice <= 0 {
		return 0, fmt.Errorf("no quote for %s", symbol)
	}
	return results[0].RegularMarketPrice, nil
}

func (c *YahooClient) fetchChart(ctx context.Context, symbol string) (float64, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d", c.baseURL, url.PathEscape(symbol))
	var parsed chartResponse
	if err := c.getJSON(ctx, endpoint, &parsed); err != nil {
		return 0, err
	}
	results := parsed.Chart.Result
	if len(results) == 0 || results[0].Meta.RegularMarketPrice <= 0 {
		return 0, fmt.Errorf("no chart data for %s", symbol)
	}
	return results[0].Meta.RegularMarketPrice, nil
}

func (c *YahooClient) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; winner/1.0)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
