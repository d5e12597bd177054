package stocks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"winner/internal/core"
	"winner/internal/log"
	"winner/internal/store/memory"
)

func testLogger() *log.Logger {
	return log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

type fakeQuotes struct {
	prices map[string]float64
	calls  int
}

func (f *fakeQuotes) Quote(_ context.Context, symbol string) (float64, error) {
	f.calls++
	price, ok := f.prices[symbol]
	if !ok {
		return 0, errors.New("unknown symbol")
	}
	return price, nil
}

func TestAddValidatesAndNormalizesSymbol(t *testing.T) {
	svc := NewService(memory.New(), &fakeQuotes{}, testLogger())
	ctx := context.Background()

	if _, err := svc.Add(ctx, core.Holding{Symbol: " ", Shares: 1}); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Add(ctx, core.Holding{Symbol: "aapl", Shares: 0}); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error for zero shares, got %v", err)
	}

	h, err := svc.Add(ctx, core.Holding{Symbol: " aapl ", Shares: 2, PurchasePrice: 150})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if h.Symbol != "AAPL" {
		t.Fatalf("Symbol = %q, want AAPL", h.Symbol)
	}
	if h.ID == "" {
		t.Fatal("expected store-assigned id")
	}
}

func TestAddRejectsRapidDuplicate(t *testing.T) {
	now := time.Date(2026, time.August, 26, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	svc := NewService(memory.New(), &fakeQuotes{}, testLogger(), WithClock(clock))
	ctx := context.Background()

	if _, err := svc.Add(ctx, core.Holding{Symbol: "AAPL", Shares: 2}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Add(ctx, core.Holding{Symbol: "AAPL", Shares: 2}); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}
	// Different share count is a different submission.
	if _, err := svc.Add(ctx, core.Holding{Symbol: "AAPL", Shares: 3}); err != nil {
		t.Fatalf("different holding rejected: %v", err)
	}

	// Same submission after the window passes.
	now = now.Add(9 * time.Second)
	if _, err := svc.Add(ctx, core.Holding{Symbol: "AAPL", Shares: 3}); err != nil {
		t.Fatalf("resubmission after window rejected: %v", err)
	}
}

func TestPriceUsesCache(t *testing.T) {
	quotes := &fakeQuotes{prices: map[string]float64{"AAPL": 150}}
	svc := NewService(memory.New(), quotes, testLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		price, err := svc.Price(ctx, "aapl")
		if err != nil {
			t.Fatal(err)
		}
		if price != 150 {
			t.Fatalf("Price = %v, want 150", price)
		}
	}
	if quotes.calls != 1 {
		t.Fatalf("quote source called %d times, want 1", quotes.calls)
	}
}

func TestValuations(t *testing.T) {
	quotes := &fakeQuotes{prices: map[string]float64{"AAPL": 200}}
	svc := NewService(memory.New(), quotes, testLogger())
	ctx := context.Background()

	if _, err := svc.Add(ctx, core.Holding{Symbol: "AAPL", Shares: 2, PurchasePrice: 150}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Add(ctx, core.Holding{Symbol: "MISSING", Shares: 1, PurchasePrice: 10}); err != nil {
		t.Fatal(err)
	}

	vals, err := svc.Valuations(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(vals) != 2 {
		t.Fatalf("valuations = %d, want 2", len(vals))
	}
	if !vals[0].PriceKnown || vals[0].MarketValue != 400 || vals[0].Gain != 100 {
		t.Fatalf("AAPL valuation = %+v", vals[0])
	}
	if vals[1].PriceKnown {
		t.Fatal("expected unknown price for MISSING")
	}
}

func TestYahooClientQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v7/finance/quote" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"quoteResponse":{"result":[{"regularMarketPrice":123.45}]}}`)
	}))
	defer srv.Close()

	c := NewYahooClient(WithBaseURL(srv.URL))
	price, err := c.Quote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if price != 123.45 {
		t.Fatalf("price = %v, want 123.45", price)
	}
}

func TestYahooClientFallsBackToChart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v7/finance/quote":
			w.WriteHeader(http.StatusUnauthorized)
		case r.URL.Path == "/v8/finance/chart/AAPL":
			fmt.Fprint(w, `{"chart":{"result":[{"meta":{"regularMarketPrice":99.5}}]}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewYahooClient(WithBaseURL(srv.URL))
	price, err := c.Quote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if price != 99.5 {
		t.Fatalf("price = %v, want 99.5", price)
	}
}

func TestYahooClientBothEndpointsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewYahooClient(WithBaseURL(srv.URL))
	if _, err := c.Quote(context.Background(), "AAPL"); err == nil {
		t.Fatal("expected error when both endpoints fail")
	}
}
