// Package stocks is the portfolio viewer: persisted holdings plus live
// price lookups behind a small quote cache.
package stocks

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"winner/internal/cache"
	"winner/internal/core"
	"winner/internal/log"
	"winner/internal/store"
)

// QuoteSource supplies a current market price per ticker symbol.
type QuoteSource interface {
	Quote(ctx context.Context, symbol string) (float64, error)
}

// Double submissions of the same holding inside this window are treated as
// an accidental double click and rejected.
const duplicateWindow = 8 * time.Second

const (
	quoteCacheSize = 64
	quoteCacheTTL  = 5 * time.Minute
)

type Service struct {
	repo   store.Repository
	quotes QuoteSource
	cache  cache.Cache[float64]
	logger *log.Logger
	now    func() time.Time

	mu        sync.Mutex
	lastKey   string
	lastAdded time.Time
}

type Option func(*Service)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithQuoteCache replaces the default LRU quote cache.
func WithQuoteCache(c cache.Cache[float64]) Option {
	return func(s *Service) { s.cache = c }
}

func NewService(repo store.Repository, quotes QuoteSource, logger *log.Logger, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		quotes: quotes,
		cache:  cache.NewLRU[float64](quoteCacheSize, quoteCacheTTL),
		logger: logger.WithComponent(log.ComponentStocks),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add persists a holding. A resubmission of the same symbol and share count
// within the duplicate window is rejected.
func (s *Service) Add(ctx context.Context, h core.Holding) (core.Holding, error) {
	h.Symbol = strings.ToUpper(strings.TrimSpace(h.Symbol))
	if err := h.Validate(); err != nil {
		return core.Holding{}, err
	}

	key := fmt.Sprintf("%s/%v", h.Symbol, h.Shares)
	now := s.now()
	s.mu.Lock()
	if key == s.lastKey && now.Sub(s.lastAdded) < duplicateWindow {
		s.mu.Unlock()
		return core.Holding{}, fmt.Errorf("%w: duplicate submission of %s", core.ErrValidation, h.Symbol)
	}
	s.lastKey = key
	s.lastAdded = now
	s.mu.Unlock()

	id, err := s.repo.Create(ctx, store.Stocks, store.EncodeHolding(h))
	if err != nil {
		return core.Holding{}, err
	}
	h.ID = id

	s.logger.InfoContext(ctx, "holding added",
		log.FieldOperation, log.OpCreate,
		log.FieldSymbol, h.Symbol,
		log.FieldRecordID, id)
	return h, nil
}

// List returns every stored holding.
func (s *Service) List(ctx context.Context) ([]core.Holding, error) {
	recs, err := s.repo.ListAll(ctx, store.Stocks)
	if err != nil {
		return nil, err
	}
	out := make([]core.Holding, 0, len(recs))
	for _, r := range recs {
		out = append(out, store.DecodeHolding(r))
	}
	return out, nil
}

// Delete removes a holding.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, store.Stocks, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "holding removed",
		log.FieldOperation, log.OpDelete,
		log.FieldRecordID, id)
	return nil
}

// Price returns the current price for a symbol, served from the quote
// cache when fresh.
func (s *Service) Price(ctx context.Context, symbol string) (float64, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if cached, ok := s.cache.Get(symbol); ok {
		return cached, nil
	}
	price, err := s.quotes.Quote(ctx, symbol)
	if err != nil {
		return 0, err
	}
	s.cache.Set(symbol, price)
	return price, nil
}

// Valuation is a holding priced at the current market.
type Valuation struct {
	Holding      core.Holding `json:"holding"`
	CurrentPrice float64      `json:"currentPrice"`
	MarketValue  float64      `json:"marketValue"`
	Gain         float64      `json:"gain"`
	PriceKnown   bool         `json:"priceKnown"`
}

// Valuations prices every holding. A failed lookup marks the valuation
// unknown instead of failing the whole portfolio.
func (s *Service) Valuations(ctx context.Context) ([]Valuation, error) {
	holdings, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Valuation, 0, len(holdings))
	for _, h := range holdings {
		v := Valuation{Holding: h}
		price, err := s.Price(ctx, h.Symbol)
		if err != nil {
			s.logger.WarnContext(ctx, "price lookup failed",
				log.FieldSymbol, h.Symbol,
				log.FieldError, err.Error())
		} else {
			v.CurrentPrice = price
			v.MarketValue = core.Round2(price * h.Shares)
			v.Gain = core.Round2(v.MarketValue - h.CostBasis())
			v.PriceKnown = true
		}
		out = append(out, v)
	}
	return out, nil
}
