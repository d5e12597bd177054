// Package mortgage tracks outstanding property loans and estimates payoff
// horizons from the remaining balance and monthly payment.
package mortgage

import (
	"context"
	"math"
	"sort"

	"winner/internal/core"
	"winner/internal/log"
	"winner/internal/store"
)

type Service struct {
	repo   store.Repository
	logger *log.Logger
}

func NewService(repo store.Repository, logger *log.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.WithComponent(log.ComponentMortgage),
	}
}

// Add validates and persists a mortgage.
func (s *Service) Add(ctx context.Context, m core.Mortgage) (core.Mortgage, error) {
	if err := m.Validate(); err != nil {
		return core.Mortgage{}, err
	}
	id, err := s.repo.Create(ctx, store.Mortgages, store.EncodeMortgage(m))
	if err != nil {
		return core.Mortgage{}, err
	}
	m.ID = id
	s.logger.InfoContext(ctx, "mortgage added",
		log.FieldOperation, log.OpCreate,
		log.FieldRecordID, id)
	return m, nil
}

// List returns every mortgage, newest start date first.
func (s *Service) List(ctx context.Context) ([]core.Mortgage, error) {
	recs, err := s.repo.ListAll(ctx, store.Mortgages)
	if err != nil {
		return nil, err
	}
	out := make([]core.Mortgage, 0, len(recs))
	for _, r := range recs {
		out = append(out, store.DecodeMortgage(r))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartDate > out[j].StartDate
	})
	return out, nil
}

// Update validates and rewrites a mortgage's fields.
func (s *Service) Update(ctx context.Context, id string, m core.Mortgage) (core.Mortgage, error) {
	if err := m.Validate(); err != nil {
		return core.Mortgage{}, err
	}
	if err := s.repo.Update(ctx, store.Mortgages, id, store.EncodeMortgage(m)); err != nil {
		return core.Mortgage{}, err
	}
	m.ID = id
	s.logger.InfoContext(ctx, "mortgage updated",
		log.FieldOperation, log.OpUpdate,
		log.FieldRecordID, id)
	return m, nil
}

// Delete removes a mortgage.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, store.Mortgages, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "mortgage deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldRecordID, id)
	return nil
}

// PayoffMonths estimates how many monthly payments remain on the balance.
// Zero-interest loans divide directly; otherwise standard amortization
// applies. Returns 0 when the payment cannot retire the balance (payment
// at or below the monthly interest accrual).
func PayoffMonths(m core.Mortgage) int {
	if m.RemainingBalance <= 0 || m.MonthlyPayment <= 0 {
		return 0
	}
	monthlyRate := m.InterestRate / 100 / 12
	if monthlyRate == 0 {
		return int(math.Ceil(m.RemainingBalance / m.MonthlyPayment))
	}
	interestOnly := m.RemainingBalance * monthlyRate
	if m.MonthlyPayment <= interestOnly {
		return 0
	}
	n := -math.Log(1-monthlyRate*m.RemainingBalance/m.MonthlyPayment) / math.Log(1+monthlyRate)
	return int(math.Ceil(n))
}
