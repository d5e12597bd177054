package mortgage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"winner/internal/core"
	"winner/internal/log"
	"winner/internal/store/memory"
)

func testLogger() *log.Logger {
	return log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

func valid() core.Mortgage {
	return core.Mortgage{
		PropertyName:     "Flat 2",
		LoanAmount:       200000,
		InterestRate:     4.5,
		TermYears:        25,
		MonthlyPayment:   1112,
		RemainingBalance: 180000,
		StartDate:        "2022-03-01",
	}
}

func TestAddValidates(t *testing.T) {
	svc := NewService(memory.New(), testLogger())
	ctx := context.Background()

	m := valid()
	m.PropertyName = "  "
	if _, err := svc.Add(ctx, m); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	m = valid()
	m.LoanAmount = 0
	if _, err := svc.Add(ctx, m); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error for zero loan, got %v", err)
	}

	added, err := svc.Add(ctx, valid())
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if added.ID == "" {
		t.Fatal("expected store-assigned id")
	}
}

func TestListNewestFirst(t *testing.T) {
	svc := NewService(memory.New(), testLogger())
	ctx := context.Background()

	older := valid()
	older.PropertyName = "Old house"
	older.StartDate = "2015-01-01"
	newer := valid()
	newer.PropertyName = "New flat"
	newer.StartDate = "2024-06-01"

	if _, err := svc.Add(ctx, older); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Add(ctx, newer); err != nil {
		t.Fatal(err)
	}

	got, err := svc.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].PropertyName != "New flat" {
		t.Fatalf("List order = %+v", got)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	svc := NewService(memory.New(), testLogger())
	ctx := context.Background()

	m, err := svc.Add(ctx, valid())
	if err != nil {
		t.Fatal(err)
	}
	m.RemainingBalance = 170000
	if _, err := svc.Update(ctx, m.ID, m); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := svc.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].RemainingBalance != 170000 {
		t.Fatalf("RemainingBalance = %v, want 170000", got[0].RemainingBalance)
	}

	if err := svc.Delete(ctx, m.ID); err != nil {
		t.Fatal(err)
	}
	got, err = svc.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %d", len(got))
	}
}

func TestPayoffMonths(t *testing.T) {
	tests := []struct {
		name     string
		mortgage core.Mortgage
		want     int
	}{
		{
			"zero interest divides directly",
			core.Mortgage{RemainingBalance: 12000, MonthlyPayment: 1000},
			12,
		},
		{
			"zero balance",
			core.Mortgage{MonthlyPayment: 1000},
			0,
		},
		{
			"payment below interest accrual never retires",
			core.Mortgage{RemainingBalance: 100000, MonthlyPayment: 100, InterestRate: 12},
			0,
		},
		{
			// 100000 at 12% yearly (1% monthly), paying 2000: ln(2)/ln(1.01)
			// rounds up to 70 payments.
			"amortized",
			core.Mortgage{RemainingBalance: 100000, MonthlyPayment: 2000, InterestRate: 12},
			70,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PayoffMonths(tt.mortgage); got != tt.want {
				t.Errorf("PayoffMonths = %d, want %d", got, tt.want)
			}
		})
	}
}
