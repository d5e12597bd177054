package engine

import (
	"testing"

	"winner/internal/core"
)

func TestDailyBillsFlatDivisor(t *testing.T) {
	tests := []struct {
		name      string
		direct    float64
		recurring float64
		want      float64
	}{
		{"direct only", 300, 0, 10},
		{"recurring only", 0, 300, 10},
		{"both", 300, 150, 15},
		{"zero", 0, 0, 0},
		{"rounded", 100, 0, 3.33},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DailyBills(tt.direct, tt.recurring); got != tt.want {
				t.Errorf("DailyBills(%v, %v) = %v, want %v", tt.direct, tt.recurring, got, tt.want)
			}
		})
	}
}

func TestSuggestedSavingsAndSafeToSpend(t *testing.T) {
	savings := SuggestedSavings(100, 10)
	if savings != 10 {
		t.Fatalf("SuggestedSavings(100, 10) = %v, want 10", savings)
	}
	if got := SafeToSpend(100, 20, savings); got != 70 {
		t.Fatalf("SafeToSpend = %v, want 70", got)
	}

	// No earnings: nothing to save, and bills push safe-to-spend negative.
	if got := SuggestedSavings(0, 10); got != 0 {
		t.Fatalf("SuggestedSavings(0, 10) = %v, want 0", got)
	}
	if got := SafeToSpend(0, 20, 0); got != -20 {
		t.Fatalf("SafeToSpend(0, 20, 0) = %v, want -20", got)
	}
}

func TestSpendMessageBands(t *testing.T) {
	tests := []struct {
		safe float64
		want string
	}{
		{-0.01, MsgSpendTight},
		{-100, MsgSpendTight},
		{0, MsgSpendLight},
		{15, MsgSpendLight},
		{30, MsgSpendLight},
		{30.01, MsgSpendGood},
		{500, MsgSpendGood},
	}
	for _, tt := range tests {
		if got := SpendMessage(tt.safe); got != tt.want {
			t.Errorf("SpendMessage(%v) = %q, want %q", tt.safe, got, tt.want)
		}
	}
}

func TestSavingsMessageBands(t *testing.T) {
	tests := []struct {
		earnings float64
		want     string
	}{
		{0, MsgSavingsNone},
		{0.01, MsgSavingsSmall},
		{49.99, MsgSavingsSmall},
		{50, MsgSavingsLarge},
		{200, MsgSavingsLarge},
	}
	for _, tt := range tests {
		if got := SavingsMessage(tt.earnings); got != tt.want {
			t.Errorf("SavingsMessage(%v) = %q, want %q", tt.earnings, got, tt.want)
		}
	}
}

func TestDerive(t *testing.T) {
	got := Derive(Inputs{
		TodayEarnings:          100,
		WeekEarnings:           300,
		MonthlyTotal:           420,
		MonthlyDirectBillTotal: 300,
		RecurringBillsTotal:    300,
		SavingsPercent:         10,
		CategoryTotals:         map[string]float64{"Food": 80},
		BiggestCategory:        "Food",
		BiggestCategoryTotal:   80,
		Pace:                   core.Pace{Day: 30, Week: 150, Month: 630},
	})

	if got.DailyBills != 20 {
		t.Errorf("DailyBills = %v, want 20", got.DailyBills)
	}
	if got.SuggestedSavings != 10 {
		t.Errorf("SuggestedSavings = %v, want 10", got.SuggestedSavings)
	}
	if got.SafeToSpend != 70 {
		t.Errorf("SafeToSpend = %v, want 70", got.SafeToSpend)
	}
	if got.SpendMessage != MsgSpendGood {
		t.Errorf("SpendMessage = %q", got.SpendMessage)
	}
	if got.SavingsMessage != MsgSavingsLarge {
		t.Errorf("SavingsMessage = %q", got.SavingsMessage)
	}
	if got.Pace.Month != 630 {
		t.Errorf("Pace.Month = %v", got.Pace.Month)
	}
}

func TestDeriveZeroInputs(t *testing.T) {
	got := Derive(Inputs{})
	if got.SafeToSpend != 0 || got.SpendMessage != MsgSpendLight {
		t.Fatalf("zero inputs: SafeToSpend=%v message=%q", got.SafeToSpend, got.SpendMessage)
	}
	if got.SavingsMessage != MsgSavingsNone {
		t.Fatalf("zero inputs: SavingsMessage=%q", got.SavingsMessage)
	}
}
