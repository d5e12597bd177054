// Package engine is the safe-to-spend computation: pure functions from
// already-computed aggregates to the day's actionable numbers and guidance
// messages. It performs no I/O and never fails; malformed inputs are
// treated as zero.
package engine

import (
	"winner/internal/core"
)

// Bills are amortized over a flat 30-day month regardless of the actual
// month length. Changing this constant changes every user-facing number.
const billAmortizationDays = 30

// Spend guidance messages, selected by the safe-to-spend band.
const (
	MsgSpendTight = "Today is tight — consider reducing spending or working more hours."
	MsgSpendLight = "You can spend a little today, but keep it light."
	MsgSpendGood  = "You're in a good position today — spend mindfully."
)

// Savings encouragement messages, selected by today's earnings band.
const (
	MsgSavingsNone  = "Log your work hours to see saving suggestion."
	MsgSavingsSmall = "Small wins add up. Saving a little today keeps you consistent."
	MsgSavingsLarge = "Great work today — locking in saving now builds long term wealth."
)

// DailyBills amortizes the month's direct bill load plus the recurring
// bill load over the flat 30-day month.
func DailyBills(monthlyDirectBillTotal, recurringBillsTotal float64) float64 {
	return core.Round2(monthlyDirectBillTotal/billAmortizationDays + recurringBillsTotal/billAmortizationDays)
}

// SuggestedSavings applies the configured savings percentage to today's
// earnings.
func SuggestedSavings(todayEarnings, savingsPercent float64) float64 {
	return core.Round2(todayEarnings * savingsPercent / 100)
}

// SafeToSpend is today's discretionary budget after bills and savings.
func SafeToSpend(todayEarnings, dailyBills, suggestedSavings float64) float64 {
	return core.Round2(todayEarnings - dailyBills - suggestedSavings)
}

// SpendMessage buckets safe-to-spend into guidance bands. Zero and 30 both
// land in the light band; anything above 30 is the good band.
func SpendMessage(safeToSpend float64) string {
	switch {
	case safeToSpend < 0:
		return MsgSpendTight
	case safeToSpend <= 30:
		return MsgSpendLight
	default:
		return MsgSpendGood
	}
}

// SavingsMessage buckets today's earnings into encouragement bands.
func SavingsMessage(todayEarnings float64) string {
	switch {
	case todayEarnings == 0:
		return MsgSavingsNone
	case todayEarnings < 50:
		return MsgSavingsSmall
	default:
		return MsgSavingsLarge
	}
}

// Inputs are the aggregates the ledger and tracker already computed.
type Inputs struct {
	TodayEarnings          float64
	WeekEarnings           float64
	MonthlyTotal           float64
	MonthlyDirectBillTotal float64
	RecurringBillsTotal    float64
	SavingsPercent         float64
	CategoryTotals         map[string]float64
	BiggestCategory        string
	BiggestCategoryTotal   float64
	Pace                   core.Pace
}

// Derived is the value contract surfaced to presentation layers. Every
// currency value is already rounded to 2 decimals; callers only add
// currency symbols and locale formatting.
type Derived struct {
	TodayEarnings        float64            `json:"todayEarnings"`
	WeekEarnings         float64            `json:"weekEarnings"`
	DailyBills           float64            `json:"dailyBills"`
	SuggestedSavings     float64            `json:"suggestedSavings"`
	SafeToSpend          float64            `json:"safeToSpend"`
	SpendMessage         string             `json:"spendMessage"`
	SavingsMessage       string             `json:"savingsMessage"`
	MonthlyTotal         float64            `json:"monthlyTotal"`
	CategoryTotals       map[string]float64 `json:"categoryTotals"`
	BiggestCategory      string             `json:"biggestCategory"`
	BiggestCategoryTotal float64            `json:"biggestCategoryTotal"`
	Pace                 core.Pace          `json:"paceProjection"`
}

// Derive combines the aggregates into the full dashboard contract.
func Derive(in Inputs) Derived {
	dailyBills := DailyBills(in.MonthlyDirectBillTotal, in.RecurringBillsTotal)
	savings := SuggestedSavings(in.TodayEarnings, in.SavingsPercent)
	safe := SafeToSpend(in.TodayEarnings, dailyBills, savings)
	return Derived{
		TodayEarnings:        core.Round2(in.TodayEarnings),
		WeekEarnings:         core.Round2(in.WeekEarnings),
		DailyBills:           dailyBills,
		SuggestedSavings:     savings,
		SafeToSpend:          safe,
		SpendMessage:         SpendMessage(safe),
		SavingsMessage:       SavingsMessage(in.TodayEarnings),
		MonthlyTotal:         core.Round2(in.MonthlyTotal),
		CategoryTotals:       in.CategoryTotals,
		BiggestCategory:      in.BiggestCategory,
		BiggestCategoryTotal: in.BiggestCategoryTotal,
		Pace:                 in.Pace,
	}
}
