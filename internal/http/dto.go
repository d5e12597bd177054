package http

import (
	"time"

	"winner/internal/core"
	"winner/internal/mortgage"
)

// Wire shapes for the JSON API. Field names follow the persisted record
// field names so clients see one vocabulary end to end.

type expensePayload struct {
	ID              string  `json:"id,omitempty"`
	Note            string  `json:"note"`
	Amount          float64 `json:"amount"`
	Date            string  `json:"date"`
	Category        string  `json:"category"`
	Kind            string  `json:"type,omitempty"`
	BillSchedule    string  `json:"billSchedule,omitempty"`
	RecurringBillID string  `json:"recurringBillId,omitempty"`
}

func toExpensePayload(e core.Expense) expensePayload {
	return expensePayload{
		ID:              e.ID,
		Note:            e.Note,
		Amount:          e.Amount,
		Date:            e.Date,
		Category:        e.Category,
		Kind:            string(e.Kind),
		BillSchedule:    string(e.BillSchedule),
		RecurringBillID: e.RecurringBillID,
	}
}

func (p expensePayload) toCore() core.Expense {
	return core.Expense{
		Note:         p.Note,
		Amount:       p.Amount,
		Date:         p.Date,
		Category:     p.Category,
		Kind:         core.ExpenseKind(p.Kind),
		BillSchedule: core.BillSchedule(p.BillSchedule),
	}
}

type recurringBillPayload struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	ExpenseID string  `json:"expenseId,omitempty"`
}

func toRecurringBillPayload(b core.RecurringBill) recurringBillPayload {
	return recurringBillPayload{ID: b.ID, Name: b.Label, Amount: b.Amount, ExpenseID: b.ExpenseID}
}

type savingGoalPayload struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Target   float64 `json:"target"`
	Current  float64 `json:"current"`
	Progress float64 `json:"progress"`
}

func toSavingGoalPayload(g core.SavingGoal) savingGoalPayload {
	return savingGoalPayload{
		ID:       g.ID,
		Name:     g.Label,
		Target:   g.Target,
		Current:  g.Current,
		Progress: g.Progress(),
	}
}

type sessionPayload struct {
	ID           string  `json:"id"`
	StartTime    string  `json:"startTime"`
	EndTime      string  `json:"endTime,omitempty"`
	TotalMinutes float64 `json:"totalMinutes"`
	BreakMinutes float64 `json:"breakMinutes"`
	HourlyRate   float64 `json:"hourlyRate"`
	Earning      float64 `json:"earning"`
}

func toSessionPayload(s core.WorkSession) sessionPayload {
	p := sessionPayload{
		ID:           s.ID,
		StartTime:    s.StartTime.Format(time.RFC3339Nano),
		TotalMinutes: s.TotalMinutes,
		BreakMinutes: s.BreakMinutes,
		HourlyRate:   s.HourlyRate,
		Earning:      s.Earning,
	}
	if !s.EndTime.IsZero() {
		p.EndTime = s.EndTime.Format(time.RFC3339Nano)
	}
	return p
}

type settingsPayload struct {
	HourlyRate     float64 `json:"hourlyRate"`
	SavingsPercent float64 `json:"savingsPercent"`
}

type holdingPayload struct {
	ID            string  `json:"id,omitempty"`
	Symbol        string  `json:"symbol"`
	Shares        float64 `json:"shares"`
	PurchasePrice float64 `json:"purchasePrice"`
	PurchaseDate  string  `json:"purchaseDate,omitempty"`
}

func toHoldingPayload(h core.Holding) holdingPayload {
	return holdingPayload{
		ID:            h.ID,
		Symbol:        h.Symbol,
		Shares:        h.Shares,
		PurchasePrice: h.PurchasePrice,
		PurchaseDate:  h.PurchaseDate,
	}
}

func (p holdingPayload) toCore() core.Holding {
	return core.Holding{
		Symbol:        p.Symbol,
		Shares:        p.Shares,
		PurchasePrice: p.PurchasePrice,
		PurchaseDate:  p.PurchaseDate,
	}
}

type mortgagePayload struct {
	ID               string  `json:"id,omitempty"`
	PropertyName     string  `json:"propertyName"`
	LoanAmount       float64 `json:"loanAmount"`
	InterestRate     float64 `json:"interestRate"`
	TermYears        float64 `json:"termYears"`
	MonthlyPayment   float64 `json:"monthlyPayment"`
	RemainingBalance float64 `json:"remainingBalance"`
	StartDate        string  `json:"startDate,omitempty"`
	PayoffMonths     int     `json:"payoffMonths"`
}

func toMortgagePayload(m core.Mortgage) mortgagePayload {
	return mortgagePayload{
		ID:               m.ID,
		PropertyName:     m.PropertyName,
		LoanAmount:       m.LoanAmount,
		InterestRate:     m.InterestRate,
		TermYears:        m.TermYears,
		MonthlyPayment:   m.MonthlyPayment,
		RemainingBalance: m.RemainingBalance,
		StartDate:        m.StartDate,
		PayoffMonths:     mortgage.PayoffMonths(m),
	}
}

func (p mortgagePayload) toCore() core.Mortgage {
	return core.Mortgage{
		PropertyName:     p.PropertyName,
		LoanAmount:       p.LoanAmount,
		InterestRate:     p.InterestRate,
		TermYears:        p.TermYears,
		MonthlyPayment:   p.MonthlyPayment,
		RemainingBalance: p.RemainingBalance,
		StartDate:        p.StartDate,
	}
}
