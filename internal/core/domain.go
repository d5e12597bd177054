package core

import (
	"strings"
	"time"
)

const (
	Spending ExpenseKind = "spending"
	Bill     ExpenseKind = "bill"

	Single    BillSchedule = "single"
	Recurring BillSchedule = "recurring"
)

type (
	ExpenseKind  string
	BillSchedule string

	// Expense is a logged spending entry or bill obligation. Date carries no
	// time component and is kept in "YYYY-MM-DD" form.
	Expense struct {
		ID              string
		Note            string
		Amount          float64
		Date            string
		Category        string
		Kind            ExpenseKind
		BillSchedule    BillSchedule
		RecurringBillID string
	}

	// RecurringBill mirrors a recurring Bill-type Expense for aggregate
	// reporting. It never exists independently of one.
	RecurringBill struct {
		ID        string
		Label     string
		Amount    float64
		ExpenseID string
	}

	// WorkSession tracks one stretch of paid work. A session with a zero
	// EndTime is still active.
	WorkSession struct {
		ID           string
		StartTime    time.Time
		EndTime      time.Time
		TotalMinutes float64
		BreakMinutes float64
		HourlyRate   float64
		Earning      float64
	}

	// UserSettings is the singleton-per-user preference record.
	UserSettings struct {
		HourlyRate     float64
		SavingsPercent float64
	}

	// SavingGoal is a read-only display aggregate.
	SavingGoal struct {
		ID      string
		Label   string
		Target  float64
		Current float64
	}

	// Pace extrapolates historical work hours into earning estimates.
	Pace struct {
		Day   float64
		Week  float64
		Month float64
	}

	// Holding is a stock position in the portfolio viewer.
	Holding struct {
		ID            string
		Symbol        string
		Shares        float64
		PurchasePrice float64
		PurchaseDate  string
	}

	// Mortgage tracks an outstanding property loan.
	Mortgage struct {
		ID               string
		PropertyName     string
		LoanAmount       float64
		InterestRate     float64
		TermYears        float64
		MonthlyPayment   float64
		RemainingBalance float64
		StartDate        string
	}
)

// IsRecurringBill reports whether the expense is mirrored by a RecurringBill.
func (e Expense) IsRecurringBill() bool {
	return e.Kind == Bill && e.BillSchedule == Recurring
}

// MonthKey returns the "YYYY-MM" key of the expense date, or "" when the
// date is malformed.
func (e Expense) MonthKey() string {
	if len(e.Date) < 7 {
		return ""
	}
	return e.Date[:7]
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Note) == "" {
		return ErrEmptyNote
	}
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}
	if e.Date == "" {
		return ErrMissingDate
	}
	if _, err := time.Parse("2006-01-02", e.Date); err != nil {
		return ErrMissingDate
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrMissingCategory
	}
	return nil
}

// Normalize coerces missing or unknown kind/schedule values to their
// defaults. The backing store has no schema enforcement, so every record
// passes through here before the rest of the core sees it.
func (e Expense) Normalize() Expense {
	if e.Kind != Bill && e.Kind != Spending {
		e.Kind = Spending
	}
	if e.Kind != Bill || (e.BillSchedule != Recurring && e.BillSchedule != Single) {
		e.BillSchedule = Single
	}
	if !e.IsRecurringBill() {
		e.RecurringBillID = ""
	}
	return e
}

// Active reports whether the session is still running (never stopped).
func (s WorkSession) Active() bool {
	return s.EndTime.IsZero()
}

// SortKey is the timestamp used for windowing: the start time, or the end
// time when the start is missing.
func (s WorkSession) SortKey() time.Time {
	if !s.StartTime.IsZero() {
		return s.StartTime
	}
	return s.EndTime
}

// Normalize clamps the savings percentage into [0,100] and negative rates
// to zero.
func (u UserSettings) Normalize() UserSettings {
	if u.HourlyRate < 0 {
		u.HourlyRate = 0
	}
	if u.SavingsPercent < 0 {
		u.SavingsPercent = 0
	}
	if u.SavingsPercent > 100 {
		u.SavingsPercent = 100
	}
	return u
}

func (h Holding) Validate() error {
	if strings.TrimSpace(h.Symbol) == "" {
		return ErrMissingSymbol
	}
	if h.Shares <= 0 {
		return ErrInvalidAmount
	}
	if h.PurchasePrice < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// CostBasis is the total purchase cost of the position.
func (h Holding) CostBasis() float64 {
	return h.Shares * h.PurchasePrice
}

func (m Mortgage) Validate() error {
	if strings.TrimSpace(m.PropertyName) == "" {
		return ErrMissingProperty
	}
	if m.LoanAmount <= 0 || m.MonthlyPayment < 0 || m.RemainingBalance < 0 {
		return ErrInvalidAmount
	}
	if m.InterestRate < 0 || m.TermYears <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Progress returns goal completion in percent, capped at 100. A goal with no
// target reports zero.
func (g SavingGoal) Progress() float64 {
	if g.Target <= 0 {
		return 0
	}
	p := g.Current / g.Target * 100
	if p > 100 {
		return 100
	}
	return p
}
