package store

import (
	"math"
	"time"

	"winner/internal/core"
)

// Decoders below are the single normalization step between raw documents and
// typed domain values. They are total: unknown shapes coerce to defaults and
// never error, because the store enforces no schema.

func fieldString(f Fields, keys ...string) string {
	for _, k := range keys {
		if v, ok := f[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func fieldNumber(f Fields, keys ...string) float64 {
	for _, k := range keys {
		v, ok := f[k]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			if !math.IsNaN(n) && !math.IsInf(n, 0) {
				return n
			}
		case float32:
			return float64(n)
		case int:
			return float64(n)
		case int64:
			return float64(n)
		}
	}
	return 0
}

// fieldTime accepts time.Time values, RFC3339 strings and epoch-millisecond
// numbers; anything else decodes to the zero time.
func fieldTime(f Fields, keys ...string) time.Time {
	for _, k := range keys {
		v, ok := f[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case time.Time:
			return t
		case string:
			if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
				return parsed
			}
		case float64:
			if t > 0 {
				return time.UnixMilli(int64(t))
			}
		case int64:
			if t > 0 {
				return time.UnixMilli(t)
			}
		}
	}
	return time.Time{}
}

// fieldDate normalizes a date-like value to "YYYY-MM-DD" with no time part.
func fieldDate(f Fields, keys ...string) string {
	for _, k := range keys {
		v, ok := f[k]
		if !ok {
			continue
		}
		switch d := v.(type) {
		case string:
			if len(d) >= 10 {
				return d[:10]
			}
			return d
		case time.Time:
			return d.Format("2006-01-02")
		}
	}
	return ""
}

// DecodeExpense normalizes a raw expense record.
func DecodeExpense(r Record) core.Expense {
	e := core.Expense{
		ID:              r.ID,
		Note:            fieldString(r.Fields, "note", "notes"),
		Amount:          fieldNumber(r.Fields, "amount"),
		Date:            fieldDate(r.Fields, "date"),
		Category:        fieldString(r.Fields, "category"),
		Kind:            core.ExpenseKind(fieldString(r.Fields, "type")),
		BillSchedule:    core.BillSchedule(fieldString(r.Fields, "billSchedule")),
		RecurringBillID: fieldString(r.Fields, "recurringBillId"),
	}
	return e.Normalize()
}

// EncodeExpense produces the persisted field shape of an expense. The same
// shape is written to the local mirror so reconnects reconcile cleanly.
func EncodeExpense(e core.Expense) Fields {
	f := Fields{
		"note":         e.Note,
		"amount":       e.Amount,
		"date":         e.Date,
		"category":     e.Category,
		"type":         string(e.Kind),
		"billSchedule": string(e.BillSchedule),
	}
	if e.RecurringBillID != "" {
		f["recurringBillId"] = e.RecurringBillID
	}
	return f
}

func DecodeRecurringBill(r Record) core.RecurringBill {
	return core.RecurringBill{
		ID:        r.ID,
		Label:     fieldString(r.Fields, "name", "label", "note"),
		Amount:    fieldNumber(r.Fields, "amount"),
		ExpenseID: fieldString(r.Fields, "expenseId"),
	}
}

func EncodeRecurringBill(b core.RecurringBill) Fields {
	return Fields{
		"name":      b.Label,
		"note":      b.Label,
		"amount":    b.Amount,
		"expenseId": b.ExpenseID,
	}
}

func DecodeWorkSession(r Record) core.WorkSession {
	return core.WorkSession{
		ID:           r.ID,
		StartTime:    fieldTime(r.Fields, "startTime"),
		EndTime:      fieldTime(r.Fields, "endTime"),
		TotalMinutes: fieldNumber(r.Fields, "totalMinutes"),
		BreakMinutes: fieldNumber(r.Fields, "breakMinutes"),
		HourlyRate:   fieldNumber(r.Fields, "hourlyRate"),
		Earning:      fieldNumber(r.Fields, "earning"),
	}
}

func EncodeWorkSession(s core.WorkSession) Fields {
	f := Fields{
		"startTime":    s.StartTime.Format(time.RFC3339Nano),
		"totalMinutes": s.TotalMinutes,
		"breakMinutes": s.BreakMinutes,
		"hourlyRate":   s.HourlyRate,
		"earning":      s.Earning,
	}
	if !s.EndTime.IsZero() {
		f["endTime"] = s.EndTime.Format(time.RFC3339Nano)
	}
	return f
}

func DecodeUserSettings(r Record) core.UserSettings {
	s := core.UserSettings{
		HourlyRate:     fieldNumber(r.Fields, "hourlyRate"),
		SavingsPercent: fieldNumber(r.Fields, "savingsPercent"),
	}
	return s.Normalize()
}

func EncodeUserSettings(s core.UserSettings) Fields {
	return Fields{
		"hourlyRate":     s.HourlyRate,
		"savingsPercent": s.SavingsPercent,
	}
}

func DecodeHolding(r Record) core.Holding {
	return core.Holding{
		ID:            r.ID,
		Symbol:        fieldString(r.Fields, "symbol", "ticker"),
		Shares:        fieldNumber(r.Fields, "shares", "quantity"),
		PurchasePrice: fieldNumber(r.Fields, "purchasePrice", "price"),
		PurchaseDate:  fieldDate(r.Fields, "purchaseDate", "date"),
	}
}

func EncodeHolding(h core.Holding) Fields {
	return Fields{
		"symbol":        h.Symbol,
		"shares":        h.Shares,
		"purchasePrice": h.PurchasePrice,
		"purchaseDate":  h.PurchaseDate,
	}
}

func DecodeMortgage(r Record) core.Mortgage {
	return core.Mortgage{
		ID:               r.ID,
		PropertyName:     fieldString(r.Fields, "propertyName", "name"),
		LoanAmount:       fieldNumber(r.Fields, "loanAmount"),
		InterestRate:     fieldNumber(r.Fields, "interestRate"),
		TermYears:        fieldNumber(r.Fields, "termYears"),
		MonthlyPayment:   fieldNumber(r.Fields, "monthlyPayment"),
		RemainingBalance: fieldNumber(r.Fields, "remainingBalance"),
		StartDate:        fieldDate(r.Fields, "startDate"),
	}
}

func EncodeMortgage(m core.Mortgage) Fields {
	return Fields{
		"propertyName":     m.PropertyName,
		"loanAmount":       m.LoanAmount,
		"interestRate":     m.InterestRate,
		"termYears":        m.TermYears,
		"monthlyPayment":   m.MonthlyPayment,
		"remainingBalance": m.RemainingBalance,
		"startDate":        m.StartDate,
	}
}

func EncodeSavingGoal(g core.SavingGoal) Fields {
	return Fields{
		"name":    g.Label,
		"target":  g.Target,
		"current": g.Current,
	}
}

func DecodeSavingGoal(r Record) core.SavingGoal {
	label := fieldString(r.Fields, "name", "label", "title", "note")
	if label == "" {
		label = "Goal"
	}
	return core.SavingGoal{
		ID:      r.ID,
		Label:   label,
		Target:  fieldNumber(r.Fields, "target", "targetAmount", "goalAmount"),
		Current: fieldNumber(r.Fields, "current", "currentAmount", "saved"),
	}
}
