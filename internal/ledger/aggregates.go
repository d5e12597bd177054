package ledger

import (
	"winner/internal/core"
)

// NoCategory is returned by BiggestCategory when nothing qualifies.
const NoCategory = "-"

// Expenses returns a copy of the working set in load order.
func (l *Ledger) Expenses() []core.Expense {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]core.Expense(nil), l.expenses...)
}

// RecurringBills returns a copy of the loaded recurring bill mirrors.
func (l *Ledger) RecurringBills() []core.RecurringBill {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]core.RecurringBill(nil), l.bills...)
}

// SavingGoals returns a copy of the loaded saving goals.
func (l *Ledger) SavingGoals() []core.SavingGoal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]core.SavingGoal(nil), l.goals...)
}

// counted reports whether the expense belongs in spending aggregates.
// Recurring bills are tracked through their mirror records instead, so they
// never show up twice.
func counted(e core.Expense, monthKey string) bool {
	if e.IsRecurringBill() {
		return false
	}
	return monthKey == "" || e.MonthKey() == monthKey
}

// MonthlyTotal sums expense amounts for the month, or across all months
// when monthKey is empty. Recurring bills are excluded.
func (l *Ledger) MonthlyTotal(monthKey string) float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	total := 0.0
	for _, e := range l.expenses {
		if counted(e, monthKey) {
			total += e.Amount
		}
	}
	return core.Round2(total)
}

// MonthlyBillTotal sums one-off bill amounts for the month. Recurring bills
// are carried by RecurringBillsTotal.
func (l *Ledger) MonthlyBillTotal(monthKey string) float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	total := 0.0
	for _, e := range l.expenses {
		if e.Kind != core.Bill || e.IsRecurringBill() {
			continue
		}
		if monthKey == "" || e.MonthKey() == monthKey {
			total += e.Amount
		}
	}
	return core.Round2(total)
}

// CategoryTotals groups the month's spending by category.
func (l *Ledger) CategoryTotals(monthKey string) map[string]float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	totals := make(map[string]float64)
	for _, e := range l.expenses {
		if counted(e, monthKey) {
			totals[e.Category] += e.Amount
		}
	}
	for k, v := range totals {
		totals[k] = core.Round2(v)
	}
	return totals
}

// BiggestCategory returns the category with the highest total for the
// month. Equal totals resolve to the category seen first in load order;
// NoCategory when the month has no qualifying expenses.
func (l *Ledger) BiggestCategory(monthKey string) (string, float64) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	totals := make(map[string]float64)
	order := make([]string, 0)
	for _, e := range l.expenses {
		if !counted(e, monthKey) {
			continue
		}
		if _, seen := totals[e.Category]; !seen {
			order = append(order, e.Category)
		}
		totals[e.Category] += e.Amount
	}
	best := NoCategory
	bestTotal := 0.0
	for _, category := range order {
		if totals[category] > bestTotal {
			best = category
			bestTotal = totals[category]
		}
	}
	return best, core.Round2(bestTotal)
}

// RecurringBillsTotal sums recurring bill amounts, counting each linked
// expense once even when double-linking left duplicate mirrors behind.
func (l *Ledger) RecurringBillsTotal() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	seen := make(map[string]bool, len(l.bills))
	total := 0.0
	for _, b := range l.bills {
		if b.ExpenseID != "" {
			if seen[b.ExpenseID] {
				continue
			}
			seen[b.ExpenseID] = true
		}
		total += b.Amount
	}
	return core.Round2(total)
}
