package store

import (
	"testing"
	"time"

	"winner/internal/core"
)

func TestDecodeExpenseDefensiveDefaults(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		want   core.Expense
	}{
		{
			name: "well formed",
			record: Record{ID: "e1", Fields: Fields{
				"note": "Rent", "amount": 900.0, "date": "2026-08-01",
				"category": "Housing", "type": "bill", "billSchedule": "recurring",
				"recurringBillId": "rb1",
			}},
			want: core.Expense{ID: "e1", Note: "Rent", Amount: 900, Date: "2026-08-01",
				Category: "Housing", Kind: core.Bill, BillSchedule: core.Recurring, RecurringBillID: "rb1"},
		},
		{
			name: "legacy notes key and unknown type",
			record: Record{ID: "e2", Fields: Fields{
				"notes": "Coffee", "amount": 3.0, "date": "2026-08-02T12:00:00Z",
				"category": "Food", "type": "mystery", "billSchedule": "recurring",
			}},
			want: core.Expense{ID: "e2", Note: "Coffee", Amount: 3, Date: "2026-08-02",
				Category: "Food", Kind: core.Spending, BillSchedule: core.Single},
		},
		{
			name:   "empty record never panics",
			record: Record{ID: "e3", Fields: Fields{}},
			want:   core.Expense{ID: "e3", Kind: core.Spending, BillSchedule: core.Single},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeExpense(tt.record); got != tt.want {
				t.Errorf("DecodeExpense() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExpenseEncodeDecodeShapeCompatible(t *testing.T) {
	e := core.Expense{ID: "e1", Note: "Gym", Amount: 25, Date: "2026-08-10",
		Category: "Health", Kind: core.Bill, BillSchedule: core.Recurring, RecurringBillID: "rb9"}
	got := DecodeExpense(Record{ID: "e1", Fields: EncodeExpense(e)})
	if got != e {
		t.Errorf("round trip = %+v, want %+v", got, e)
	}
}

func TestDecodeWorkSessionTimeShapes(t *testing.T) {
	start := time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		value any
	}{
		{"rfc3339 string", start.Format(time.RFC3339Nano)},
		{"time value", start},
		{"epoch millis", float64(start.UnixMilli())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DecodeWorkSession(Record{ID: "s1", Fields: Fields{"startTime": tt.value}})
			if !s.StartTime.Equal(start) {
				t.Errorf("StartTime = %v, want %v", s.StartTime, start)
			}
			if !s.Active() {
				t.Error("session without endTime should decode as active")
			}
		})
	}
}

func TestDecodeSavingGoalAlternateKeys(t *testing.T) {
	g := DecodeSavingGoal(Record{ID: "g1", Fields: Fields{
		"title": "Holiday", "goalAmount": 500.0, "saved": 125.0,
	}})
	if g.Label != "Holiday" || g.Target != 500 || g.Current != 125 {
		t.Errorf("DecodeSavingGoal = %+v", g)
	}
	if g.Progress() != 25 {
		t.Errorf("Progress = %v, want 25", g.Progress())
	}
	unnamed := DecodeSavingGoal(Record{ID: "g2", Fields: Fields{}})
	if unnamed.Label != "Goal" {
		t.Errorf("unnamed goal label = %q, want Goal", unnamed.Label)
	}
}

func TestIsInitRecord(t *testing.T) {
	if !IsInitRecord(Fields{"init": true}) {
		t.Error("init:true should be flagged")
	}
	if IsInitRecord(Fields{"init": "yes"}) || IsInitRecord(Fields{"amount": 1.0}) {
		t.Error("only boolean true init flags count")
	}
}
