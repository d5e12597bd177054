package mirror

import (
	"os"
	"path/filepath"
	"testing"

	"winner/internal/core"
)

func TestWriteAndReadExpenses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "mirror.json")
	m := New(path)

	in := []core.Expense{
		{ID: "a", Note: "coffee", Amount: 3.5, Date: "2026-08-01", Category: "food", Kind: core.Spending},
		{ID: "b", Note: "rent", Amount: 900, Date: "2026-08-01", Category: "housing", Kind: core.Bill, BillSchedule: core.Recurring, RecurringBillID: "rb1"},
	}
	if err := m.WriteExpenses(in); err != nil {
		t.Fatalf("WriteExpenses: %v", err)
	}

	out, err := m.ReadExpenses()
	if err != nil {
		t.Fatalf("ReadExpenses: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(out))
	}
	if out[0].ID != "a" || out[0].Note != "coffee" || out[0].Amount != 3.5 {
		t.Errorf("first expense mismatch: %+v", out[0])
	}
	if out[1].RecurringBillID != "rb1" || out[1].Kind != core.Bill {
		t.Errorf("second expense mismatch: %+v", out[1])
	}
}

func TestReadMissingFileIsEmpty(t *testing.T) {
	m := New(filepath.Join(t.TempDir(), "absent.json"))
	out, err := m.ReadExpenses()
	if err != nil {
		t.Fatalf("ReadExpenses: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty set, got %d", len(out))
	}
}

func TestReadCorruptFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mirror.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(path).ReadExpenses(); err == nil {
		t.Fatal("expected error for corrupt snapshot")
	}
}

func TestWriteReplacesPrevious(t *testing.T) {
	m := New(filepath.Join(t.TempDir(), "mirror.json"))
	if err := m.WriteExpenses([]core.Expense{{ID: "a", Note: "x", Amount: 1, Date: "2026-08-01", Category: "misc"}}); err != nil {
		t.Fatal(err)
	}
	if err := m.WriteExpenses(nil); err != nil {
		t.Fatal(err)
	}
	out, err := m.ReadExpenses()
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Fatalf("expected snapshot replaced with empty set, got %d", len(out))
	}
}
