package memory

import (
	"context"
	"errors"
	"testing"

	"winner/internal/core"
	"winner/internal/store"
)

func TestCreateListRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, err := s.Create(ctx, store.Expenses, store.Fields{"note": "Lunch", "amount": 9.5})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == "" {
		t.Fatal("Create returned empty id")
	}

	records, err := s.ListAll(ctx, store.Expenses)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(records) != 1 || records[0].ID != id {
		t.Fatalf("ListAll = %+v, want one record with id %s", records, id)
	}
	if records[0].Fields["note"] != "Lunch" {
		t.Errorf("fields = %+v", records[0].Fields)
	}
}

func TestListAllSkipsInitPlaceholders(t *testing.T) {
	s := New()
	s.Seed(store.Expenses, "placeholder", store.Fields{"init": true})
	s.Seed(store.Expenses, "real", store.Fields{"note": "x"})

	records, err := s.ListAll(context.Background(), store.Expenses)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(records) != 1 || records[0].ID != "real" {
		t.Fatalf("ListAll = %+v, want only the real record", records)
	}
}

func TestListAllPreservesInsertionOrder(t *testing.T) {
	s := New()
	ctx := context.Background()
	var ids []string
	for i := 0; i < 5; i++ {
		id, err := s.Create(ctx, store.Expenses, store.Fields{"i": float64(i)})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		ids = append(ids, id)
	}
	records, _ := s.ListAll(ctx, store.Expenses)
	for i, r := range records {
		if r.ID != ids[i] {
			t.Fatalf("record %d = %s, want %s", i, r.ID, ids[i])
		}
	}
}

func TestUpdateMergeAndFieldDelete(t *testing.T) {
	s := New()
	ctx := context.Background()
	id, _ := s.Create(ctx, store.Expenses, store.Fields{"note": "Rent", "recurringBillId": "rb1"})

	err := s.Update(ctx, store.Expenses, id, store.Fields{
		"note":            "Rent (updated)",
		"recurringBillId": store.DeleteField,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	rec, _ := s.Get(ctx, store.Expenses, id)
	if rec.Fields["note"] != "Rent (updated)" {
		t.Errorf("note = %v", rec.Fields["note"])
	}
	if _, ok := rec.Fields["recurringBillId"]; ok {
		t.Error("recurringBillId should have been removed")
	}

	if err := s.Update(ctx, store.Expenses, "missing", store.Fields{"x": 1}); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Update missing = %v, want ErrNotFound", err)
	}
}

func TestDeleteWhere(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.Seed(store.RecurringBills, "rb1", store.Fields{"expenseId": "e1"})
	s.Seed(store.RecurringBills, "rb2", store.Fields{"expenseId": "e1"})
	s.Seed(store.RecurringBills, "rb3", store.Fields{"expenseId": "e2"})

	n, err := s.DeleteWhere(ctx, store.RecurringBills, "expenseId", "e1")
	if err != nil {
		t.Fatalf("DeleteWhere: %v", err)
	}
	if n != 2 {
		t.Errorf("removed = %d, want 2", n)
	}
	records, _ := s.ListAll(ctx, store.RecurringBills)
	if len(records) != 1 || records[0].ID != "rb3" {
		t.Errorf("remaining = %+v", records)
	}
}

func TestRecordsAreIsolatedCopies(t *testing.T) {
	s := New()
	ctx := context.Background()
	id, _ := s.Create(ctx, store.Expenses, store.Fields{"note": "a"})
	rec, _ := s.Get(ctx, store.Expenses, id)
	rec.Fields["note"] = "mutated"
	again, _ := s.Get(ctx, store.Expenses, id)
	if again.Fields["note"] != "a" {
		t.Error("caller mutation leaked into the store")
	}
}
