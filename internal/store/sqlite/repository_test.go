package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"winner/internal/core"
	"winner/internal/store"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "winner.db"))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestCreateGetUpdateDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, store.Expenses, store.Fields{
		"note": "Rent", "amount": 900.0, "type": "bill", "recurringBillId": "rb1",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	rec, err := repo.Get(ctx, store.Expenses, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Fields["note"] != "Rent" || rec.Fields["amount"] != 900.0 {
		t.Errorf("fields = %+v", rec.Fields)
	}

	err = repo.Update(ctx, store.Expenses, id, store.Fields{
		"amount":          950.0,
		"recurringBillId": store.DeleteField,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	rec, _ = repo.Get(ctx, store.Expenses, id)
	if rec.Fields["amount"] != 950.0 {
		t.Errorf("amount after update = %v", rec.Fields["amount"])
	}
	if _, ok := rec.Fields["recurringBillId"]; ok {
		t.Error("recurringBillId should have been removed")
	}

	if err := repo.Delete(ctx, store.Expenses, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Get(ctx, store.Expenses, id); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
}

func TestListAllFiltersInitRecords(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.Create(ctx, store.RecurringBills, store.Fields{"init": true}); err != nil {
		t.Fatalf("Create placeholder: %v", err)
	}
	if _, err := repo.Create(ctx, store.RecurringBills, store.Fields{"amount": 12.0, "expenseId": "e1"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	records, err := repo.ListAll(ctx, store.RecurringBills)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("ListAll = %d records, want 1", len(records))
	}
}

func TestDeleteWhereMatchesJSONField(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, exp := range []string{"e1", "e1", "e2"} {
		if _, err := repo.Create(ctx, store.RecurringBills, store.Fields{"expenseId": exp}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	n, err := repo.DeleteWhere(ctx, store.RecurringBills, "expenseId", "e1")
	if err != nil {
		t.Fatalf("DeleteWhere: %v", err)
	}
	if n != 2 {
		t.Errorf("removed = %d, want 2", n)
	}
	records, _ := repo.ListAll(ctx, store.RecurringBills)
	if len(records) != 1 || records[0].Fields["expenseId"] != "e2" {
		t.Errorf("remaining = %+v", records)
	}
}

func TestUpdateMissingRecord(t *testing.T) {
	repo := newTestRepo(t)
	err := repo.Update(context.Background(), store.Expenses, "ghost", store.Fields{"x": 1})
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Update missing = %v, want ErrNotFound", err)
	}
}
