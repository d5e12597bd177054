package worker

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"winner/internal/amqp"
	"winner/internal/ledger"
	"winner/internal/log"
	sheetmem "winner/internal/sheets/memory"
	"winner/internal/store"
	"winner/internal/store/memory"
)

func testLogger() *log.Logger {
	return log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

func TestHandleRecordChangeReloadsLedger(t *testing.T) {
	repo := memory.New()
	ldg := ledger.New(repo, testLogger())
	w := NewSyncWorker(repo, ldg, nil, testLogger())
	ctx := context.Background()

	repo.Seed(store.Expenses, "e1", store.Fields{
		"note": "rent", "amount": 900.0, "date": "2026-08-01",
		"category": "Housing", "type": "bill",
	})

	msg := amqp.NewRecordChangeMessage(store.Expenses, "e1", "update")
	if err := w.HandleRecordChange(ctx, msg); err != nil {
		t.Fatalf("HandleRecordChange: %v", err)
	}

	if got := len(ldg.Expenses()); got != 1 {
		t.Fatalf("expenses after reload = %d, want 1", got)
	}
}

func TestHandleRecordChangeExportsCreatedExpense(t *testing.T) {
	repo := memory.New()
	ldg := ledger.New(repo, testLogger())
	sheet := sheetmem.New()
	w := NewSyncWorker(repo, ldg, sheet, testLogger())
	ctx := context.Background()

	repo.Seed(store.Expenses, "e1", store.Fields{
		"note": "coffee", "amount": 3.5, "date": "2026-08-02",
		"category": "Food", "type": "spending",
	})

	msg := amqp.NewRecordChangeMessage(store.Expenses, "e1", "create")
	if err := w.HandleRecordChange(ctx, msg); err != nil {
		t.Fatalf("HandleRecordChange: %v", err)
	}

	items := sheet.Items()
	if len(items) != 1 {
		t.Fatalf("exported rows = %d, want 1", len(items))
	}
	if items[0].Note != "coffee" || items[0].Amount != 3.5 {
		t.Fatalf("exported row = %+v", items[0])
	}
}

func TestHandleRecordChangeSkipsExportForOtherOps(t *testing.T) {
	repo := memory.New()
	ldg := ledger.New(repo, testLogger())
	sheet := sheetmem.New()
	w := NewSyncWorker(repo, ldg, sheet, testLogger())
	ctx := context.Background()

	repo.Seed(store.Expenses, "e1", store.Fields{
		"note": "coffee", "amount": 3.5, "date": "2026-08-02",
		"category": "Food", "type": "spending",
	})

	msg := amqp.NewRecordChangeMessage(store.Expenses, "e1", "delete")
	if err := w.HandleRecordChange(ctx, msg); err != nil {
		t.Fatalf("HandleRecordChange: %v", err)
	}
	if got := len(sheet.Items()); got != 0 {
		t.Fatalf("exported rows = %d, want 0", got)
	}
}

func TestHandleRecordChangeExportFailureDoesNotFailMessage(t *testing.T) {
	repo := memory.New()
	ldg := ledger.New(repo, testLogger())
	sheet := sheetmem.New()
	w := NewSyncWorker(repo, ldg, sheet, testLogger())
	ctx := context.Background()

	// No such record in the store, so the export lookup fails.
	msg := amqp.NewRecordChangeMessage(store.Expenses, "missing", "create")
	if err := w.HandleRecordChange(ctx, msg); err != nil {
		t.Fatalf("HandleRecordChange: %v", err)
	}
	if got := len(sheet.Items()); got != 0 {
		t.Fatalf("exported rows = %d, want 0", got)
	}
}

func TestStartupCheckRepairsLinks(t *testing.T) {
	repo := memory.New()
	ldg := ledger.New(repo, testLogger())
	w := NewSyncWorker(repo, ldg, nil, testLogger())
	ctx := context.Background()

	// Recurring bill expense without its companion bill record.
	repo.Seed(store.Expenses, "e1", store.Fields{
		"note": "gym", "amount": 40.0, "date": "2026-08-01",
		"category": "Health", "type": "bill", "billSchedule": "recurring",
	})

	if err := w.StartupCheck(ctx); err != nil {
		t.Fatalf("StartupCheck: %v", err)
	}

	if got := repo.Len(store.RecurringBills); got != 1 {
		t.Fatalf("recurring bills after repair = %d, want 1", got)
	}
}
