package worker

import (
	"context"
	"fmt"
	"time"

	"winner/internal/amqp"
	"winner/internal/ledger"
	"winner/internal/log"
	"winner/internal/sheets"
	"winner/internal/store"
)

// SyncWorker reacts to record change events by rebuilding the ledger
// snapshot (which rewrites the JSON mirror) and, when a sheets appender
// is configured, exporting newly created expenses to the spreadsheet.
type SyncWorker struct {
	repo     store.Repository
	ledger   *ledger.Ledger
	appender sheets.ExpenseAppender
	logger   *log.Logger
}

func NewSyncWorker(repo store.Repository, ldg *ledger.Ledger, appender sheets.ExpenseAppender, logger *log.Logger) *SyncWorker {
	return &SyncWorker{
		repo:     repo,
		ledger:   ldg,
		appender: appender,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// HandleRecordChange processes a single change event. The ledger reload
// is the authoritative work; the sheets export is best effort and never
// fails the message.
func (w *SyncWorker) HandleRecordChange(ctx context.Context, msg *amqp.RecordChangeMessage) error {
	fields := log.NewFields().WithRecord(string(msg.Kind), msg.ID).WithOperation(msg.Op)
	w.logger.InfoContext(ctx, "Processing record change", fields.ToSlice()...)

	if err := w.ledger.Load(ctx); err != nil {
		return fmt.Errorf("reload ledger: %w", err)
	}

	if msg.Op == log.OpCreate && msg.Kind == store.Expenses {
		w.exportExpense(ctx, msg.ID)
	}

	return nil
}

// StartupCheck rebuilds the snapshot and repairs any recurring bill
// links that drifted while the worker was down.
func (w *SyncWorker) StartupCheck(ctx context.Context) error {
	if err := w.ledger.Load(ctx); err != nil {
		return fmt.Errorf("startup load: %w", err)
	}

	repaired, err := w.ledger.RepairInvariants(ctx)
	if err != nil {
		return fmt.Errorf("startup repair: %w", err)
	}
	if repaired > 0 {
		w.logger.InfoContext(ctx, "Repaired recurring bill links on startup",
			log.FieldCount, repaired)
	}

	return nil
}

// RunPeriodic refreshes the snapshot on a fixed interval as a backstop
// for missed change events. It blocks until the context is cancelled.
func (w *SyncWorker) RunPeriodic(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.ledger.Load(ctx); err != nil {
				w.logger.ErrorContext(ctx, "Periodic refresh failed",
					log.FieldError, err)
			}
		}
	}
}

func (w *SyncWorker) exportExpense(ctx context.Context, id string) {
	if w.appender == nil {
		return
	}

	rec, err := w.repo.Get(ctx, store.Expenses, id)
	if err != nil {
		w.logger.WarnContext(ctx, "Expense vanished before export",
			log.FieldRecordID, id,
			log.FieldError, err)
		return
	}

	ref, err := w.appender.Append(ctx, store.DecodeExpense(rec))
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to export expense to sheet",
			log.FieldRecordID, id,
			log.FieldError, err)
		return
	}

	w.logger.InfoContext(ctx, "Exported expense to sheet",
		log.FieldRecordID, id,
		"sheet_ref", ref)
}
