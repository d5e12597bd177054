// Package ledger owns the in-memory expense working set. It loads and
// classifies expense records, keeps the recurring-bill mirror records in
// step with their expenses, and computes the monthly and per-category
// aggregates the dashboard is built from.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"winner/internal/core"
	"winner/internal/log"
	"winner/internal/store"
)

// Snapshotter persists a local copy of the expense working set so reads can
// fall back to it when the store is unreachable.
type Snapshotter interface {
	WriteExpenses([]core.Expense) error
	ReadExpenses() ([]core.Expense, error)
}

// Notifier receives best-effort record-change events after successful
// mutations. Failures are logged, never surfaced.
type Notifier interface {
	RecordChanged(ctx context.Context, kind store.Kind, id, op string) error
}

type Ledger struct {
	repo   store.Repository
	mirror Snapshotter
	notify Notifier
	logger *log.Logger

	mu       sync.RWMutex
	expenses []core.Expense
	bills    []core.RecurringBill
	goals    []core.SavingGoal
	offline  bool
}

type Option func(*Ledger)

func WithMirror(m Snapshotter) Option {
	return func(l *Ledger) { l.mirror = m }
}

func WithNotifier(n Notifier) Option {
	return func(l *Ledger) { l.notify = n }
}

func New(repo store.Repository, logger *log.Logger, opts ...Option) *Ledger {
	l := &Ledger{
		repo:   repo,
		logger: logger.WithComponent(log.ComponentLedger),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load replaces the working set from the store. Records with missing or
// invalid kind/schedule fields are defaulted, never rejected: the store has
// no schema enforcement and a single malformed record must not block the
// dashboard. Invariant repair is a separate, explicit call.
func (l *Ledger) Load(ctx context.Context) error {
	expenseRecs, err := l.repo.ListAll(ctx, store.Expenses)
	if err != nil {
		return fmt.Errorf("load expenses: %w", err)
	}
	billRecs, err := l.repo.ListAll(ctx, store.RecurringBills)
	if err != nil {
		return fmt.Errorf("load recurring bills: %w", err)
	}
	goalRecs, err := l.repo.ListAll(ctx, store.SavingGoals)
	if err != nil {
		return fmt.Errorf("load saving goals: %w", err)
	}

	expenses := make([]core.Expense, 0, len(expenseRecs))
	for _, r := range expenseRecs {
		expenses = append(expenses, store.DecodeExpense(r))
	}
	bills := make([]core.RecurringBill, 0, len(billRecs))
	for _, r := range billRecs {
		bills = append(bills, store.DecodeRecurringBill(r))
	}
	goals := make([]core.SavingGoal, 0, len(goalRecs))
	for _, r := range goalRecs {
		goals = append(goals, store.DecodeSavingGoal(r))
	}

	l.mu.Lock()
	l.expenses = expenses
	l.bills = bills
	l.goals = goals
	l.offline = false
	l.mu.Unlock()

	l.logger.InfoContext(ctx, "working set loaded",
		log.FieldOperation, log.OpLoad,
		log.FieldCount, len(expenses))
	l.writeMirror(ctx)
	return nil
}

// LoadFromMirror fills the working set from the local snapshot. Used when
// the store is unreachable at startup; the ledger stays read-only until a
// successful Load.
func (l *Ledger) LoadFromMirror(ctx context.Context) error {
	if l.mirror == nil {
		return fmt.Errorf("%w: no local mirror configured", core.ErrStorageUnavailable)
	}
	expenses, err := l.mirror.ReadExpenses()
	if err != nil {
		return fmt.Errorf("load mirror: %w", err)
	}
	l.mu.Lock()
	l.expenses = expenses
	l.bills = nil
	l.goals = nil
	l.offline = true
	l.mu.Unlock()

	l.logger.WarnContext(ctx, "store unreachable, serving mirror snapshot",
		log.FieldOperation, log.OpLoad,
		log.FieldCount, len(expenses))
	return nil
}

// Offline reports whether the working set came from the mirror snapshot.
func (l *Ledger) Offline() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.offline
}

// RepairInvariants backfills the recurring-bill mirror for every recurring
// expense whose link is missing or dangling, removes mirrors whose expense
// is no longer recurring, and reports how many records it touched. Callers
// run it after Load; it is deliberately not folded into Load so the repair
// can be observed in isolation.
func (l *Ledger) RepairInvariants(ctx context.Context) (int, error) {
	l.mu.RLock()
	expenses := append([]core.Expense(nil), l.expenses...)
	bills := append([]core.RecurringBill(nil), l.bills...)
	known := make(map[string]bool, len(l.bills))
	for _, b := range l.bills {
		known[b.ID] = true
	}
	l.mu.RUnlock()

	repaired := 0
	for _, e := range expenses {
		if !e.IsRecurringBill() {
			continue
		}
		if e.RecurringBillID != "" && known[e.RecurringBillID] {
			continue
		}
		bill := core.RecurringBill{Label: e.Note, Amount: e.Amount, ExpenseID: e.ID}
		billID, err := l.repo.Create(ctx, store.RecurringBills, store.EncodeRecurringBill(bill))
		if err != nil {
			return repaired, fmt.Errorf("repair bill for expense %s: %w", e.ID, err)
		}
		if err := l.repo.Update(ctx, store.Expenses, e.ID, store.Fields{"recurringBillId": billID}); err != nil {
			return repaired, fmt.Errorf("relink expense %s: %w", e.ID, err)
		}
		bill.ID = billID
		l.mu.Lock()
		l.bills = append(l.bills, bill)
		for i := range l.expenses {
			if l.expenses[i].ID == e.ID {
				l.expenses[i].RecurringBillID = billID
			}
		}
		l.mu.Unlock()
		l.logger.InfoContext(ctx, "recurring bill link repaired",
			log.FieldOperation, log.OpRepair,
			log.FieldExpenseID, e.ID,
			log.FieldBillID, billID)
		repaired++
	}

	// The reverse direction: mirrors left behind when an edit demoted the
	// expense and the teardown write failed. Their amounts would keep
	// inflating RecurringBillsTotal.
	recurring := make(map[string]bool, len(expenses))
	for _, e := range expenses {
		if e.IsRecurringBill() {
			recurring[e.ID] = true
		}
	}
	for _, b := range bills {
		if b.ExpenseID == "" || recurring[b.ExpenseID] {
			continue
		}
		if err := l.repo.Delete(ctx, store.RecurringBills, b.ID); err != nil && !errors.Is(err, core.ErrNotFound) {
			return repaired, fmt.Errorf("drop orphaned bill %s: %w", b.ID, err)
		}
		if err := l.repo.Update(ctx, store.Expenses, b.ExpenseID, store.Fields{"recurringBillId": store.DeleteField}); err != nil && !errors.Is(err, core.ErrNotFound) {
			return repaired, fmt.Errorf("unlink expense %s: %w", b.ExpenseID, err)
		}
		l.mu.Lock()
		kept := l.bills[:0]
		for _, candidate := range l.bills {
			if candidate.ID == b.ID {
				continue
			}
			kept = append(kept, candidate)
		}
		l.bills = kept
		for i := range l.expenses {
			if l.expenses[i].RecurringBillID == b.ID {
				l.expenses[i].RecurringBillID = ""
			}
		}
		l.mu.Unlock()
		l.logger.InfoContext(ctx, "orphaned recurring bill removed",
			log.FieldOperation, log.OpRepair,
			log.FieldBillID, b.ID,
			log.FieldExpenseID, b.ExpenseID)
		repaired++
	}

	if repaired > 0 {
		l.writeMirror(ctx)
	}
	return repaired, nil
}

// Add validates and persists a new expense. For a recurring bill the mirror
// record is created after the expense write; if that second write fails the
// expense still stands and the missing link is left for RepairInvariants.
func (l *Ledger) Add(ctx context.Context, e core.Expense) (core.Expense, error) {
	e = e.Normalize()
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	id, err := l.repo.Create(ctx, store.Expenses, store.EncodeExpense(e))
	if err != nil {
		return core.Expense{}, err
	}
	e.ID = id

	if e.IsRecurringBill() {
		bill := core.RecurringBill{Label: e.Note, Amount: e.Amount, ExpenseID: e.ID}
		billID, linkErr := l.linkRecurringBill(ctx, e.ID, bill)
		if linkErr != nil {
			l.logger.WarnContext(ctx, "recurring bill link failed, queued for repair",
				log.FieldOperation, log.OpCreate,
				log.FieldExpenseID, e.ID,
				log.FieldError, linkErr.Error())
		} else {
			e.RecurringBillID = billID
		}
	}

	l.mu.Lock()
	l.expenses = append(l.expenses, e)
	l.mu.Unlock()

	l.logger.InfoContext(ctx, "expense added",
		log.FieldOperation, log.OpCreate,
		log.FieldExpenseID, e.ID,
		log.FieldCategory, e.Category,
		log.FieldAmount, e.Amount)
	l.afterMutation(ctx, e.ID, log.OpCreate)
	return e, nil
}

// Edit validates and persists changed fields, then reconciles the recurring
// bill link: created when newly recurring, torn down when no longer, and
// kept current otherwise. The in-memory copy is updated optimistically and
// rolled back if the store rejects the write.
func (l *Ledger) Edit(ctx context.Context, id string, updated core.Expense) (core.Expense, error) {
	updated = updated.Normalize()
	if err := updated.Validate(); err != nil {
		return core.Expense{}, err
	}

	l.mu.Lock()
	idx := -1
	for i := range l.expenses {
		if l.expenses[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		l.mu.Unlock()
		return core.Expense{}, fmt.Errorf("%w: expense %s", core.ErrNotFound, id)
	}
	previous := l.expenses[idx]
	updated.ID = id
	updated.RecurringBillID = previous.RecurringBillID
	l.expenses[idx] = updated
	l.mu.Unlock()

	fields := store.EncodeExpense(updated)
	if updated.RecurringBillID == "" {
		fields["recurringBillId"] = store.DeleteField
	}
	if err := l.repo.Update(ctx, store.Expenses, id, fields); err != nil {
		l.mu.Lock()
		l.expenses[idx] = previous
		l.mu.Unlock()
		return core.Expense{}, err
	}

	reconciled, err := l.reconcileLink(ctx, previous, updated)
	if err != nil {
		l.logger.WarnContext(ctx, "recurring bill link reconciliation failed, queued for repair",
			log.FieldOperation, log.OpUpdate,
			log.FieldExpenseID, id,
			log.FieldError, err.Error())
	} else {
		updated = reconciled
		l.mu.Lock()
		l.expenses[idx] = updated
		l.mu.Unlock()
	}

	l.logger.InfoContext(ctx, "expense updated",
		log.FieldOperation, log.OpUpdate,
		log.FieldExpenseID, id)
	l.afterMutation(ctx, id, log.OpUpdate)
	return updated, nil
}

// Remove deletes the expense and cascades over its recurring bill mirror,
// matching both by the stored link id and by expenseId. The double match
// catches orphaned duplicates left behind by earlier partial failures.
func (l *Ledger) Remove(ctx context.Context, id string) error {
	l.mu.Lock()
	idx := -1
	for i := range l.expenses {
		if l.expenses[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		l.mu.Unlock()
		return fmt.Errorf("%w: expense %s", core.ErrNotFound, id)
	}
	removed := l.expenses[idx]
	l.expenses = append(l.expenses[:idx], l.expenses[idx+1:]...)
	l.mu.Unlock()

	if err := l.repo.Delete(ctx, store.Expenses, id); err != nil {
		l.mu.Lock()
		l.expenses = append(l.expenses, removed)
		l.mu.Unlock()
		return err
	}

	if removed.RecurringBillID != "" {
		if err := l.repo.Delete(ctx, store.RecurringBills, removed.RecurringBillID); err != nil {
			l.logger.WarnContext(ctx, "linked recurring bill delete failed",
				log.FieldOperation, log.OpDelete,
				log.FieldBillID, removed.RecurringBillID,
				log.FieldError, err.Error())
		}
	}
	if _, err := l.repo.DeleteWhere(ctx, store.RecurringBills, "expenseId", id); err != nil {
		l.logger.WarnContext(ctx, "recurring bill cascade delete failed",
			log.FieldOperation, log.OpDelete,
			log.FieldExpenseID, id,
			log.FieldError, err.Error())
	}
	l.mu.Lock()
	kept := l.bills[:0]
	for _, b := range l.bills {
		if b.ExpenseID == id || b.ID == removed.RecurringBillID {
			continue
		}
		kept = append(kept, b)
	}
	l.bills = kept
	l.mu.Unlock()

	l.logger.InfoContext(ctx, "expense removed",
		log.FieldOperation, log.OpDelete,
		log.FieldExpenseID, id)
	l.afterMutation(ctx, id, log.OpDelete)
	return nil
}

func (l *Ledger) linkRecurringBill(ctx context.Context, expenseID string, bill core.RecurringBill) (string, error) {
	billID, err := l.repo.Create(ctx, store.RecurringBills, store.EncodeRecurringBill(bill))
	if err != nil {
		return "", err
	}
	if err := l.repo.Update(ctx, store.Expenses, expenseID, store.Fields{"recurringBillId": billID}); err != nil {
		return "", err
	}
	bill.ID = billID
	l.mu.Lock()
	l.bills = append(l.bills, bill)
	l.mu.Unlock()
	return billID, nil
}

func (l *Ledger) reconcileLink(ctx context.Context, previous, updated core.Expense) (core.Expense, error) {
	wasRecurring := previous.IsRecurringBill()
	isRecurring := updated.IsRecurringBill()

	switch {
	case isRecurring && !wasRecurring:
		bill := core.RecurringBill{Label: updated.Note, Amount: updated.Amount, ExpenseID: updated.ID}
		billID, err := l.linkRecurringBill(ctx, updated.ID, bill)
		if err != nil {
			return updated, err
		}
		updated.RecurringBillID = billID

	case !isRecurring && wasRecurring:
		if previous.RecurringBillID != "" {
			if err := l.repo.Delete(ctx, store.RecurringBills, previous.RecurringBillID); err != nil {
				return updated, err
			}
		}
		if _, err := l.repo.DeleteWhere(ctx, store.RecurringBills, "expenseId", updated.ID); err != nil {
			return updated, err
		}
		if err := l.repo.Update(ctx, store.Expenses, updated.ID, store.Fields{"recurringBillId": store.DeleteField}); err != nil {
			return updated, err
		}
		updated.RecurringBillID = ""
		l.mu.Lock()
		kept := l.bills[:0]
		for _, b := range l.bills {
			if b.ExpenseID == updated.ID || b.ID == previous.RecurringBillID {
				continue
			}
			kept = append(kept, b)
		}
		l.bills = kept
		l.mu.Unlock()

	case isRecurring && wasRecurring:
		if previous.RecurringBillID == "" {
			bill := core.RecurringBill{Label: updated.Note, Amount: updated.Amount, ExpenseID: updated.ID}
			billID, err := l.linkRecurringBill(ctx, updated.ID, bill)
			if err != nil {
				return updated, err
			}
			updated.RecurringBillID = billID
			break
		}
		bill := core.RecurringBill{ID: previous.RecurringBillID, Label: updated.Note, Amount: updated.Amount, ExpenseID: updated.ID}
		err := l.repo.Update(ctx, store.RecurringBills, bill.ID, store.EncodeRecurringBill(bill))
		if errors.Is(err, core.ErrNotFound) {
			billID, createErr := l.linkRecurringBill(ctx, updated.ID, core.RecurringBill{Label: updated.Note, Amount: updated.Amount, ExpenseID: updated.ID})
			if createErr != nil {
				return updated, createErr
			}
			updated.RecurringBillID = billID
			break
		}
		if err != nil {
			return updated, err
		}
		l.mu.Lock()
		for i := range l.bills {
			if l.bills[i].ID == bill.ID {
				l.bills[i] = bill
			}
		}
		l.mu.Unlock()
	}
	return updated, nil
}

func (l *Ledger) afterMutation(ctx context.Context, id, op string) {
	l.writeMirror(ctx)
	if l.notify == nil {
		return
	}
	if err := l.notify.RecordChanged(ctx, store.Expenses, id, op); err != nil {
		l.logger.WarnContext(ctx, "record change notification failed",
			log.FieldOperation, op,
			log.FieldExpenseID, id,
			log.FieldError, err.Error())
	}
}

func (l *Ledger) writeMirror(ctx context.Context) {
	if l.mirror == nil {
		return
	}
	l.mu.RLock()
	snapshot := append([]core.Expense(nil), l.expenses...)
	l.mu.RUnlock()
	if err := l.mirror.WriteExpenses(snapshot); err != nil {
		l.logger.WarnContext(ctx, "mirror write failed",
			log.FieldOperation, log.OpSync,
			log.FieldError, err.Error())
	}
}
