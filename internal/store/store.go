// Package store defines the document-store boundary the rest of the core
// talks to. Records live in named collections (kinds), each record a flat
// field map with a store-assigned id. Normalization into typed domain values
// happens once, here, so downstream packages always see valid shapes.
package store

import (
	"context"
	"time"
)

// Kind names a record collection.
type Kind string

const (
	Expenses       Kind = "expenses"
	RecurringBills Kind = "recurring_bills"
	WorkSessions   Kind = "work_sessions"
	SavingGoals    Kind = "saving_goals"
	UserSettings   Kind = "user_settings"
	Stocks         Kind = "stocks"
	Mortgages      Kind = "mortgages"
)

// Kinds lists every collection the application persists.
var Kinds = []Kind{Expenses, RecurringBills, WorkSessions, SavingGoals, UserSettings, Stocks, Mortgages}

func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Fields is the raw field map of a document.
type Fields = map[string]any

// Record is a fetched document with its store-assigned id.
type Record struct {
	ID     string
	Fields Fields
}

// DeleteField is a sentinel value: passing it in an Update removes the field
// from the record instead of setting it.
var DeleteField = &struct{ name string }{"store.DeleteField"}

// Repository is the narrow gateway the core consumes. All operations are
// fallible and context-bound; none throws synchronously. Implementations own
// no domain state.
type Repository interface {
	// ListAll returns every record of the kind, excluding records flagged
	// as store-initialization placeholders (init: true).
	ListAll(ctx context.Context, kind Kind) ([]Record, error)
	Get(ctx context.Context, kind Kind, id string) (Record, error)
	Create(ctx context.Context, kind Kind, fields Fields) (string, error)
	// Put writes the full record under an explicit id, creating it when
	// absent. Used for well-known singleton documents.
	Put(ctx context.Context, kind Kind, id string, fields Fields) error
	// Update merges the partial fields into the record. DeleteField values
	// remove the named field.
	Update(ctx context.Context, kind Kind, id string, fields Fields) error
	Delete(ctx context.Context, kind Kind, id string) error
	// DeleteWhere removes every record whose field equals value and reports
	// how many were removed. Used to cascade-delete recurring-bill mirrors
	// by expenseId.
	DeleteWhere(ctx context.Context, kind Kind, field string, value any) (int, error)
	// Ping checks reachability of the backing store.
	Ping(ctx context.Context) error
}

// IsInitRecord reports whether the fields mark a collection-initialization
// placeholder that must never surface as data.
func IsInitRecord(f Fields) bool {
	v, ok := f["init"]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// WaitReady polls Ping until it succeeds or the budget runs out. It is the
// single, explicit readiness gate for online features: callers await it once
// at startup instead of retrying ad hoc at every call site.
func WaitReady(ctx context.Context, r Repository, budget time.Duration) error {
	if budget <= 0 {
		budget = 7 * time.Second
	}
	deadline := time.Now().Add(budget)
	var lastErr error
	for attempt := 0; ; attempt++ {
		checkCtx, cancel := context.WithTimeout(ctx, time.Second)
		lastErr = r.Ping(checkCtx)
		cancel()
		if lastErr == nil {
			return nil
		}
		if time.Now().After(deadline) || ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
	return lastErr
}
