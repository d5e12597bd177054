// Package mirror keeps a local JSON snapshot of the expense working set.
// It is written after every successful mutation and read as the fallback
// when the backing store is unreachable at startup. The on-disk shape uses
// the store's field names so a later reconnect reconciles cleanly.
package mirror

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"winner/internal/core"
	"winner/internal/store"
)

type Mirror struct {
	mu   sync.Mutex
	path string
}

func New(path string) *Mirror {
	return &Mirror{path: path}
}

func (m *Mirror) Path() string { return m.path }

// WriteExpenses atomically replaces the snapshot with the given working set.
func (m *Mirror) WriteExpenses(expenses []core.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	docs := make([]store.Fields, 0, len(expenses))
	for _, e := range expenses {
		f := store.EncodeExpense(e)
		f["id"] = e.ID
		docs = append(docs, f)
	}
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal mirror snapshot: %w", err)
	}

	if dir := filepath.Dir(m.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create mirror directory: %w", err)
		}
	}
	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write mirror snapshot: %w", err)
	}
	if err := os.Rename(tmp, m.path); err != nil {
		return fmt.Errorf("replace mirror snapshot: %w", err)
	}
	return nil
}

// ReadExpenses loads the snapshot. A missing file is an empty working set,
// not an error; a corrupt file is.
func (m *Mirror) ReadExpenses() ([]core.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read mirror snapshot: %w", err)
	}

	var docs []store.Fields
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parse mirror snapshot: %w", err)
	}
	out := make([]core.Expense, 0, len(docs))
	for _, f := range docs {
		id, _ := f["id"].(string)
		out = append(out, store.DecodeExpense(store.Record{ID: id, Fields: f}))
	}
	return out, nil
}
