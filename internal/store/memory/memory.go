// Package memory is the in-memory repository backend: the default for local
// runs and the test double for everything above the store boundary.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"winner/internal/core"
	"winner/internal/store"
)

type collection struct {
	order []string
	docs  map[string]store.Fields
}

// Store keeps every collection in process memory. Records keep their
// insertion order, which matches how a document store replays a collection
// scan and keeps aggregate tie-breaks deterministic.
type Store struct {
	mu    sync.RWMutex
	kinds map[store.Kind]*collection
}

var _ store.Repository = (*Store)(nil)

func New() *Store {
	return &Store{kinds: make(map[store.Kind]*collection)}
}

func (s *Store) collection(kind store.Kind) *collection {
	c, ok := s.kinds[kind]
	if !ok {
		c = &collection{docs: make(map[string]store.Fields)}
		s.kinds[kind] = c
	}
	return c
}

func cloneFields(f store.Fields) store.Fields {
	out := make(store.Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

func (s *Store) ListAll(_ context.Context, kind store.Kind) ([]store.Record, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown kind %q", core.ErrStorage, kind)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.kinds[kind]
	if !ok {
		return nil, nil
	}
	out := make([]store.Record, 0, len(c.order))
	for _, id := range c.order {
		fields := c.docs[id]
		if store.IsInitRecord(fields) {
			continue
		}
		out = append(out, store.Record{ID: id, Fields: cloneFields(fields)})
	}
	return out, nil
}

func (s *Store) Get(_ context.Context, kind store.Kind, id string) (store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.kinds[kind]
	if !ok {
		return store.Record{}, fmt.Errorf("%w: %s/%s", core.ErrNotFound, kind, id)
	}
	fields, ok := c.docs[id]
	if !ok {
		return store.Record{}, fmt.Errorf("%w: %s/%s", core.ErrNotFound, kind, id)
	}
	return store.Record{ID: id, Fields: cloneFields(fields)}, nil
}

func (s *Store) Create(_ context.Context, kind store.Kind, fields store.Fields) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("%w: unknown kind %q", core.ErrStorage, kind)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(kind)
	id := uuid.NewString()
	c.docs[id] = cloneFields(fields)
	c.order = append(c.order, id)
	return id, nil
}

func (s *Store) Put(_ context.Context, kind store.Kind, id string, fields store.Fields) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", core.ErrStorage, kind)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(kind)
	if _, exists := c.docs[id]; !exists {
		c.order = append(c.order, id)
	}
	c.docs[id] = cloneFields(fields)
	return nil
}

func (s *Store) Update(_ context.Context, kind store.Kind, id string, fields store.Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.kinds[kind]
	if !ok {
		return fmt.Errorf("%w: %s/%s", core.ErrNotFound, kind, id)
	}
	doc, ok := c.docs[id]
	if !ok {
		return fmt.Errorf("%w: %s/%s", core.ErrNotFound, kind, id)
	}
	for k, v := range fields {
		if v == store.DeleteField {
			delete(doc, k)
			continue
		}
		doc[k] = v
	}
	return nil
}

func (s *Store) Delete(_ context.Context, kind store.Kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.kinds[kind]
	if !ok {
		return nil
	}
	if _, ok := c.docs[id]; !ok {
		return nil
	}
	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) DeleteWhere(_ context.Context, kind store.Kind, field string, value any) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.kinds[kind]
	if !ok {
		return 0, nil
	}
	removed := 0
	kept := c.order[:0]
	for _, id := range c.order {
		if c.docs[id][field] == value {
			delete(c.docs, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	c.order = kept
	return removed, nil
}

func (s *Store) Ping(context.Context) error { return nil }

// Seed inserts a record with a known id, bypassing id generation. Test and
// bootstrap helper.
func (s *Store) Seed(kind store.Kind, id string, fields store.Fields) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(kind)
	if _, exists := c.docs[id]; !exists {
		c.order = append(c.order, id)
	}
	c.docs[id] = cloneFields(fields)
}

// Len reports the number of records of a kind, init placeholders included.
func (s *Store) Len(kind store.Kind) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.kinds[kind]
	if !ok {
		return 0
	}
	return len(c.docs)
}
