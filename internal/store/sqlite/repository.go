// Package sqlite persists record collections in a single document table.
// Each record is one row holding a JSON body, which keeps the schema-free
// document semantics the rest of the system expects from the hosted store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"winner/internal/core"
	"winner/internal/store"
)

type Repository struct {
	db *sql.DB
}

var _ store.Repository = (*Repository)(nil)

func NewRepository(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping database: %v", core.ErrStorageUnavailable, err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
	}
	return nil
}

func (r *Repository) ListAll(ctx context.Context, kind store.Kind) ([]store.Record, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown kind %q", core.ErrStorage, kind)
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, body FROM records WHERE kind = ? ORDER BY created_at, id`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", core.ErrStorage, kind, err)
	}
	defer rows.Close()

	var out []store.Record
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("%w: scan %s: %v", core.ErrStorage, kind, err)
		}
		fields := decodeBody(body)
		if store.IsInitRecord(fields) {
			continue
		}
		out = append(out, store.Record{ID: id, Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate %s: %v", core.ErrStorage, kind, err)
	}
	return out, nil
}

func (r *Repository) Get(ctx context.Context, kind store.Kind, id string) (store.Record, error) {
	var body string
	err := r.db.QueryRowContext(ctx,
		`SELECT body FROM records WHERE kind = ? AND id = ?`, string(kind), id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Record{}, fmt.Errorf("%w: %s/%s", core.ErrNotFound, kind, id)
	}
	if err != nil {
		return store.Record{}, fmt.Errorf("%w: get %s/%s: %v", core.ErrStorage, kind, id, err)
	}
	return store.Record{ID: id, Fields: decodeBody(body)}, nil
}

func (r *Repository) Create(ctx context.Context, kind store.Kind, fields store.Fields) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("%w: unknown kind %q", core.ErrStorage, kind)
	}
	id := uuid.NewString()
	body, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("%w: marshal %s: %v", core.ErrStorage, kind, err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO records (kind, id, body) VALUES (?, ?, ?)`, string(kind), id, string(body))
	if err != nil {
		return "", fmt.Errorf("%w: create %s: %v", core.ErrStorage, kind, err)
	}
	return id, nil
}

// Put overwrites the whole document under the given id, inserting it when
// absent. Singleton documents with well-known ids go through here.
func (r *Repository) Put(ctx context.Context, kind store.Kind, id string, fields store.Fields) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", core.ErrStorage, kind)
	}
	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("%w: encode %s/%s: %v", core.ErrStorage, kind, id, err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO records (kind, id, body) VALUES (?, ?, ?)
		 ON CONFLICT (kind, id) DO UPDATE SET body = excluded.body, updated_at = CURRENT_TIMESTAMP`,
		string(kind), id, string(body))
	if err != nil {
		return fmt.Errorf("%w: put %s/%s: %v", core.ErrStorage, kind, id, err)
	}
	return nil
}

// Update merges partial fields into the stored JSON body inside a
// transaction, honoring store.DeleteField removals.
func (r *Repository) Update(ctx context.Context, kind store.Kind, id string, fields store.Fields) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin update: %v", core.ErrStorage, err)
	}
	defer tx.Rollback()

	var body string
	err = tx.QueryRowContext(ctx,
		`SELECT body FROM records WHERE kind = ? AND id = ?`, string(kind), id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s/%s", core.ErrNotFound, kind, id)
	}
	if err != nil {
		return fmt.Errorf("%w: read %s/%s: %v", core.ErrStorage, kind, id, err)
	}

	doc := decodeBody(body)
	for k, v := range fields {
		if v == store.DeleteField {
			delete(doc, k)
			continue
		}
		doc[k] = v
	}
	merged, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: marshal %s/%s: %v", core.ErrStorage, kind, id, err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE records SET body = ?, updated_at = CURRENT_TIMESTAMP WHERE kind = ? AND id = ?`,
		string(merged), string(kind), id)
	if err != nil {
		return fmt.Errorf("%w: update %s/%s: %v", core.ErrStorage, kind, id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit update: %v", core.ErrStorage, err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, kind store.Kind, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM records WHERE kind = ? AND id = ?`, string(kind), id)
	if err != nil {
		return fmt.Errorf("%w: delete %s/%s: %v", core.ErrStorage, kind, id, err)
	}
	return nil
}

func (r *Repository) DeleteWhere(ctx context.Context, kind store.Kind, field string, value any) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: begin delete-where: %v", core.ErrStorage, err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT id, body FROM records WHERE kind = ?`, string(kind))
	if err != nil {
		return 0, fmt.Errorf("%w: scan %s: %v", core.ErrStorage, kind, err)
	}
	var matches []string
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			rows.Close()
			return 0, fmt.Errorf("%w: scan %s: %v", core.ErrStorage, kind, err)
		}
		if fieldEquals(decodeBody(body)[field], value) {
			matches = append(matches, id)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("%w: iterate %s: %v", core.ErrStorage, kind, err)
	}

	for _, id := range matches {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM records WHERE kind = ? AND id = ?`, string(kind), id); err != nil {
			return 0, fmt.Errorf("%w: delete %s/%s: %v", core.ErrStorage, kind, id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit delete-where: %v", core.ErrStorage, err)
	}
	return len(matches), nil
}

func decodeBody(body string) store.Fields {
	fields := store.Fields{}
	// A row with an unreadable body decodes as empty rather than failing
	// the whole listing.
	_ = json.Unmarshal([]byte(body), &fields)
	return fields
}

// fieldEquals compares a decoded JSON value against a caller-supplied one.
// JSON numbers always decode as float64, so numeric comparisons coerce.
func fieldEquals(stored, want any) bool {
	if stored == want {
		return true
	}
	sf, sok := toFloat(stored)
	wf, wok := toFloat(want)
	return sok && wok && sf == wf
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
