// Package mirror keeps a copy of the task collection in a SQLite database.
// Each task is one document keyed "task:<id>" with its JSON payload, so the
// database can be shipped to or read by other tools.
package mirror

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/twiced-technology-gmbh/fivetodo/internal/task"
)

//go:embed schema.sql
var schemaSQL string

const (
	docType   = "task"
	keyPrefix = "task:"
)

// Mirror is an open mirror database.
type Mirror struct {
	db *sql.DB
}

// Key returns the document key of a task ID.
func Key(id string) string { return keyPrefix + id }

// Open opens or creates the mirror database at path.
func Open(path string) (*Mirror, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil { //nolint:mnd // directory permissions
		return nil, fmt.Errorf("creating mirror directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening mirror: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing mirror schema: %w", err)
	}
	return &Mirror{db: db}, nil
}

// Close closes the database.
func (m *Mirror) Close() error {
	return m.db.Close()
}

// Upsert stores tasks, replacing documents with the same key.
func (m *Mirror) Upsert(ctx context.Context, tasks []*task.Task) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO docs (id, type, updated_at, payload) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			updated_at = excluded.updated_at,
			payload = excluded.payload`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, t := range tasks {
		payload, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("encoding task %s: %w", t.ShortID(), err)
		}
		if _, err := stmt.ExecContext(ctx, Key(t.ID), docType, now, string(payload)); err != nil {
			return fmt.Errorf("upserting task %s: %w", t.ShortID(), err)
		}
	}
	return tx.Commit()
}

// Remove deletes the documents of the given task IDs. Unknown IDs are ignored.
func (m *Mirror) Remove(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = Key(id)
	}

	query := fmt.Sprintf("DELETE FROM docs WHERE id IN (%s)", strings.Join(placeholders, ","))
	if _, err := m.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("removing tasks: %w", err)
	}
	return nil
}

// LoadAll returns every task document, ordered by key. Documents of other
// types are skipped.
func (m *Mirror) LoadAll(ctx context.Context) ([]*task.Task, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT payload FROM docs WHERE type = ? ORDER BY id`, docType)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*task.Task
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		var t task.Task
		if err := json.Unmarshal([]byte(payload), &t); err != nil {
			return nil, fmt.Errorf("decoding task: %w", err)
		}
		tasks = append(tasks, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return task.NormalizeAll(tasks, time.Now()), nil
}

// Sync makes the mirror hold exactly tasks: every task is upserted and
// documents of tasks no longer present are removed. It returns the number
// of removed documents.
func (m *Mirror) Sync(ctx context.Context, tasks []*task.Task) (int, error) {
	if err := m.Upsert(ctx, tasks); err != nil {
		return 0, err
	}

	existing, err := m.LoadAll(ctx)
	if err != nil {
		return 0, err
	}
	keep := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		keep[t.ID] = true
	}
	var stale []string
	for _, t := range existing {
		if !keep[t.ID] {
			stale = append(stale, t.ID)
		}
	}
	if err := m.Remove(ctx, stale); err != nil {
		return 0, err
	}
	return len(stale), nil
}
