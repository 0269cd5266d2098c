/*
Package sqlite provides a SQLite-backed implementation of the record store.

PURPOSE:
  A local, durable record store with the same capability surface as the
  remote service. Used as the development backend and as an offline cache of
  department configuration and punches.

STORAGE MODEL:
  One generic `records` table keyed by (table_name, id), with the record's
  fields persisted as a JSON blob. Filters are evaluated in Go after the
  table scan; the data volumes here (departments, templates, one period's
  punches) make an index-per-field scheme unnecessary.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - recordstore/store.go: interface definition
  - recordstore/memory.go: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/payroll-engine/recordstore"
)

const defaultPageLimit = 500

// Store implements recordstore.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		id TEXT NOT NULL,
		table_name TEXT NOT NULL,
		fields_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (table_name, id)
	);

	CREATE INDEX IF NOT EXISTS idx_records_table
		ON records(table_name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// List returns records of a table matching the filter in insertion order.
func (s *Store) List(ctx context.Context, table string, filter recordstore.Filter, page recordstore.Page) (recordstore.ListResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, fields_json FROM records WHERE table_name = ? ORDER BY rowid`, table)
	if err != nil {
		return recordstore.ListResult{}, &recordstore.StoreError{Op: "list", Table: table, Filter: filter, Err: err}
	}
	defer rows.Close()

	var matched []recordstore.Record
	for rows.Next() {
		var id, fieldsJSON string
		if err := rows.Scan(&id, &fieldsJSON); err != nil {
			return recordstore.ListResult{}, &recordstore.StoreError{Op: "list", Table: table, Filter: filter, Err: err}
		}
		rec, err := decodeRecord(id, fieldsJSON)
		if err != nil {
			return recordstore.ListResult{}, &recordstore.StoreError{Op: "list", Table: table, Filter: filter, Err: err}
		}
		if filter.Matches(rec) {
			matched = append(matched, rec)
		}
	}
	if err := rows.Err(); err != nil {
		return recordstore.ListResult{}, &recordstore.StoreError{Op: "list", Table: table, Filter: filter, Err: err}
	}

	limit := page.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	offset := page.Offset
	if offset > len(matched) {
		offset = len(matched)
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}

	return recordstore.ListResult{
		Records: matched[offset:end],
		HasMore: end < len(matched),
	}, nil
}

// Create inserts a record with a generated ID.
func (s *Store) Create(ctx context.Context, table string, fields map[string]recordstore.Value) (recordstore.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := recordstore.Record{ID: uuid.NewString(), Fields: fields}
	fieldsJSON, err := json.Marshal(fields)
	if err != nil {
		return recordstore.Record{}, &recordstore.StoreError{Op: "create", Table: table, Err: err}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (id, table_name, fields_json, created_at) VALUES (?, ?, ?, ?)`,
		rec.ID, table, string(fieldsJSON), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return recordstore.Record{}, &recordstore.StoreError{Op: "create", Table: table, Err: err}
	}
	return rec, nil
}

// Update patches the given fields of an existing record.
func (s *Store) Update(ctx context.Context, table string, id string, fields map[string]recordstore.Value) (recordstore.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var fieldsJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT fields_json FROM records WHERE table_name = ? AND id = ?`, table, id).Scan(&fieldsJSON)
	if err == sql.ErrNoRows {
		return recordstore.Record{}, &recordstore.StoreError{Op: "update", Table: table, Err: recordstore.ErrRecordNotFound}
	}
	if err != nil {
		return recordstore.Record{}, &recordstore.StoreError{Op: "update", Table: table, Err: err}
	}

	rec, err := decodeRecord(id, fieldsJSON)
	if err != nil {
		return recordstore.Record{}, &recordstore.StoreError{Op: "update", Table: table, Err: err}
	}
	for k, v := range fields {
		rec.Fields[k] = v
	}

	merged, err := json.Marshal(rec.Fields)
	if err != nil {
		return recordstore.Record{}, &recordstore.StoreError{Op: "update", Table: table, Err: err}
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE records SET fields_json = ? WHERE table_name = ? AND id = ?`,
		string(merged), table, id)
	if err != nil {
		return recordstore.Record{}, &recordstore.StoreError{Op: "update", Table: table, Err: err}
	}
	return rec, nil
}

func decodeRecord(id, fieldsJSON string) (recordstore.Record, error) {
	fields := make(map[string]recordstore.Value)
	if err := json.Unmarshal([]byte(fieldsJSON), &fields); err != nil {
		return recordstore.Record{}, err
	}
	return recordstore.Record{ID: id, Fields: fields}, nil
}
