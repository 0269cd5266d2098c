/*
Package recordstore defines the record-store capability consumed by the
payroll engine.

PURPOSE:
  The engine's only external boundary is a table-shaped record store with
  three operations: list (filtered, paged), create, and update. Departments,
  templates, pay periods, time cards and punches are all rows of such tables.

KEY INTERFACES:
  Store:  List / Create / Update against named tables

IMPLEMENTATIONS:
  - recordstore.Memory:  in-memory store for tests and development
  - store/sqlite:        SQLite-backed local store
  - store/rest:          HTTP client for the remote record-store service

VALUE MODEL:
  Field values are loosely typed at the wire: a linked-record reference may
  arrive as a scalar or as a single-element collection. The Value union
  resolves this once at the boundary; callers never re-check shapes at use
  sites.

ERROR MODEL:
  Store failures are transport errors and always fatal to the enclosing
  operation. They are wrapped in *StoreError carrying the failing table and
  filter for diagnosis, and are never retried here.

SEE ALSO:
  - value.go:  the scalar/reference union
  - filter.go: filter and local match semantics
  - memory.go: in-memory implementation
*/
package recordstore

import (
	"context"
	"errors"
	"fmt"
)

// =============================================================================
// STORE - The record-store capability
// =============================================================================

// Record is one row of a table.
type Record struct {
	ID     string
	Fields map[string]Value
}

// Page bounds one List call. A zero Limit means the implementation default.
type Page struct {
	Limit  int
	Offset int
}

// ListResult is one page of records. HasMore reports whether another page
// exists at the next offset.
type ListResult struct {
	Records []Record
	HasMore bool
}

// Store is the capability surface of the record store. All operations are
// synchronous; callers wanting cancellation layer a context deadline.
type Store interface {
	// List returns records of a table matching the filter, in stable
	// insertion order, bounded by the page.
	List(ctx context.Context, table string, filter Filter, page Page) (ListResult, error)

	// Create inserts a record and returns it with its assigned ID.
	Create(ctx context.Context, table string, fields map[string]Value) (Record, error)

	// Update patches the given fields of an existing record.
	Update(ctx context.Context, table string, id string, fields map[string]Value) (Record, error)
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrRecordNotFound is returned by Update for an unknown record ID.
	ErrRecordNotFound = errors.New("record not found")
)

// StoreError wraps a failed store operation with the table and filter that
// produced it.
type StoreError struct {
	Op     string // "list", "create", "update"
	Table  string
	Filter Filter
	Err    error
}

func (e *StoreError) Error() string {
	if len(e.Filter) > 0 {
		return fmt.Sprintf("recordstore: %s %s (filter %v): %v", e.Op, e.Table, e.Filter, e.Err)
	}
	return fmt.Sprintf("recordstore: %s %s: %v", e.Op, e.Table, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
