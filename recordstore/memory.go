package recordstore

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

const defaultPageLimit = 500

// Memory is a thread-safe in-memory Store. Records keep insertion order per
// table, matching the stable-order contract of the remote store.
type Memory struct {
	mu     sync.RWMutex
	tables map[string][]Record
}

func NewMemory() *Memory {
	return &Memory{tables: make(map[string][]Record)}
}

// Seed inserts a record with a caller-chosen ID. Test helper.
func (m *Memory) Seed(table, id string, fields map[string]Value) Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := Record{ID: id, Fields: copyFields(fields)}
	m.tables[table] = append(m.tables[table], rec)
	return rec
}

func (m *Memory) List(_ context.Context, table string, filter Filter, page Page) (ListResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []Record
	for _, rec := range m.tables[table] {
		if filter.Matches(rec) {
			matched = append(matched, rec)
		}
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

	out := make([]Record, end-offset)
	for i, rec := range matched[offset:end] {
		out[i] = Record{ID: rec.ID, Fields: copyFields(rec.Fields)}
	}
	return ListResult{Records: out, HasMore: end < len(matched)}, nil
}

func (m *Memory) Create(_ context.Context, table string, fields map[string]Value) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := Record{ID: uuid.NewString(), Fields: copyFields(fields)}
	m.tables[table] = append(m.tables[table], rec)
	return rec, nil
}

func (m *Memory) Update(_ context.Context, table string, id string, fields map[string]Value) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.tables[table]
	for i, rec := range rows {
		if rec.ID != id {
			continue
		}
		merged := copyFields(rec.Fields)
		for k, v := range fields {
			merged[k] = v
		}
		rows[i] = Record{ID: id, Fields: merged}
		return rows[i], nil
	}
	return Record{}, &StoreError{Op: "update", Table: table, Err: ErrRecordNotFound}
}

func copyFields(fields map[string]Value) map[string]Value {
	out := make(map[string]Value, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
