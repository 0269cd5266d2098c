package punches

import (
	"context"

	"github.com/warp/payroll-engine/recordstore"
)

// =============================================================================
// PAGER - Lazy, finite, restartable page sequence
// =============================================================================

const (
	// DefaultPageSize is the per-page record bound.
	DefaultPageSize = 500

	// DefaultMaxRecords caps the total records one traversal may retrieve.
	// The ceiling bounds worst-case memory and time; hitting it is reported,
	// never silently truncated.
	DefaultMaxRecords = 10000
)

// Pager walks a table's matching records in strict offset order. Pages are
// fetched sequentially because each offset depends on the store's cursor
// contract for the previous page. A Pager is restartable: each traversal
// starts from offset zero.
type Pager struct {
	Store  recordstore.Store
	Table  string
	Filter recordstore.Filter

	// PageSize defaults to DefaultPageSize when zero.
	PageSize int

	// MaxRecords defaults to DefaultMaxRecords when zero.
	MaxRecords int
}

func (p *Pager) pageSize() int {
	if p.PageSize > 0 {
		return p.PageSize
	}
	return DefaultPageSize
}

func (p *Pager) maxRecords() int {
	if p.MaxRecords > 0 {
		return p.MaxRecords
	}
	return DefaultMaxRecords
}

// Collect retrieves every matching record up to the safety ceiling.
// truncated reports that the ceiling stopped the traversal while the store
// still had more pages. A failed page fetch aborts the traversal.
func (p *Pager) Collect(ctx context.Context) (records []recordstore.Record, truncated bool, err error) {
	err = p.Each(ctx, func(rec recordstore.Record) error {
		records = append(records, rec)
		return nil
	}, &truncated)
	if err != nil {
		return nil, false, err
	}
	return records, truncated, nil
}

// Each visits matching records one page at a time without holding more than
// a page in memory beyond what fn retains.
func (p *Pager) Each(ctx context.Context, fn func(recordstore.Record) error, truncated *bool) error {
	limit := p.pageSize()
	ceiling := p.maxRecords()

	offset := 0
	seen := 0
	for {
		result, err := p.Store.List(ctx, p.Table, p.Filter, recordstore.Page{Limit: limit, Offset: offset})
		if err != nil {
			return err
		}

		for _, rec := range result.Records {
			if seen >= ceiling {
				if truncated != nil {
					*truncated = true
				}
				return nil
			}
			if err := fn(rec); err != nil {
				return err
			}
			seen++
		}

		if !result.HasMore || len(result.Records) == 0 {
			return nil
		}
		if seen >= ceiling {
			if truncated != nil {
				*truncated = true
			}
			return nil
		}
		offset += limit
	}
}
