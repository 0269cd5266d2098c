package punches

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/payperiod"
	"github.com/warp/payroll-engine/recordstore"
)

// =============================================================================
// PUNCH AGGREGATOR
// =============================================================================

// DefaultPunchTable is the punches table name at the record store.
const DefaultPunchTable = "punches"

// Aggregator computes per-employee hour totals for a date range.
type Aggregator struct {
	Store recordstore.Store

	// Table defaults to DefaultPunchTable when empty.
	Table string

	// PageSize and MaxPunches bound retrieval; zero means the pager default.
	PageSize   int
	MaxPunches int
}

// Result is one aggregation run: best-effort summaries plus every recovery
// flag a caller needs to judge the numbers.
type Result struct {
	Summaries  []Summary
	TotalHours decimal.Decimal
	PunchCount int // punches contributing to the summaries

	// LinkFallback reports that the time-card linkage filter matched zero
	// punches while punches existed in range, so the unfiltered set was used.
	LinkFallback bool

	// Truncated reports that the retrieval safety ceiling was hit.
	Truncated bool

	// BadTimestamps counts punches whose timestamps could not be parsed;
	// each contributed zero hours but was still counted.
	BadTimestamps int

	// MissingEmployee counts punches dropped for lacking an employee link.
	MissingEmployee int
}

// EmployeeHours aggregates punches whose punch-in falls within
// [start, end] (inclusive day bounds; time components are stripped before
// filtering).
//
// When timeCardIDs is non-empty, only punches linked to one of them are
// kept — unless that filter empties a non-empty set, in which case linkage
// data is assumed unreliable and all retrieved punches are used, with
// LinkFallback set. A store error on any page is fatal; a malformed punch
// never is.
func (a *Aggregator) EmployeeHours(ctx context.Context, start, end payperiod.Date, timeCardIDs []string) (Result, error) {
	table := a.Table
	if table == "" {
		table = DefaultPunchTable
	}

	pager := &Pager{
		Store: a.Store,
		Table: table,
		Filter: recordstore.Filter{
			"punch_in_time": {Gte: start.String(), Lte: end.String()},
		},
		PageSize:   a.PageSize,
		MaxRecords: a.MaxPunches,
	}

	records, truncated, err := pager.Collect(ctx)
	if err != nil {
		return Result{}, err
	}

	all := make([]Punch, len(records))
	for i, rec := range records {
		all[i] = punchFromRecord(rec)
	}

	result := Result{Truncated: truncated}
	selected := a.applyLinkageFilter(all, timeCardIDs, &result)

	byEmployee := make(map[string]*Summary)
	for _, p := range selected {
		if p.EmployeeID == "" {
			result.MissingEmployee++
			continue
		}

		hours, ok := p.Hours()
		if !ok {
			result.BadTimestamps++
		}

		s := byEmployee[p.EmployeeID]
		if s == nil {
			s = &Summary{EmployeeID: p.EmployeeID}
			byEmployee[p.EmployeeID] = s
		}
		s.TotalHours = s.TotalHours.Add(hours)
		s.PunchCount++
		result.PunchCount++
	}

	result.Summaries = make([]Summary, 0, len(byEmployee))
	for _, s := range byEmployee {
		s.TotalHours = s.TotalHours.Round(2)
		result.Summaries = append(result.Summaries, *s)
		result.TotalHours = result.TotalHours.Add(s.TotalHours)
	}
	sort.Slice(result.Summaries, func(i, j int) bool {
		return result.Summaries[i].EmployeeID < result.Summaries[j].EmployeeID
	})
	result.TotalHours = result.TotalHours.Round(2)

	return result, nil
}

// applyLinkageFilter keeps punches linked to the supplied time cards,
// falling back to the full set when linkage yields nothing.
func (a *Aggregator) applyLinkageFilter(all []Punch, timeCardIDs []string, result *Result) []Punch {
	if len(timeCardIDs) == 0 {
		return all
	}

	ids := make(map[string]bool, len(timeCardIDs))
	for _, id := range timeCardIDs {
		ids[id] = true
	}

	var linked []Punch
	for _, p := range all {
		if p.TimeCardID != "" && ids[p.TimeCardID] {
			linked = append(linked, p)
		}
	}

	if len(linked) == 0 && len(all) > 0 {
		// Linkage data is known to be unreliable; raw punches in range beat
		// an empty report.
		result.LinkFallback = true
		return all
	}
	return linked
}
