/*
Package punches aggregates raw time-clock punches into per-employee hour
totals for a pay period.

PURPOSE:
  Punches stream in from a time-clock table that may or may not be reliably
  linked to time cards. The aggregator retrieves a period's punches in pages,
  prefers time-card linkage when it yields anything, falls back to the full
  date-range set when it does not, and rolls hours up per employee with a
  [0, 24] clamp per punch.

DESIGN PRINCIPLES:
  1. Best effort: one bad punch degrades to zero hours, never aborts a batch
  2. Observable fallbacks: every recovery path is flagged on the result
  3. Fatal transport errors: a failed page fetch fails the whole aggregation

SEE ALSO:
  - pager.go:     paged retrieval with the safety ceiling
  - aggregate.go: linkage filtering, hour math, per-employee roll-up
*/
package punches

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/recordstore"
)

// =============================================================================
// PUNCH - One time-clock event pair (read-only input)
// =============================================================================

// Punch is a decoded punches-table record. Timestamps are kept raw; they are
// parsed (and their failures flagged) during hour computation.
type Punch struct {
	ID         string
	EmployeeID string
	ClientID   string
	TimeCardID string
	PunchIn    string // raw ISO timestamp, may be empty
	PunchOut   string // raw ISO timestamp, may be empty

	// Duration is a precomputed hour count, used when positive.
	Duration    float64
	HasDuration bool
}

// punchFromRecord decodes a record, unwrapping linked-reference collections
// once at the boundary.
func punchFromRecord(rec recordstore.Record) Punch {
	p := Punch{
		ID:         rec.ID,
		EmployeeID: rec.Fields["employee_id"].LinkedID(),
		ClientID:   rec.Fields["client_id"].LinkedID(),
		TimeCardID: rec.Fields["time_card_id"].LinkedID(),
	}
	p.PunchIn, _ = rec.Fields["punch_in_time"].AsString()
	p.PunchOut, _ = rec.Fields["punch_out_time"].AsString()
	p.Duration, p.HasDuration = rec.Fields["duration"].AsNumber()
	return p
}

// maxPunchHours absorbs clock skew and missing punch-outs: no single punch
// contributes more than one day.
var maxPunchHours = decimal.NewFromInt(24)

// Hours computes this punch's contribution, clamped to [0, 24].
//
// A valid positive precomputed duration wins. Otherwise hours are derived
// from punchOut - punchIn; a missing timestamp contributes zero, and an
// unparseable one contributes zero with ok=false so callers can flag it.
func (p Punch) Hours() (hours decimal.Decimal, ok bool) {
	if p.HasDuration && p.Duration > 0 {
		return clampHours(decimal.NewFromFloat(p.Duration)), true
	}

	if p.PunchIn == "" || p.PunchOut == "" {
		return decimal.Zero, true
	}

	in, errIn := parseTimestamp(p.PunchIn)
	out, errOut := parseTimestamp(p.PunchOut)
	if errIn != nil || errOut != nil {
		return decimal.Zero, false
	}

	return clampHours(decimal.NewFromFloat(out.Sub(in).Hours())), true
}

func clampHours(h decimal.Decimal) decimal.Decimal {
	if h.IsNegative() {
		return decimal.Zero
	}
	if h.GreaterThan(maxPunchHours) {
		return maxPunchHours
	}
	return h
}

// parseTimestamp accepts the timestamp shapes the clock emits: RFC 3339
// (with or without sub-seconds or zone) and bare dates.
func parseTimestamp(s string) (time.Time, error) {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	var err error
	for _, layout := range layouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// =============================================================================
// EMPLOYEE HOURS SUMMARY - Output only, recomputed per request
// =============================================================================

// Summary is the per-employee roll-up for one period.
type Summary struct {
	EmployeeID string
	TotalHours decimal.Decimal // non-negative, rounded to 2 decimals
	PunchCount int
}
