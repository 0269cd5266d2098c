package recordstore

// =============================================================================
// FILTER - Range and membership constraints on record fields
// =============================================================================

// Condition constrains one field. Zero-valued members impose no constraint.
type Condition struct {
	Gte string   `json:"gte,omitempty"`
	Lte string   `json:"lte,omitempty"`
	In  []string `json:"in,omitempty"`
}

// Filter maps field names to conditions. Absence of a field key means
// "no constraint". The pseudo-field "id" matches the record ID.
type Filter map[string]Condition

// Matches evaluates the filter against a record. Local implementations
// (memory, sqlite) use this; the remote store evaluates server-side.
//
// Range comparisons on date-shaped strings compare at day granularity:
// "2025-11-25T08:00:00Z" matches lte "2025-11-25".
func (f Filter) Matches(rec Record) bool {
	for field, cond := range f {
		var v string
		if field == "id" {
			v = rec.ID
		} else {
			v = rec.Fields[field].text()
		}
		if !cond.matches(v, rec, field) {
			return false
		}
	}
	return true
}

func (c Condition) matches(v string, rec Record, field string) bool {
	if c.Gte != "" || c.Lte != "" {
		d := datePart(v)
		if v == "" {
			return false
		}
		if c.Gte != "" && d < datePart(c.Gte) {
			return false
		}
		if c.Lte != "" && d > datePart(c.Lte) {
			return false
		}
	}

	if len(c.In) > 0 {
		// Membership matches any linked ID, not just the first, so a
		// multi-reference field still hits.
		candidates := rec.Fields[field].LinkedIDs()
		if field == "id" {
			candidates = []string{rec.ID}
		}
		if !anyMember(candidates, c.In) {
			return false
		}
	}
	return true
}

func anyMember(candidates, set []string) bool {
	for _, c := range candidates {
		for _, s := range set {
			if c == s {
				return true
			}
		}
	}
	return false
}

// datePart strips the time component of an ISO timestamp so range
// comparisons happen at day granularity. Non-date strings pass through.
func datePart(s string) string {
	if len(s) >= 10 && s[4] == '-' && s[7] == '-' {
		return s[:10]
	}
	return s
}
