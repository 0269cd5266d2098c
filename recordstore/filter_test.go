package recordstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warp/payroll-engine/recordstore"
)

func punchRecord(id, punchIn, timeCard string) recordstore.Record {
	return recordstore.Record{
		ID: id,
		Fields: map[string]recordstore.Value{
			"punch_in_time": recordstore.String(punchIn),
			"time_card_id":  recordstore.Reference(timeCard),
		},
	}
}

// =============================================================================
// RANGE CONDITIONS
// =============================================================================

func TestFilter_DateRange(t *testing.T) {
	f := recordstore.Filter{
		"punch_in_time": {Gte: "2025-11-11", Lte: "2025-11-25"},
	}

	tests := []struct {
		name    string
		punchIn string
		want    bool
	}{
		{"inside range", "2025-11-18", true},
		{"on lower bound", "2025-11-11", true},
		{"on upper bound", "2025-11-25", true},
		{"before range", "2025-11-10", false},
		{"after range", "2025-11-26", false},
		{"timestamp on upper bound day matches", "2025-11-25T23:30:00Z", true},
		{"timestamp before range rejected", "2025-11-10T23:59:59Z", false},
		{"empty value rejected", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := punchRecord("p1", tt.punchIn, "tc-1")
			assert.Equal(t, tt.want, f.Matches(rec))
		})
	}
}

// =============================================================================
// MEMBERSHIP CONDITIONS
// =============================================================================

func TestFilter_In_MatchesAnyLinkedID(t *testing.T) {
	rec := recordstore.Record{
		ID: "p1",
		Fields: map[string]recordstore.Value{
			"time_card_id": recordstore.Reference("tc-1", "tc-2"),
		},
	}

	assert.True(t, recordstore.Filter{"time_card_id": {In: []string{"tc-2"}}}.Matches(rec))
	assert.False(t, recordstore.Filter{"time_card_id": {In: []string{"tc-9"}}}.Matches(rec))
}

func TestFilter_In_IDPseudoField(t *testing.T) {
	rec := punchRecord("p1", "2025-11-18", "tc-1")

	assert.True(t, recordstore.Filter{"id": {In: []string{"p1", "p2"}}}.Matches(rec))
	assert.False(t, recordstore.Filter{"id": {In: []string{"p9"}}}.Matches(rec))
}

func TestFilter_EmptyMatchesEverything(t *testing.T) {
	rec := punchRecord("p1", "2025-11-18", "tc-1")

	assert.True(t, recordstore.Filter{}.Matches(rec))
	assert.True(t, recordstore.Filter(nil).Matches(rec))
}

func TestFilter_CombinedConditions(t *testing.T) {
	rec := punchRecord("p1", "2025-11-18", "tc-1")

	f := recordstore.Filter{
		"punch_in_time": {Gte: "2025-11-01", Lte: "2025-11-30"},
		"time_card_id":  {In: []string{"tc-1"}},
	}
	assert.True(t, f.Matches(rec))

	f["time_card_id"] = recordstore.Condition{In: []string{"tc-2"}}
	assert.False(t, f.Matches(rec), "every condition must hold")
}
