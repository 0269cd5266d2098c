package payperiod_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/payperiod"
)

// =============================================================================
// DAY PATTERN PARSING
// =============================================================================

func TestParseDayPattern(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []int
	}{
		{"two days with space", "11, 26", []int{11, 26}},
		{"single day", "15", []int{15}},
		{"no spaces", "1,16,28", []int{1, 16, 28}},
		{"empty string", "", nil},
		{"whitespace only", "   ", nil},
		{"bad tokens dropped", "a, 5, , 20x, 26", []int{5, 26}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, payperiod.ParseDayPattern(tt.input))
		})
	}
}

// =============================================================================
// TEMPLATE RESOLUTION
// =============================================================================

func TestResolveTemplates_MonthSpanningCycle(t *testing.T) {
	// GIVEN: The canonical semi-monthly configuration "11, 26" / "10, 25" / "15, 1"
	// WHEN: Resolving the template cycle
	// THEN: Period 1 is 11th-25th paying on the last day of the month,
	//       period 2 is 26th-10th (spanning) paying on the 15th next month

	dept := payperiod.Department{
		ID:         "dept-1",
		StartDays:  []int{11, 26},
		EndDays:    []int{10, 25},
		PayoutDays: []int{15, 1},
	}

	templates, anomalies := payperiod.ResolveTemplates(dept)
	require.Len(t, templates, 2)
	assert.Empty(t, anomalies)

	p1 := templates[0]
	assert.Equal(t, 1, p1.PeriodNumber)
	assert.Equal(t, 11, p1.StartDay)
	assert.Equal(t, 25, p1.EndDay, "11 pairs with the first end day >= 11, not positional 10")
	assert.Equal(t, payperiod.PayoutLastDay, p1.PayoutDay, "payout list is reversed; 1 is the last-day sentinel")
	assert.Equal(t, 0, p1.PayoutMonthOffset)
	assert.False(t, p1.SpansMonth())
	assert.True(t, p1.IsActive)

	p2 := templates[1]
	assert.Equal(t, 2, p2.PeriodNumber)
	assert.Equal(t, 26, p2.StartDay)
	assert.Equal(t, 10, p2.EndDay, "no end day >= 26 exists, so the smallest closes the spanning period")
	assert.Equal(t, "15", p2.PayoutDay)
	assert.Equal(t, 1, p2.PayoutMonthOffset, "spanning period pays in the following month")
	assert.True(t, p2.SpansMonth())
}

func TestResolveTemplates_SameMonthCycle(t *testing.T) {
	// GIVEN: A cycle whose positional pairing is already correct
	// WHEN: Resolving templates
	// THEN: Same-index end days win and nothing spans the month

	dept := payperiod.Department{
		ID:         "dept-2",
		StartDays:  []int{1, 16},
		EndDays:    []int{15, 31},
		PayoutDays: []int{20, 5},
	}

	templates, anomalies := payperiod.ResolveTemplates(dept)
	require.Len(t, templates, 2)
	assert.Empty(t, anomalies)

	assert.Equal(t, 15, templates[0].EndDay)
	assert.Equal(t, "5", templates[0].PayoutDay, "reversed index: period 1 reads the list tail")
	assert.Equal(t, 0, templates[0].PayoutMonthOffset)

	assert.Equal(t, 31, templates[1].EndDay)
	assert.Equal(t, "20", templates[1].PayoutDay)
	assert.Equal(t, 0, templates[1].PayoutMonthOffset)
}

func TestResolveTemplates_CountIsMinOfLists(t *testing.T) {
	// GIVEN: Three start days but only one end day
	// WHEN: Resolving templates
	// THEN: Exactly one template is produced

	dept := payperiod.Department{
		ID:         "dept-3",
		StartDays:  []int{5, 20, 28},
		EndDays:    []int{19},
		PayoutDays: []int{25},
	}

	templates, _ := payperiod.ResolveTemplates(dept)
	require.Len(t, templates, 1)
	assert.Equal(t, 5, templates[0].StartDay)
	assert.Equal(t, 19, templates[0].EndDay)
}

func TestResolveTemplates_MissingDayLists(t *testing.T) {
	// GIVEN: A department with no end days configured
	// WHEN: Resolving templates
	// THEN: No templates, one missing-days anomaly, no error

	dept := payperiod.Department{ID: "dept-4", StartDays: []int{1, 16}}

	templates, anomalies := payperiod.ResolveTemplates(dept)
	assert.Empty(t, templates)
	require.Len(t, anomalies, 1)
	assert.Equal(t, payperiod.AnomalyMissingDays, anomalies[0].Code)
	assert.Equal(t, payperiod.DepartmentID("dept-4"), anomalies[0].DepartmentID)
}

func TestResolveTemplates_PayoutDefaulted(t *testing.T) {
	// GIVEN: Departments with no payout days configured
	// WHEN: Resolving templates
	// THEN: Spanning periods default to "15" next month, same-month periods
	//       to the last day of the start month, each with an anomaly

	spanning := payperiod.Department{ID: "d", StartDays: []int{26}, EndDays: []int{10}}
	templates, anomalies := payperiod.ResolveTemplates(spanning)
	require.Len(t, templates, 1)
	assert.Equal(t, "15", templates[0].PayoutDay)
	assert.Equal(t, 1, templates[0].PayoutMonthOffset)
	require.Len(t, anomalies, 1)
	assert.Equal(t, payperiod.AnomalyPayoutDefaulted, anomalies[0].Code)

	sameMonth := payperiod.Department{ID: "d", StartDays: []int{1}, EndDays: []int{15}}
	templates, anomalies = payperiod.ResolveTemplates(sameMonth)
	require.Len(t, templates, 1)
	assert.Equal(t, payperiod.PayoutLastDay, templates[0].PayoutDay)
	assert.Equal(t, 0, templates[0].PayoutMonthOffset)
	require.Len(t, anomalies, 1)
}

func TestResolveTemplates_AllEndDaysPrecedeStart(t *testing.T) {
	// GIVEN: Every end day falls before the start day
	// WHEN: Resolving the end pairing
	// THEN: The smallest end day closes the month-spanning period

	dept := payperiod.Department{
		ID:         "dept-5",
		StartDays:  []int{26},
		EndDays:    []int{20, 10},
		PayoutDays: []int{15},
	}

	templates, _ := payperiod.ResolveTemplates(dept)
	require.Len(t, templates, 1)
	assert.Equal(t, 10, templates[0].EndDay)
	assert.Equal(t, 1, templates[0].PayoutMonthOffset)
}
