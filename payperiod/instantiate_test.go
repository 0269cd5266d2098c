package payperiod_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/payperiod"
)

// =============================================================================
// MONTH ARITHMETIC
// =============================================================================

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     time.Month
		n         int
		wantYear  int
		wantMonth time.Month
	}{
		{"no offset", 2025, time.June, 0, 2025, time.June},
		{"within year", 2025, time.March, 2, 2025, time.May},
		{"december rolls forward", 2025, time.December, 1, 2026, time.January},
		{"january rolls backward", 2025, time.January, -1, 2024, time.December},
		{"multi-year jump", 2025, time.November, 14, 2027, time.January},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y, m := payperiod.AddMonths(tt.year, tt.month, tt.n)
			assert.Equal(t, tt.wantYear, y)
			assert.Equal(t, tt.wantMonth, m)
		})
	}
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 30, payperiod.DaysInMonth(2025, time.November))
	assert.Equal(t, 31, payperiod.DaysInMonth(2025, time.December))
	assert.Equal(t, 28, payperiod.DaysInMonth(2025, time.February))
	assert.Equal(t, 29, payperiod.DaysInMonth(2024, time.February), "leap year")
}

// =============================================================================
// TEMPLATE INSTANTIATION
// =============================================================================

func TestInstantiate_MonthSpanning(t *testing.T) {
	// GIVEN: The spanning template 26th-10th paying on the 15th next month
	// WHEN: Instantiating for November 2025
	// THEN: Nov 26 - Dec 10, payout Dec 15

	tmpl := payperiod.PayPeriodTemplate{
		DepartmentID:      "dept-1",
		PeriodNumber:      2,
		StartDay:          26,
		EndDay:            10,
		PayoutDay:         "15",
		PayoutMonthOffset: 1,
	}

	p := payperiod.Instantiate(tmpl, 2025, time.November)
	assert.Equal(t, "2025-11-26", p.StartDate.String())
	assert.Equal(t, "2025-12-10", p.EndDate.String())
	assert.Equal(t, "2025-12-15", p.PayoutDate.String())
	assert.Equal(t, 2, p.PeriodNumber)
}

func TestInstantiate_SameMonth_PayoutLastDay(t *testing.T) {
	// GIVEN: The same-month template 11th-25th paying on the last day
	// WHEN: Instantiating for November 2025
	// THEN: Nov 11 - Nov 25, payout Nov 30

	tmpl := payperiod.PayPeriodTemplate{
		PeriodNumber: 1,
		StartDay:     11,
		EndDay:       25,
		PayoutDay:    payperiod.PayoutLastDay,
	}

	p := payperiod.Instantiate(tmpl, 2025, time.November)
	assert.Equal(t, "2025-11-11", p.StartDate.String())
	assert.Equal(t, "2025-11-25", p.EndDate.String())
	assert.Equal(t, "2025-11-30", p.PayoutDate.String())
}

func TestInstantiate_ClampsToMonthLength(t *testing.T) {
	// GIVEN: A template ending on day 31
	// WHEN: Instantiating for February
	// THEN: The end date clamps to the real last day, leap-year aware

	tmpl := payperiod.PayPeriodTemplate{
		PeriodNumber: 1,
		StartDay:     16,
		EndDay:       31,
		PayoutDay:    "5",
	}

	p := payperiod.Instantiate(tmpl, 2025, time.February)
	assert.Equal(t, "2025-02-28", p.EndDate.String())

	p = payperiod.Instantiate(tmpl, 2024, time.February)
	assert.Equal(t, "2024-02-29", p.EndDate.String())
}

func TestInstantiate_DecemberRollsYear(t *testing.T) {
	// GIVEN: A spanning template anchored in December
	// WHEN: Instantiating
	// THEN: End and payout land in January of the next year

	tmpl := payperiod.PayPeriodTemplate{
		PeriodNumber:      2,
		StartDay:          26,
		EndDay:            10,
		PayoutDay:         "15",
		PayoutMonthOffset: 1,
	}

	p := payperiod.Instantiate(tmpl, 2025, time.December)
	assert.Equal(t, "2025-12-26", p.StartDate.String())
	assert.Equal(t, "2026-01-10", p.EndDate.String())
	assert.Equal(t, "2026-01-15", p.PayoutDate.String())
}

func TestInstantiate_PayoutLastDayNextMonth_LeapFebruary(t *testing.T) {
	tmpl := payperiod.PayPeriodTemplate{
		PeriodNumber:      1,
		StartDay:          20,
		EndDay:            5,
		PayoutDay:         payperiod.PayoutLastDay,
		PayoutMonthOffset: 1,
	}

	p := payperiod.Instantiate(tmpl, 2024, time.January)
	assert.Equal(t, "2024-02-29", p.PayoutDate.String())
}

func TestInstantiate_UnparseablePayoutDegradesToLastDay(t *testing.T) {
	tmpl := payperiod.PayPeriodTemplate{
		PeriodNumber: 1,
		StartDay:     1,
		EndDay:       15,
		PayoutDay:    "soon",
	}

	p := payperiod.Instantiate(tmpl, 2025, time.April)
	assert.Equal(t, "2025-04-30", p.PayoutDate.String())
}

func TestInstantiateCycle_PreservesOrder(t *testing.T) {
	dept := payperiod.Department{
		ID:         "dept-1",
		StartDays:  []int{11, 26},
		EndDays:    []int{10, 25},
		PayoutDays: []int{15, 1},
	}
	templates, _ := payperiod.ResolveTemplates(dept)

	periods := payperiod.InstantiateCycle(templates, 2025, time.November)
	require.Len(t, periods, 2)
	assert.Equal(t, 1, periods[0].PeriodNumber)
	assert.Equal(t, 2, periods[1].PeriodNumber)
	assert.True(t, periods[0].EndDate.Before(periods[1].StartDate))
}

// =============================================================================
// DATE PARSING
// =============================================================================

func TestParseDate(t *testing.T) {
	d, err := payperiod.ParseDate("2025-11-26")
	require.NoError(t, err)
	assert.Equal(t, "2025-11-26", d.String())

	d, err = payperiod.ParseDate("2025-11-26T08:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2025-11-26", d.String(), "time component is stripped")

	_, err = payperiod.ParseDate("26/11/2025")
	assert.Error(t, err)
}
