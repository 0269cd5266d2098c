/*
Package payperiod is the pay-period computation engine.

PURPOSE:
  A department defines a repeating monthly pay-period pattern as compact
  comma-separated day lists ("11, 26" / "10, 25" / "15, 1"). This package
  turns those lists into validated PayPeriodTemplate records, instantiates
  them into concrete calendar periods for a target month, and classifies
  instantiated periods against today's date.

KEY CONCEPTS:
  - Department:        raw configuration owner (read-only input)
  - PayPeriodTemplate: one period-in-cycle with start/end/payout day rules
  - PayPeriod:         a template instantiated for a concrete month
  - Relevance:         current / upcoming / past labeling

DESIGN PRINCIPLES:
  1. Pure computation: no I/O; persistence lives in the payroll package
  2. Best-effort batches: bad configuration degrades to anomalies, not errors
  3. Real calendar arithmetic: month lengths, leap years, year rollover

SEE ALSO:
  - daypattern.go:   day-list parsing
  - template.go:     template resolution from raw day lists
  - instantiate.go:  template -> concrete dates
  - relevance.go:    current-period classification
*/
package payperiod

// =============================================================================
// IDENTIFIERS
// =============================================================================

type DepartmentID string
type TemplateID string

// =============================================================================
// DEPARTMENT - Raw configuration (owned externally)
// =============================================================================

// Department carries the parsed day lists of one department. StartDays,
// EndDays and PayoutDays keep the original ordering of the source text;
// their lengths need not match.
type Department struct {
	ID            DepartmentID
	Name          string
	PayPeriodType string
	StartDays     []int
	EndDays       []int
	PayoutDays    []int
}

// =============================================================================
// PAY PERIOD TEMPLATE - One period of the repeating monthly cycle
// =============================================================================

// PayoutLastDay is the payout-day sentinel meaning "last day of the month".
// In raw department configuration the integer 1 encodes this sentinel.
const PayoutLastDay = "last"

type PayPeriodTemplate struct {
	ID           TemplateID
	DepartmentID DepartmentID

	// PeriodNumber is 1-based and defines the cycle order. For a cycle of
	// N templates the values are exactly 1..N.
	PeriodNumber int

	StartDay int // 1-31
	EndDay   int // 1-31

	// PayoutDay is a day-of-month in string form, or PayoutLastDay.
	PayoutDay string

	// PayoutMonthOffset counts months from the period's start month:
	// 0 = payout in the start month, 1 = the following month.
	PayoutMonthOffset int

	IsActive bool
}

// SpansMonth reports whether the period crosses a month boundary
// (e.g., the 26th through the 10th of the next month).
func (t PayPeriodTemplate) SpansMonth() bool { return t.EndDay < t.StartDay }

// =============================================================================
// PAY PERIOD - Instantiated template with absolute dates
// =============================================================================

// PayPeriod is a template resolved against a concrete anchor month.
// Immutable once computed.
type PayPeriod struct {
	ID           string // persisted record ID, empty for derived periods
	DepartmentID DepartmentID
	TemplateID   TemplateID
	PeriodNumber int
	StartDate    Date
	EndDate      Date
	PayoutDate   Date
}

// Contains reports whether the day falls within [StartDate, EndDate].
func (p PayPeriod) Contains(d Date) bool {
	return d.AfterOrEqual(p.StartDate) && d.BeforeOrEqual(p.EndDate)
}
