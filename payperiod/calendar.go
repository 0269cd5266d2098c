package payperiod

import (
	"strings"
	"time"
)

// =============================================================================
// DATE - Day-granular calendar point
// =============================================================================

// Date is a calendar day. All pay-period math happens at day granularity;
// time-of-day on stored values is ignored.
type Date struct {
	Time time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// ParseDate parses an ISO date, stripping any time component
// ("2025-11-26" and "2025-11-26T08:00:00Z" both resolve to Nov 26).
func ParseDate(s string) (Date, error) {
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		s = s[:i]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.normalize().Before(other.normalize()) }
func (d Date) Equal(other Date) bool         { return d.normalize().Equal(other.normalize()) }
func (d Date) After(other Date) bool         { return d.normalize().After(other.normalize()) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{Time: d.Time.AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int         { return d.Time.Year() }
func (d Date) Month() time.Month { return d.Time.Month() }
func (d Date) Day() int          { return d.Time.Day() }
func (d Date) IsZero() bool      { return d.Time.IsZero() }

func (d Date) String() string { return d.Time.Format("2006-01-02") }

// =============================================================================
// MONTH ARITHMETIC
// =============================================================================

// AddMonths advances a year/month pair, rolling the year forward past
// December (and backward before January).
func AddMonths(year int, month time.Month, n int) (int, time.Month) {
	m := int(month) - 1 + n
	y := year + m/12
	m = m % 12
	if m < 0 {
		m += 12
		y--
	}
	return y, time.Month(m + 1)
}

// DaysInMonth returns the number of days in the given month, leap years
// included.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1).Day()
}

// ClampDay bounds a template day-of-month to the month's real length
// (template day 31 in a 30-day month resolves to the 30th).
func ClampDay(year int, month time.Month, day int) int {
	if last := DaysInMonth(year, month); day > last {
		return last
	}
	if day < 1 {
		return 1
	}
	return day
}
