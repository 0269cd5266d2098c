package payperiod

import (
	"strconv"
	"time"
)

// =============================================================================
// PERIOD INSTANTIATOR
// =============================================================================

// Instantiate resolves a template against an anchor month into a concrete
// PayPeriod.
//
// The start date is the anchor month's StartDay. A month-spanning template
// (EndDay < StartDay) ends in the following month; either end day is
// clamped to the real last day of its month, so template day 31 in a 30-day
// month resolves to the 30th. The payout month is the anchor month plus
// PayoutMonthOffset; PayoutLastDay resolves to that month's actual last day,
// leap years included. Incrementing past December rolls the year forward.
func Instantiate(t PayPeriodTemplate, year int, month time.Month) PayPeriod {
	start := NewDate(year, month, ClampDay(year, month, t.StartDay))

	endYear, endMonth := year, month
	if t.SpansMonth() {
		endYear, endMonth = AddMonths(year, month, 1)
	}
	end := NewDate(endYear, endMonth, ClampDay(endYear, endMonth, t.EndDay))

	return PayPeriod{
		DepartmentID: t.DepartmentID,
		TemplateID:   t.ID,
		PeriodNumber: t.PeriodNumber,
		StartDate:    start,
		EndDate:      end,
		PayoutDate:   resolvePayoutDate(t, year, month),
	}
}

// InstantiateCycle instantiates every template of a cycle, in template
// order, for the same anchor month.
func InstantiateCycle(templates []PayPeriodTemplate, year int, month time.Month) []PayPeriod {
	periods := make([]PayPeriod, 0, len(templates))
	for _, t := range templates {
		periods = append(periods, Instantiate(t, year, month))
	}
	return periods
}

func resolvePayoutDate(t PayPeriodTemplate, year int, month time.Month) Date {
	payoutYear, payoutMonth := AddMonths(year, month, t.PayoutMonthOffset)

	day := DaysInMonth(payoutYear, payoutMonth)
	if t.PayoutDay != PayoutLastDay {
		if n, err := strconv.Atoi(t.PayoutDay); err == nil {
			day = ClampDay(payoutYear, payoutMonth, n)
		}
		// An unparseable payout day degrades to the last day of the month.
	}
	return NewDate(payoutYear, payoutMonth, day)
}
