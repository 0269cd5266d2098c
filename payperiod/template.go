package payperiod

import (
	"fmt"
	"strconv"
)

// =============================================================================
// TEMPLATE RESOLVER
// =============================================================================
//
// Department day lists are compact and their ordering is ambiguous across
// month boundaries. For start days "11, 26" the end list "10, 25" reads as
// "period 1 ends on the 25th, period 2 ends on the 10th of the next month":
// the smaller end value belongs to a different period index than its
// position suggests. The resolver disambiguates by pairing each start day
// with the first end day that keeps the period inside one month, falling
// back to an explicit month-spanning pair when none exists.
//
// Payout lists are stored in an order reversed relative to period index
// ("15, 1" means period 1 pays on the last day, period 2 on the 15th), and
// the value 1 is a sentinel for "last day of month". Both conventions are
// observed in real department configurations and preserved here as explicit
// rules.

// ResolveTemplates derives the template cycle for one department from its
// raw day lists. The number of templates is min(len(StartDays), len(EndDays))
// and PeriodNumber runs 1..count in list order.
//
// A department with an empty start or end list yields no templates and a
// single AnomalyMissingDays; this is a data-quality condition, not an error.
func ResolveTemplates(dept Department) ([]PayPeriodTemplate, []Anomaly) {
	if len(dept.StartDays) == 0 || len(dept.EndDays) == 0 {
		return nil, []Anomaly{{
			Code:         AnomalyMissingDays,
			DepartmentID: dept.ID,
			Detail: fmt.Sprintf("start days %d, end days %d",
				len(dept.StartDays), len(dept.EndDays)),
		}}
	}

	count := len(dept.StartDays)
	if len(dept.EndDays) < count {
		count = len(dept.EndDays)
	}

	var templates []PayPeriodTemplate
	var anomalies []Anomaly

	for i := 0; i < count; i++ {
		start := dept.StartDays[i]
		end := resolveEndDay(start, dept.EndDays, i)

		offset := 0
		if end < start {
			offset = 1
		}

		payout, ok := resolvePayoutDay(dept.PayoutDays, i)
		if !ok {
			// No payout day configured for this period: month-spanning
			// periods default to the 15th of the following month,
			// same-month periods to the last day of the start month.
			if end < start {
				payout = "15"
				offset = 1
			} else {
				payout = PayoutLastDay
				offset = 0
			}
			anomalies = append(anomalies, Anomaly{
				Code:         AnomalyPayoutDefaulted,
				DepartmentID: dept.ID,
				Detail:       fmt.Sprintf("period %d defaulted to payout %q", i+1, payout),
			})
		}

		templates = append(templates, PayPeriodTemplate{
			DepartmentID:      dept.ID,
			PeriodNumber:      i + 1,
			StartDay:          start,
			EndDay:            end,
			PayoutDay:         payout,
			PayoutMonthOffset: offset,
			IsActive:          true,
		})
	}

	return templates, anomalies
}

// resolveEndDay pairs a start day with its end day. The value at the same
// index wins when it closes the period within the month (end >= start).
// Otherwise the list is scanned left to right for the first same-month
// candidate; if every end day precedes the start day the period spans the
// month boundary and the smallest end day is the correct pairing.
func resolveEndDay(start int, endDays []int, i int) int {
	if endDays[i] >= start {
		return endDays[i]
	}
	for _, ed := range endDays {
		if ed >= start {
			return ed
		}
	}
	min := endDays[0]
	for _, ed := range endDays[1:] {
		if ed < min {
			min = ed
		}
	}
	return min
}

// resolvePayoutDay reads the payout day for period index i. The reversed
// index is attempted first, then the direct index. The integer 1 maps to
// the PayoutLastDay sentinel.
func resolvePayoutDay(payoutDays []int, i int) (string, bool) {
	if idx := len(payoutDays) - 1 - i; idx >= 0 && idx < len(payoutDays) {
		return payoutDayString(payoutDays[idx]), true
	}
	if i >= 0 && i < len(payoutDays) {
		return payoutDayString(payoutDays[i]), true
	}
	return "", false
}

func payoutDayString(day int) string {
	if day == 1 {
		return PayoutLastDay
	}
	return strconv.Itoa(day)
}
