/*
errors.go - Anomaly reporting for pay-period computation

Batch operations in this package never fail on a single bad department or
period: data-quality conditions degrade to documented fallbacks, and every
fallback is reported as an Anomaly so callers can surface it.
*/
package payperiod

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNoTemplates is returned when an operation needs templates for a
	// department that has none resolvable.
	ErrNoTemplates = errors.New("department has no pay period templates")

	// ErrInvalidAnchor is returned when a target month is malformed.
	ErrInvalidAnchor = errors.New("invalid anchor month")
)

// =============================================================================
// ANOMALIES - Recovered data-quality conditions
// =============================================================================

type AnomalyCode string

const (
	// AnomalyMissingDays means the department had no start or end day list;
	// no templates were emitted for it.
	AnomalyMissingDays AnomalyCode = "missing_day_lists"

	// AnomalyPayoutDefaulted means no payout day could be resolved from the
	// configured list and the policy default was applied.
	AnomalyPayoutDefaulted AnomalyCode = "payout_day_defaulted"

	// AnomalyNoCurrentPeriod means classification found no period containing
	// today.
	AnomalyNoCurrentPeriod AnomalyCode = "no_current_period"

	// AnomalyMultipleCurrent means classification found more than one period
	// containing today; the first in template order was selected.
	AnomalyMultipleCurrent AnomalyCode = "multiple_current_periods"
)

// Anomaly records a recovered data-quality condition.
type Anomaly struct {
	Code         AnomalyCode
	DepartmentID DepartmentID
	Detail       string
}

func (a Anomaly) String() string {
	if a.DepartmentID == "" {
		return fmt.Sprintf("%s: %s", a.Code, a.Detail)
	}
	return fmt.Sprintf("%s [%s]: %s", a.Code, a.DepartmentID, a.Detail)
}
