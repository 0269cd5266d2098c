/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for the API surface. These types decouple the internal
  domain model from the external contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Request DTOs carry validator struct tags; handlers run them through a
  shared validator instance before touching domain logic.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/warp/payroll-engine/payperiod"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/punches"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// DepartmentDTO represents a department's pay-period configuration.
type DepartmentDTO struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	PayPeriodType string `json:"pay_period_type,omitempty"`
	StartDays     []int  `json:"start_days"`
	EndDays       []int  `json:"end_days"`
	PayoutDays    []int  `json:"payout_days"`
}

// TemplateDTO represents one period of a department's cycle.
type TemplateDTO struct {
	ID                string `json:"id,omitempty"`
	DepartmentID      string `json:"department_id"`
	PeriodNumber      int    `json:"period_number"`
	StartDay          int    `json:"start_day"`
	EndDay            int    `json:"end_day"`
	PayoutDay         string `json:"payout_day"`
	PayoutMonthOffset int    `json:"payout_month_offset"`
	IsActive          bool   `json:"is_active"`
}

// PreviewTemplatesRequest resolves templates from raw day lists without
// persisting anything.
type PreviewTemplatesRequest struct {
	DepartmentID string `json:"department_id" validate:"required"`
	StartDays    string `json:"start_days" validate:"required"`
	EndDays      string `json:"end_days" validate:"required"`
	PayoutDays   string `json:"payout_days"`
}

// PreviewTemplatesResponse carries the resolved cycle plus any anomalies.
type PreviewTemplatesResponse struct {
	Templates []TemplateDTO `json:"templates"`
	Anomalies []string      `json:"anomalies,omitempty"`
}

// PayPeriodDTO represents an instantiated pay period.
type PayPeriodDTO struct {
	ID           string `json:"id,omitempty"`
	DepartmentID string `json:"department_id"`
	PeriodNumber int    `json:"period_number"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	PayoutDate   string `json:"payout_date"`
	Relevance    string `json:"relevance,omitempty"`
}

// CurrentPeriodResponse is the current period plus the recent review window.
type CurrentPeriodResponse struct {
	Current   *PayPeriodDTO  `json:"current"`
	Recent    []PayPeriodDTO `json:"recent"`
	Anomalies []string       `json:"anomalies,omitempty"`
}

// EmployeeHoursDTO is the per-employee roll-up.
type EmployeeHoursDTO struct {
	EmployeeID string  `json:"employee_id"`
	TotalHours float64 `json:"total_hours"`
	PunchCount int     `json:"punch_count"`
}

// EmployeeHoursResponse is one aggregation run.
type EmployeeHoursResponse struct {
	Employees     []EmployeeHoursDTO `json:"employees"`
	TotalHours    float64            `json:"total_hours"`
	PunchCount    int                `json:"punch_count"`
	LinkFallback  bool               `json:"link_fallback"`
	Truncated     bool               `json:"truncated"`
	BadTimestamps int                `json:"bad_timestamps,omitempty"`
}

// MigrationReportDTO summarizes a template migration run.
type MigrationReportDTO struct {
	Created   int      `json:"created"`
	Skipped   int      `json:"skipped"`
	Anomalies []string `json:"anomalies,omitempty"`
}

// RepairRequest targets one department's templates.
type RepairRequest struct {
	DepartmentID string `json:"department_id" validate:"required"`
}

// RepairReportDTO summarizes a repair run.
type RepairReportDTO struct {
	Checked int `json:"checked"`
	Fixed   int `json:"fixed"`
}

// PeriodTotalsRequest identifies one period for the totals roll-up. The
// pay-period ID is optional; without it no time-card linkage is attempted.
type PeriodTotalsRequest struct {
	PayPeriodID string `json:"pay_period_id"`
	StartDate   string `json:"start_date" validate:"required"`
	EndDate     string `json:"end_date" validate:"required"`
}

// PeriodTotalsDTO is the roll-up for one period.
type PeriodTotalsDTO struct {
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	TotalHours    float64 `json:"total_hours"`
	PunchCount    int     `json:"punch_count"`
	TimeCardCount int     `json:"time_card_count"`
	LinkFallback  bool    `json:"link_fallback"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toTemplateDTO(t payperiod.PayPeriodTemplate) TemplateDTO {
	return TemplateDTO{
		ID:                string(t.ID),
		DepartmentID:      string(t.DepartmentID),
		PeriodNumber:      t.PeriodNumber,
		StartDay:          t.StartDay,
		EndDay:            t.EndDay,
		PayoutDay:         t.PayoutDay,
		PayoutMonthOffset: t.PayoutMonthOffset,
		IsActive:          t.IsActive,
	}
}

func toPayPeriodDTO(p payperiod.PayPeriod, relevance payperiod.Relevance) PayPeriodDTO {
	return PayPeriodDTO{
		ID:           p.ID,
		DepartmentID: string(p.DepartmentID),
		PeriodNumber: p.PeriodNumber,
		StartDate:    p.StartDate.String(),
		EndDate:      p.EndDate.String(),
		PayoutDate:   p.PayoutDate.String(),
		Relevance:    string(relevance),
	}
}

func toEmployeeHoursResponse(result punches.Result) EmployeeHoursResponse {
	employees := make([]EmployeeHoursDTO, len(result.Summaries))
	for i, s := range result.Summaries {
		hours, _ := s.TotalHours.Float64()
		employees[i] = EmployeeHoursDTO{
			EmployeeID: s.EmployeeID,
			TotalHours: hours,
			PunchCount: s.PunchCount,
		}
	}
	total, _ := result.TotalHours.Float64()
	return EmployeeHoursResponse{
		Employees:     employees,
		TotalHours:    total,
		PunchCount:    result.PunchCount,
		LinkFallback:  result.LinkFallback,
		Truncated:     result.Truncated,
		BadTimestamps: result.BadTimestamps,
	}
}

func anomalyStrings(anomalies []payperiod.Anomaly) []string {
	if len(anomalies) == 0 {
		return nil
	}
	out := make([]string, len(anomalies))
	for i, a := range anomalies {
		out[i] = a.String()
	}
	return out
}

func toMigrationReportDTO(report payroll.MigrationReport) MigrationReportDTO {
	return MigrationReportDTO{
		Created:   report.Created,
		Skipped:   report.Skipped,
		Anomalies: anomalyStrings(report.Anomalies),
	}
}
