/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes pay-period computation and punch aggregation via REST. Handles
  HTTP request/response and JSON serialization, delegating to the payroll
  service.

ENDPOINTS:
  Departments:
    GET  /api/departments                              List departments
    GET  /api/departments/{id}/templates               Active templates, cycle order
    GET  /api/departments/{id}/pay-periods?month=      Instantiated periods + relevance
    GET  /api/departments/{id}/pay-periods/current     Current period + recent window

  Templates:
    POST /api/templates/preview                        Resolve from raw day lists

  Hours:
    GET  /api/pay-periods/hours?start=&end=&pay_period_id=
    POST /api/pay-periods/totals

  Admin:
    POST /api/admin/templates/migrate                  Migration workflow
    POST /api/admin/templates/repair                   Repair workflow

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 502: Record-store transport errors
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/warp/payroll-engine/payperiod"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/recordstore"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service  *payroll.Service
	validate *validator.Validate
}

// NewHandler creates a new handler around the payroll service.
func NewHandler(service *payroll.Service) *Handler {
	return &Handler{
		Service:  service,
		validate: validator.New(),
	}
}

// =============================================================================
// DEPARTMENT HANDLERS
// =============================================================================

// ListDepartments returns every department with parsed day lists.
func (h *Handler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Service.Departments(r.Context())
	if err != nil {
		writeStoreError(w, "Failed to list departments", err)
		return
	}

	dtos := make([]DepartmentDTO, len(departments))
	for i, d := range departments {
		dtos[i] = DepartmentDTO{
			ID:            string(d.ID),
			Name:          d.Name,
			PayPeriodType: d.PayPeriodType,
			StartDays:     d.StartDays,
			EndDays:       d.EndDays,
			PayoutDays:    d.PayoutDays,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetTemplates returns a department's active templates in cycle order.
func (h *Handler) GetTemplates(w http.ResponseWriter, r *http.Request) {
	deptID := payperiod.DepartmentID(chi.URLParam(r, "id"))

	templates, err := h.Service.Templates(r.Context(), deptID)
	if err != nil {
		writeStoreError(w, "Failed to list templates", err)
		return
	}

	dtos := make([]TemplateDTO, len(templates))
	for i, t := range templates {
		dtos[i] = toTemplateDTO(t)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPayPeriods instantiates a department's cycle for the month given as
// ?month=YYYY-MM (default: the current month) and labels each period.
func (h *Handler) GetPayPeriods(w http.ResponseWriter, r *http.Request) {
	deptID := payperiod.DepartmentID(chi.URLParam(r, "id"))

	year, month, err := parseMonth(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month format (use YYYY-MM)", err)
		return
	}

	periods, anomalies, err := h.Service.PeriodsFor(r.Context(), deptID, year, month)
	if err != nil {
		if errors.Is(err, payperiod.ErrNoTemplates) || errors.Is(err, recordstore.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "No pay period templates for department", err)
			return
		}
		writeStoreError(w, "Failed to compute pay periods", err)
		return
	}

	c := payperiod.Classify(periods, payperiod.Today())
	dtos := make([]PayPeriodDTO, len(periods))
	for i, p := range periods {
		dtos[i] = toPayPeriodDTO(p, c.Labels[i])
	}

	writeJSON(w, http.StatusOK, struct {
		Periods   []PayPeriodDTO `json:"periods"`
		Anomalies []string       `json:"anomalies,omitempty"`
	}{Periods: dtos, Anomalies: anomalyStrings(anomalies)})
}

// GetCurrentPayPeriod returns the authoritative current period plus the
// recent review window.
func (h *Handler) GetCurrentPayPeriod(w http.ResponseWriter, r *http.Request) {
	deptID := payperiod.DepartmentID(chi.URLParam(r, "id"))
	today := payperiod.Today()

	current, recent, anomalies, err := h.Service.CurrentPeriod(r.Context(), deptID, today)
	if err != nil {
		if errors.Is(err, payperiod.ErrNoTemplates) || errors.Is(err, recordstore.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "No pay period templates for department", err)
			return
		}
		writeStoreError(w, "Failed to resolve current pay period", err)
		return
	}

	resp := CurrentPeriodResponse{Anomalies: anomalyStrings(anomalies)}
	if current != nil {
		dto := toPayPeriodDTO(*current, payperiod.RelevanceCurrent)
		resp.Current = &dto
	}
	for _, p := range recent {
		resp.Recent = append(resp.Recent, toPayPeriodDTO(p, p.RelevanceOn(today)))
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// TEMPLATE HANDLERS
// =============================================================================

// PreviewTemplates resolves a cycle from raw day lists without persisting.
func (h *Handler) PreviewTemplates(w http.ResponseWriter, r *http.Request) {
	var req PreviewTemplatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	dept := payperiod.Department{
		ID:         payperiod.DepartmentID(req.DepartmentID),
		StartDays:  payperiod.ParseDayPattern(req.StartDays),
		EndDays:    payperiod.ParseDayPattern(req.EndDays),
		PayoutDays: payperiod.ParseDayPattern(req.PayoutDays),
	}

	templates, anomalies := payperiod.ResolveTemplates(dept)
	resp := PreviewTemplatesResponse{Anomalies: anomalyStrings(anomalies)}
	for _, t := range templates {
		resp.Templates = append(resp.Templates, toTemplateDTO(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// HOURS HANDLERS
// =============================================================================

// GetEmployeeHours aggregates per-employee hours for explicit day bounds.
// Optional pay_period_id enables time-card linkage.
func (h *Handler) GetEmployeeHours(w http.ResponseWriter, r *http.Request) {
	start, err := payperiod.ParseDate(r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start date (use YYYY-MM-DD)", err)
		return
	}
	end, err := payperiod.ParseDate(r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end date (use YYYY-MM-DD)", err)
		return
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "End date precedes start date", nil)
		return
	}

	result, err := h.Service.EmployeeHours(r.Context(), start, end, r.URL.Query().Get("pay_period_id"))
	if err != nil {
		writeStoreError(w, "Failed to aggregate employee hours", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeHoursResponse(result))
}

// GetPeriodTotals rolls one period up into total hours, punch count and
// time-card count.
func (h *Handler) GetPeriodTotals(w http.ResponseWriter, r *http.Request) {
	var req PeriodTotalsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	start, err := payperiod.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date (use YYYY-MM-DD)", err)
		return
	}
	end, err := payperiod.ParseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date (use YYYY-MM-DD)", err)
		return
	}

	totals, err := h.Service.Totals(r.Context(), payperiod.PayPeriod{
		ID:        req.PayPeriodID,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		writeStoreError(w, "Failed to compute period totals", err)
		return
	}

	writeJSON(w, http.StatusOK, PeriodTotalsDTO{
		StartDate:     start.String(),
		EndDate:       end.String(),
		TotalHours:    totals.TotalHours,
		PunchCount:    totals.PunchCount,
		TimeCardCount: totals.TimeCardCount,
		LinkFallback:  totals.LinkFallback,
	})
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// MigrateTemplates runs the template migration workflow.
func (h *Handler) MigrateTemplates(w http.ResponseWriter, r *http.Request) {
	report, err := h.Service.MigrateTemplates(r.Context())
	if err != nil {
		writeStoreError(w, "Template migration failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toMigrationReportDTO(report))
}

// RepairTemplates runs the repair workflow for one department.
func (h *Handler) RepairTemplates(w http.ResponseWriter, r *http.Request) {
	var req RepairRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	report, err := h.Service.RepairTemplates(r.Context(), payperiod.DepartmentID(req.DepartmentID))
	if err != nil {
		if errors.Is(err, payperiod.ErrNoTemplates) || errors.Is(err, recordstore.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Department has no resolvable templates", err)
			return
		}
		writeStoreError(w, "Template repair failed", err)
		return
	}
	writeJSON(w, http.StatusOK, RepairReportDTO{Checked: report.Checked, Fixed: report.Fixed})
}

// =============================================================================
// HELPERS
// =============================================================================

func parseMonth(s string) (int, time.Month, error) {
	if s == "" {
		now := time.Now()
		return now.Year(), now.Month(), nil
	}
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, errors.New("expected YYYY-MM")
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, err
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, err
	}
	if month < 1 || month > 12 {
		return 0, 0, errors.New("month out of range")
	}
	return year, time.Month(month), nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeStoreError maps record-store transport failures to 502 and anything
// else to 500.
func writeStoreError(w http.ResponseWriter, message string, err error) {
	var storeErr *recordstore.StoreError
	if errors.As(err, &storeErr) {
		writeError(w, http.StatusBadGateway, message, err)
		return
	}
	writeError(w, http.StatusInternalServerError, message, err)
}
