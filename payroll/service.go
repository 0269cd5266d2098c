/*
Package payroll orchestrates the pay-period engine and the punch aggregator
over the record store.

PURPOSE:
  Binds the pure computation packages (payperiod, punches) to the external
  record store: decoding department configuration, reading and persisting
  templates, instantiating periods, and producing employee-hours reports.

TABLES:
  departments           raw pay-period configuration per department
  pay_period_templates  persisted template cycle (created by migration)
  time_cards            linkage targets for punches
  punches               raw time-clock events

SEE ALSO:
  - migrate.go: template migration and repair workflows
*/
package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/warp/payroll-engine/payperiod"
	"github.com/warp/payroll-engine/punches"
	"github.com/warp/payroll-engine/recordstore"
)

// =============================================================================
// SERVICE
// =============================================================================

// Tables names the record-store tables the service reads and writes.
type Tables struct {
	Departments string
	Templates   string
	TimeCards   string
	Punches     string
}

// DefaultTables matches the HR product's table names.
func DefaultTables() Tables {
	return Tables{
		Departments: "departments",
		Templates:   "pay_period_templates",
		TimeCards:   "time_cards",
		Punches:     "punches",
	}
}

// Service exposes the payroll operations. Stateless between invocations;
// every call reads the store fresh.
type Service struct {
	store  recordstore.Store
	tables Tables
	log    *slog.Logger

	// PageSize and MaxPunches bound punch retrieval; zero means defaults.
	PageSize   int
	MaxPunches int

	// RecentWindowSize is how many periods CurrentPeriod returns for the
	// review window.
	RecentWindowSize int
}

func NewService(store recordstore.Store, opts ...Option) *Service {
	s := &Service{
		store:            store,
		tables:           DefaultTables(),
		log:              slog.Default(),
		RecentWindowSize: 5,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type Option func(*Service)

func WithTables(t Tables) Option       { return func(s *Service) { s.tables = t } }
func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.log = l } }

func WithPunchLimits(page, max int) Option {
	return func(s *Service) { s.PageSize, s.MaxPunches = page, max }
}

// =============================================================================
// DEPARTMENTS
// =============================================================================

// Departments lists every department with its day lists parsed.
func (s *Service) Departments(ctx context.Context) ([]payperiod.Department, error) {
	records, err := s.listAll(ctx, s.tables.Departments, nil)
	if err != nil {
		return nil, err
	}

	departments := make([]payperiod.Department, len(records))
	for i, rec := range records {
		departments[i] = departmentFromRecord(rec)
	}
	return departments, nil
}

// Department fetches one department by ID.
func (s *Service) Department(ctx context.Context, id payperiod.DepartmentID) (payperiod.Department, error) {
	records, err := s.listAll(ctx, s.tables.Departments, recordstore.Filter{
		"id": {In: []string{string(id)}},
	})
	if err != nil {
		return payperiod.Department{}, err
	}
	if len(records) == 0 {
		return payperiod.Department{}, fmt.Errorf("department %s: %w", id, recordstore.ErrRecordNotFound)
	}
	return departmentFromRecord(records[0]), nil
}

func departmentFromRecord(rec recordstore.Record) payperiod.Department {
	name, _ := rec.Fields["Name"].AsString()
	if name == "" {
		name, _ = rec.Fields["name"].AsString()
	}
	payPeriodType, _ := rec.Fields["pay_period_type"].AsString()
	startDays, _ := rec.Fields["pay_period_start_days"].AsString()
	endDays, _ := rec.Fields["pay_period_end_days"].AsString()
	payoutDays, _ := rec.Fields["payout_days"].AsString()

	return payperiod.Department{
		ID:            payperiod.DepartmentID(rec.ID),
		Name:          name,
		PayPeriodType: payPeriodType,
		StartDays:     payperiod.ParseDayPattern(startDays),
		EndDays:       payperiod.ParseDayPattern(endDays),
		PayoutDays:    payperiod.ParseDayPattern(payoutDays),
	}
}

// =============================================================================
// TEMPLATES
// =============================================================================

// Templates returns the persisted active templates of a department, ordered
// by period number.
func (s *Service) Templates(ctx context.Context, deptID payperiod.DepartmentID) ([]payperiod.PayPeriodTemplate, error) {
	records, err := s.listAll(ctx, s.tables.Templates, nil)
	if err != nil {
		return nil, err
	}

	var templates []payperiod.PayPeriodTemplate
	for _, rec := range records {
		t := templateFromRecord(rec)
		if t.DepartmentID != deptID || !t.IsActive {
			continue
		}
		templates = append(templates, t)
	}

	sort.Slice(templates, func(i, j int) bool {
		return templates[i].PeriodNumber < templates[j].PeriodNumber
	})
	return templates, nil
}

func templateFromRecord(rec recordstore.Record) payperiod.PayPeriodTemplate {
	periodNumber, _ := rec.Fields["period_number"].AsNumber()
	startDay, _ := rec.Fields["start_day"].AsNumber()
	endDay, _ := rec.Fields["end_day"].AsNumber()
	payoutDay, _ := rec.Fields["payout_day"].AsString()
	offset, _ := rec.Fields["payout_month_offset"].AsNumber()

	// is_active defaults true; only an explicit false deactivates.
	active, hasActive := rec.Fields["is_active"].AsBool()

	return payperiod.PayPeriodTemplate{
		ID:                payperiod.TemplateID(rec.ID),
		DepartmentID:      payperiod.DepartmentID(rec.Fields["department_id"].LinkedID()),
		PeriodNumber:      int(periodNumber),
		StartDay:          int(startDay),
		EndDay:            int(endDay),
		PayoutDay:         payoutDay,
		PayoutMonthOffset: int(offset),
		IsActive:          !hasActive || active,
	}
}

func templateFields(t payperiod.PayPeriodTemplate) map[string]recordstore.Value {
	return map[string]recordstore.Value{
		"department_id":       recordstore.Reference(string(t.DepartmentID)),
		"period_number":       recordstore.Number(float64(t.PeriodNumber)),
		"start_day":           recordstore.Number(float64(t.StartDay)),
		"end_day":             recordstore.Number(float64(t.EndDay)),
		"payout_day":          recordstore.String(t.PayoutDay),
		"payout_month_offset": recordstore.Number(float64(t.PayoutMonthOffset)),
		"is_active":           recordstore.Bool(t.IsActive),
	}
}

// =============================================================================
// PERIODS
// =============================================================================

// PeriodsFor instantiates a department's template cycle for the anchor
// month. Persisted templates win; when none exist the cycle is resolved
// directly from the department's raw day lists, and any resolution
// anomalies are returned alongside.
func (s *Service) PeriodsFor(ctx context.Context, deptID payperiod.DepartmentID, year int, month time.Month) ([]payperiod.PayPeriod, []payperiod.Anomaly, error) {
	if month < time.January || month > time.December {
		return nil, nil, fmt.Errorf("%w: month %d", payperiod.ErrInvalidAnchor, month)
	}

	templates, err := s.Templates(ctx, deptID)
	if err != nil {
		return nil, nil, err
	}

	var anomalies []payperiod.Anomaly
	if len(templates) == 0 {
		dept, err := s.Department(ctx, deptID)
		if err != nil {
			return nil, nil, err
		}
		templates, anomalies = payperiod.ResolveTemplates(dept)
		if len(templates) == 0 {
			return nil, anomalies, fmt.Errorf("department %s: %w", deptID, payperiod.ErrNoTemplates)
		}
	}

	return payperiod.InstantiateCycle(templates, year, month), anomalies, nil
}

// CurrentPeriod classifies this month's and the neighboring cycles against
// today and returns the authoritative current period with the recent review
// window. Instantiating the previous and next anchor months covers
// month-spanning periods that contain today but started last month.
func (s *Service) CurrentPeriod(ctx context.Context, deptID payperiod.DepartmentID, today payperiod.Date) (*payperiod.PayPeriod, []payperiod.PayPeriod, []payperiod.Anomaly, error) {
	var all []payperiod.PayPeriod
	var anomalies []payperiod.Anomaly

	for _, monthOffset := range []int{-1, 0, 1} {
		year, month := payperiod.AddMonths(today.Year(), today.Month(), monthOffset)
		periods, a, err := s.PeriodsFor(ctx, deptID, year, month)
		if err != nil {
			return nil, nil, nil, err
		}
		all = append(all, periods...)
		anomalies = append(anomalies, a...)
	}

	c := payperiod.Classify(all, today)
	anomalies = append(anomalies, c.Anomalies...)
	for _, a := range c.Anomalies {
		s.log.Warn("pay period classification anomaly",
			"department", string(deptID), "code", string(a.Code), "detail", a.Detail)
	}

	if c.Current == nil {
		return nil, nil, anomalies, nil
	}

	window := payperiod.RecentWindow(all, *c.Current, s.RecentWindowSize)
	return c.Current, window, anomalies, nil
}

// =============================================================================
// EMPLOYEE HOURS
// =============================================================================

// TimeCardIDs lists the time cards linked to a pay period.
func (s *Service) TimeCardIDs(ctx context.Context, payPeriodID string) ([]string, error) {
	records, err := s.listAll(ctx, s.tables.TimeCards, recordstore.Filter{
		"pay_period_id": {In: []string{payPeriodID}},
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
	}
	return ids, nil
}

// EmployeeHours aggregates per-employee hours for the date range, using the
// period's time cards for linkage when a pay-period ID is supplied.
func (s *Service) EmployeeHours(ctx context.Context, start, end payperiod.Date, payPeriodID string) (punches.Result, error) {
	var timeCardIDs []string
	if payPeriodID != "" {
		ids, err := s.TimeCardIDs(ctx, payPeriodID)
		if err != nil {
			return punches.Result{}, err
		}
		timeCardIDs = ids
	}

	agg := &punches.Aggregator{
		Store:      s.store,
		Table:      s.tables.Punches,
		PageSize:   s.PageSize,
		MaxPunches: s.MaxPunches,
	}
	result, err := agg.EmployeeHours(ctx, start, end, timeCardIDs)
	if err != nil {
		return punches.Result{}, err
	}

	if result.LinkFallback {
		s.log.Warn("no punches linked to time cards, using all punches in range",
			"pay_period", payPeriodID, "start", start.String(), "end", end.String())
	}
	if result.Truncated {
		s.log.Warn("punch retrieval hit safety ceiling",
			"start", start.String(), "end", end.String())
	}
	return result, nil
}

// PeriodTotals is the per-period roll-up for review screens.
type PeriodTotals struct {
	Period        payperiod.PayPeriod
	TotalHours    float64
	PunchCount    int
	TimeCardCount int
	LinkFallback  bool
	Truncated     bool
}

// Totals aggregates one period into a single hours/punch/time-card roll-up.
func (s *Service) Totals(ctx context.Context, period payperiod.PayPeriod) (PeriodTotals, error) {
	var timeCardIDs []string
	if period.ID != "" {
		ids, err := s.TimeCardIDs(ctx, period.ID)
		if err != nil {
			return PeriodTotals{}, err
		}
		timeCardIDs = ids
	}

	agg := &punches.Aggregator{
		Store:      s.store,
		Table:      s.tables.Punches,
		PageSize:   s.PageSize,
		MaxPunches: s.MaxPunches,
	}
	result, err := agg.EmployeeHours(ctx, period.StartDate, period.EndDate, timeCardIDs)
	if err != nil {
		return PeriodTotals{}, err
	}

	hours, _ := result.TotalHours.Float64()
	return PeriodTotals{
		Period:        period,
		TotalHours:    hours,
		PunchCount:    result.PunchCount,
		TimeCardCount: len(timeCardIDs),
		LinkFallback:  result.LinkFallback,
		Truncated:     result.Truncated,
	}, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// listAll drains a table through the pager's sequential offsets.
func (s *Service) listAll(ctx context.Context, table string, filter recordstore.Filter) ([]recordstore.Record, error) {
	pager := &punches.Pager{
		Store:    s.store,
		Table:    table,
		Filter:   filter,
		PageSize: s.PageSize,
	}
	records, truncated, err := pager.Collect(ctx)
	if err != nil {
		return nil, err
	}
	if truncated {
		s.log.Warn("record listing hit safety ceiling", "table", table)
	}
	return records, nil
}
