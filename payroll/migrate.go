package payroll

import (
	"context"
	"fmt"

	"github.com/warp/payroll-engine/payperiod"
	"github.com/warp/payroll-engine/recordstore"
)

// =============================================================================
// TEMPLATE MIGRATION - Raw department day lists -> persisted templates
// =============================================================================

// MigrationReport summarizes one migration run. The batch always completes;
// per-department problems land in Anomalies instead of failing the run.
type MigrationReport struct {
	Created   int
	Skipped   int // departments that already had templates
	Anomalies []payperiod.Anomaly
}

// MigrateTemplates resolves the template cycle of every department from its
// raw day lists and persists it, one record per period. Departments that
// already have templates are skipped; templates are created once and later
// only corrected or deactivated, never deleted.
//
// Store errors are fatal (nothing is silently retried); data-quality
// conditions are reported and the batch continues.
func (s *Service) MigrateTemplates(ctx context.Context) (MigrationReport, error) {
	var report MigrationReport

	departments, err := s.Departments(ctx)
	if err != nil {
		return report, err
	}

	existing, err := s.existingTemplateDepartments(ctx)
	if err != nil {
		return report, err
	}

	for _, dept := range departments {
		if existing[dept.ID] {
			report.Skipped++
			continue
		}
		if dept.PayPeriodType == "" {
			report.Anomalies = append(report.Anomalies, payperiod.Anomaly{
				Code:         payperiod.AnomalyMissingDays,
				DepartmentID: dept.ID,
				Detail:       "no pay period type configured",
			})
			continue
		}

		templates, anomalies := payperiod.ResolveTemplates(dept)
		report.Anomalies = append(report.Anomalies, anomalies...)

		for _, t := range templates {
			if _, err := s.store.Create(ctx, s.tables.Templates, templateFields(t)); err != nil {
				return report, err
			}
			report.Created++
		}
	}

	s.log.Info("template migration complete",
		"created", report.Created, "skipped", report.Skipped, "anomalies", len(report.Anomalies))
	return report, nil
}

func (s *Service) existingTemplateDepartments(ctx context.Context) (map[payperiod.DepartmentID]bool, error) {
	records, err := s.listAll(ctx, s.tables.Templates, nil)
	if err != nil {
		return nil, err
	}

	existing := make(map[payperiod.DepartmentID]bool)
	for _, rec := range records {
		if id := rec.Fields["department_id"].LinkedID(); id != "" {
			existing[payperiod.DepartmentID(id)] = true
		}
	}
	return existing, nil
}

// =============================================================================
// TEMPLATE REPAIR - Fix mis-paired persisted templates
// =============================================================================

// RepairReport summarizes one repair run.
type RepairReport struct {
	Checked int
	Fixed   int
}

// RepairTemplates re-resolves a department's cycle from its raw day lists
// and patches any persisted template whose start/end pairing disagrees.
// An earlier migration paired days positionally and got month-spanning
// cycles wrong; this is the corrective fixup path.
func (s *Service) RepairTemplates(ctx context.Context, deptID payperiod.DepartmentID) (RepairReport, error) {
	var report RepairReport

	dept, err := s.Department(ctx, deptID)
	if err != nil {
		return report, err
	}

	expected, _ := payperiod.ResolveTemplates(dept)
	if len(expected) == 0 {
		return report, fmt.Errorf("department %s: %w", deptID, payperiod.ErrNoTemplates)
	}
	byNumber := make(map[int]payperiod.PayPeriodTemplate, len(expected))
	for _, t := range expected {
		byNumber[t.PeriodNumber] = t
	}

	persisted, err := s.Templates(ctx, deptID)
	if err != nil {
		return report, err
	}

	for _, got := range persisted {
		want, ok := byNumber[got.PeriodNumber]
		if !ok {
			continue
		}
		report.Checked++

		if got.StartDay == want.StartDay && got.EndDay == want.EndDay {
			continue
		}

		fields := templateFields(want)
		delete(fields, "department_id") // linkage is correct, only days drifted
		if _, err := s.store.Update(ctx, s.tables.Templates, string(got.ID), fields); err != nil {
			return report, err
		}
		report.Fixed++
		s.log.Info("repaired pay period template",
			"department", string(deptID), "period", got.PeriodNumber,
			"start_day", want.StartDay, "end_day", want.EndDay)
	}

	return report, nil
}

// DeactivateTemplate marks a template inactive. Templates are never
// deleted.
func (s *Service) DeactivateTemplate(ctx context.Context, id payperiod.TemplateID) error {
	_, err := s.store.Update(ctx, s.tables.Templates, string(id), map[string]recordstore.Value{
		"is_active": recordstore.Bool(false),
	})
	return err
}
