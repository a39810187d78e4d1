package analytics

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/frahmantamala/roster-management/internal/core/calendar"
	"github.com/frahmantamala/roster-management/internal/employee"
	"github.com/frahmantamala/roster-management/internal/schedule"
)

const ScopeAll = "all"

var computeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "roster",
	Subsystem: "analytics",
	Name:      "compute_duration_seconds",
	Help:      "Time spent computing analytics reports.",
	Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
}, []string{"scope"})

type EmployeeLister interface {
	List() []employee.Employee
}

type ScheduleReader interface {
	Snapshot() schedule.Schedules
}

// Service computes reports over fresh snapshots of the registry and schedule.
type Service struct {
	employees EmployeeLister
	schedules ScheduleReader
	clock     calendar.Clock
	logger    *slog.Logger
}

func NewService(employees EmployeeLister, schedules ScheduleReader, clock calendar.Clock, logger *slog.Logger) *Service {
	if clock == nil {
		clock = calendar.SystemClock(nil)
	}
	return &Service{
		employees: employees,
		schedules: schedules,
		clock:     clock,
		logger:    logger,
	}
}

func (s *Service) Overall() Report {
	return s.compute(ScopeAll, nil)
}

// ForMonth limits the report to the weekdays whose date falls in the month.
func (s *Service) ForMonth(year int, month time.Month) Report {
	days := calendar.MonthDays(s.clock(), year, month)
	return s.compute(fmt.Sprintf("%04d-%02d", year, int(month)), days)
}

func (s *Service) compute(scope string, days map[calendar.WeekID]map[int]bool) Report {
	label := "month"
	if days == nil {
		label = ScopeAll
	}
	timer := prometheus.NewTimer(computeDuration.WithLabelValues(label))
	defer timer.ObserveDuration()

	report := Compute(Input{
		Employees: s.employees.List(),
		Schedules: s.schedules.Snapshot(),
		Days:      days,
	})
	report.Scope = scope
	s.logger.Debug("analytics computed",
		"scope", scope,
		"total_shifts", report.TotalShifts,
		"warnings", len(report.Warnings))
	return report
}
