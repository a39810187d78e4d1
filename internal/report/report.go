package report

import (
	"log/slog"
	"time"

	"github.com/frahmantamala/roster-management/internal/analytics"
	"github.com/frahmantamala/roster-management/internal/core/calendar"
	"github.com/frahmantamala/roster-management/internal/core/roster"
	"github.com/frahmantamala/roster-management/internal/employee"
	"github.com/frahmantamala/roster-management/internal/salary"
	"github.com/frahmantamala/roster-management/internal/schedule"
)

const (
	ContentTypeText = "text/plain; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Document is a rendered export ready to be written to a file or an HTTP
// response.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

type EmployeeDirectory interface {
	List() []employee.Employee
}

type ScheduleViews interface {
	WeekView(offset int, department roster.Department) schedule.WeekView
	FreeEmployees(offset int, department roster.Department) schedule.FreeView
}

type SalaryLedger interface {
	List() []salary.Entry
	Summary() salary.Summary
	MonthlyOverview(year int, month time.Month) salary.MonthlyOverview
}

type Analytics interface {
	Overall() analytics.Report
}

// Service renders read-only exports of the registry, the schedule and the
// payroll. It never mutates anything.
type Service struct {
	employees EmployeeDirectory
	schedules ScheduleViews
	salaries  SalaryLedger
	analytics Analytics
	clock     calendar.Clock
	logger    *slog.Logger
}

func NewService(employees EmployeeDirectory, schedules ScheduleViews, salaries SalaryLedger, analytics Analytics, clock calendar.Clock, logger *slog.Logger) *Service {
	return &Service{
		employees: employees,
		schedules: schedules,
		salaries:  salaries,
		analytics: analytics,
		clock:     clock,
		logger:    logger,
	}
}

// directory indexes the registry by display name; week views carry names.
func (s *Service) directory() map[string]employee.Employee {
	out := map[string]employee.Employee{}
	for _, e := range s.employees.List() {
		out[e.Name] = e
	}
	return out
}
