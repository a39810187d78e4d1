package catalog

import (
	"log/slog"
	"slices"

	"github.com/frahmantamala/roster-management/internal/core/roster"
)

// Service lists the fixed vocabularies a client needs to build schedule
// forms: departments with their slot kind, weekdays, shifts and positions.
type Service struct {
	layout roster.Layout
	shifts []string
	logger *slog.Logger
}

func NewService(layout roster.Layout, shifts []string, logger *slog.Logger) *Service {
	if len(shifts) == 0 {
		shifts = roster.DefaultShifts
	}
	return &Service{
		layout: layout,
		shifts: slices.Clone(shifts),
		logger: logger,
	}
}

func (s *Service) GetCatalog() CatalogResponse {
	resp := CatalogResponse{
		Departments: make([]DepartmentResponse, 0, len(roster.Departments)),
		Days:        slices.Clone(roster.Days),
		Shifts:      slices.Clone(s.shifts),
		Positions:   slices.Clone(roster.Positions),
	}
	for _, d := range roster.Departments {
		resp.Departments = append(resp.Departments, toDepartmentResponse(d, s.layout))
	}

	s.logger.Debug("catalog served", "departments", len(resp.Departments), "shifts", len(resp.Shifts))
	return resp
}

// GetDepartment returns nil for unknown departments.
func (s *Service) GetDepartment(raw string) *DepartmentResponse {
	d, err := roster.ParseDepartment(raw)
	if err != nil {
		return nil
	}
	resp := toDepartmentResponse(d, s.layout)
	return &resp
}
