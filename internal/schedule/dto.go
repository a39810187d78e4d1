package schedule

import (
	"strings"

	errors "github.com/frahmantamala/roster-management/internal"
	"github.com/frahmantamala/roster-management/internal/core/common/validation"
	"github.com/frahmantamala/roster-management/internal/core/roster"
)

type AssignmentRequest struct {
	Department string `json:"department" validate:"required"`
	Day        string `json:"day" validate:"required"`
	Shift      string `json:"shift" validate:"required"`
	Employee   string `json:"employee" validate:"required"`
}

type UnassignRequest struct {
	Department string `json:"department" validate:"required"`
	Day        string `json:"day" validate:"required"`
	Shift      string `json:"shift" validate:"required"`
	Index      *int   `json:"index" validate:"required"`
}

type PositionRequest struct {
	Department string `json:"department" validate:"required"`
	Day        string `json:"day" validate:"required"`
	Position   string `json:"position" validate:"required"`
	Employee   string `json:"employee,omitempty"`
}

// BulkUpdateRequest maps full slot keys to employee names.
type BulkUpdateRequest struct {
	Slots map[string][]string `json:"slots" validate:"required"`
}

func trimAll(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

func validate(dto interface{}) error {
	if err := validation.ValidateStruct(dto); err != nil {
		return err
	}
	return nil
}

func parseDepartment(raw string) (roster.Department, error) {
	d, err := roster.ParseDepartment(raw)
	if err != nil {
		return "", errors.NewValidationFieldError("department", err.Error(), errors.ErrCodeInvalidDepartment)
	}
	return d, nil
}

func (r *AssignmentRequest) Normalize() {
	trimAll(&r.Department, &r.Day, &r.Shift, &r.Employee)
}

func (r *UnassignRequest) Normalize() {
	trimAll(&r.Department, &r.Day, &r.Shift)
}

func (r *PositionRequest) Normalize() {
	trimAll(&r.Department, &r.Day, &r.Position, &r.Employee)
}
