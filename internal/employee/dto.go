package employee

import (
	"strings"

	errors "github.com/frahmantamala/roster-management/internal"
	"github.com/frahmantamala/roster-management/internal/core/common/validation"
)

type CreateEmployeeDTO struct {
	Name       string `json:"name" validate:"required,max=100"`
	Position   string `json:"position" validate:"required,max=100"`
	Department string `json:"department" validate:"required,oneof=kitchen restaurant pool"`
	Phone      string `json:"phone,omitempty" validate:"max=40"`
	Notes      string `json:"notes,omitempty" validate:"max=500"`
}

func (d *CreateEmployeeDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Position = strings.TrimSpace(d.Position)
	d.Department = strings.ToLower(strings.TrimSpace(d.Department))
	d.Phone = strings.TrimSpace(d.Phone)
	d.Notes = strings.TrimSpace(d.Notes)
}

func (d CreateEmployeeDTO) Validate() error {
	if err := validation.ValidateStruct(d); err != nil {
		return err
	}
	return nil
}

// UpdateEmployeeDTO changes only the fields that are set.
type UpdateEmployeeDTO struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Position   *string `json:"position,omitempty" validate:"omitempty,max=100"`
	Department *string `json:"department,omitempty" validate:"omitempty,oneof=kitchen restaurant pool"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=40"`
	Notes      *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

func (d *UpdateEmployeeDTO) Normalize() {
	for _, f := range []*string{d.Name, d.Position, d.Phone, d.Notes} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
	if d.Department != nil {
		*d.Department = strings.ToLower(strings.TrimSpace(*d.Department))
	}
}

func (d UpdateEmployeeDTO) Validate() error {
	v := validation.NewValidator()
	if d.Name != nil {
		v.Field("name", *d.Name).Required()
	}
	if d.Position != nil {
		v.Field("position", *d.Position).Required()
	}
	if d.Department != nil {
		v.Field("department", *d.Department).Required()
	}
	if err := v.Validate(); err != nil {
		return err
	}
	if err := validation.ValidateStruct(d); err != nil {
		return err
	}
	return nil
}

func (d UpdateEmployeeDTO) Empty() bool {
	return d.Name == nil && d.Position == nil && d.Department == nil && d.Phone == nil && d.Notes == nil
}

type EmployeesResponse struct {
	Employees []Employee `json:"employees"`
}

var errEmptyUpdate = errors.NewValidationError("No fields to update", errors.ErrCodeValidationFailed)
