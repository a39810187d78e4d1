package employee

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/roster-management/internal/core/roster"
)

type Employee struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Position   string            `json:"position"`
	Department roster.Department `json:"department"`
	Phone      string            `json:"phone,omitempty"`
	Notes      string            `json:"notes,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

func NewEmployee(dto CreateEmployeeDTO, now time.Time) *Employee {
	return &Employee{
		ID:         uuid.NewString(),
		Name:       dto.Name,
		Position:   dto.Position,
		Department: roster.Department(dto.Department),
		Phone:      dto.Phone,
		Notes:      dto.Notes,
		CreatedAt:  now,
	}
}

// SameName compares display names the way the registry enforces uniqueness.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func (e *Employee) apply(dto UpdateEmployeeDTO) {
	if dto.Name != nil {
		e.Name = *dto.Name
	}
	if dto.Position != nil {
		e.Position = *dto.Position
	}
	if dto.Department != nil {
		e.Department = roster.Department(*dto.Department)
	}
	if dto.Phone != nil {
		e.Phone = *dto.Phone
	}
	if dto.Notes != nil {
		e.Notes = *dto.Notes
	}
}
