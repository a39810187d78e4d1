package catalog

import (
	"github.com/frahmantamala/roster-management/internal/core/roster"
)

type DepartmentResponse struct {
	ID    roster.Department `json:"id"`
	Name  string            `json:"name"`
	Color string            `json:"color"`
	Kind  roster.SlotKind   `json:"kind"`
}

type CatalogResponse struct {
	Departments []DepartmentResponse `json:"departments"`
	Days        []string             `json:"days"`
	Shifts      []string             `json:"shifts"`
	Positions   []roster.Position    `json:"positions"`
}

func toDepartmentResponse(d roster.Department, layout roster.Layout) DepartmentResponse {
	return DepartmentResponse{
		ID:    d,
		Name:  d.DisplayName(),
		Color: d.Color(),
		Kind:  layout.KindOf(d),
	}
}
