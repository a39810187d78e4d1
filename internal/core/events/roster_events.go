package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeEmployeeRemoved = "employee.removed"
)

// EmployeeRemovedEvent is published before an employee record is deleted so
// that schedules and salary records referencing it can be cleaned up.
type EmployeeRemovedEvent struct {
	BaseEvent
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
}

func NewEmployeeRemovedEvent(employeeID, name string) *EmployeeRemovedEvent {
	return &EmployeeRemovedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeEmployeeRemoved,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"employee_id": employeeID,
				"name":        name,
			},
		},
		EmployeeID: employeeID,
		Name:       name,
	}
}
