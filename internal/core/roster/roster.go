// Package roster holds the fixed vocabularies shared by the scheduling,
// payroll and analytics packages: departments, weekdays, default shift
// labels and the named-position catalog.
package roster

import (
	"fmt"
	"strings"
)

type Department string

const (
	Kitchen    Department = "kitchen"
	Restaurant Department = "restaurant"
	Pool       Department = "pool"
)

// Departments is listed in display order.
var Departments = []Department{Kitchen, Restaurant, Pool}

type departmentMeta struct {
	name  string
	color string
}

var departmentInfo = map[Department]departmentMeta{
	Kitchen:    {name: "Kuhinja", color: "red"},
	Restaurant: {name: "Restoran", color: "blue"},
	Pool:       {name: "Bazen", color: "cyan"},
}

func (d Department) Valid() bool {
	_, ok := departmentInfo[d]
	return ok
}

func (d Department) DisplayName() string {
	if m, ok := departmentInfo[d]; ok {
		return m.name
	}
	return string(d)
}

func (d Department) Color() string {
	return departmentInfo[d].color
}

func ParseDepartment(s string) (Department, error) {
	d := Department(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("unknown department %q", s)
	}
	return d, nil
}

// Days are the weekday names in schedule order; index 0 is Monday.
var Days = []string{"Ponedeljak", "Utorak", "Sreda", "Četvrtak", "Petak", "Subota", "Nedelja"}

// DayIndex returns the position of day in Days, or -1.
func DayIndex(day string) int {
	for i, d := range Days {
		if d == day {
			return i
		}
	}
	return -1
}

func IsDay(day string) bool {
	return DayIndex(day) >= 0
}

var DefaultShifts = []string{"8-16", "16-00", "10-14 i 18-22", "14-22", "10-19"}

// SlotKind tells how the label part of a slot key is interpreted for a department.
type SlotKind string

const (
	SlotKindTimeRange     SlotKind = "time_range"
	SlotKindNamedPosition SlotKind = "named_position"
)

// Layout maps every department to the slot kind it schedules with.
// Departments absent from the map use time ranges.
type Layout map[Department]SlotKind

func NewLayout(positionDepartments []string) (Layout, error) {
	layout := Layout{}
	for _, raw := range positionDepartments {
		d, err := ParseDepartment(raw)
		if err != nil {
			return nil, err
		}
		layout[d] = SlotKindNamedPosition
	}
	return layout, nil
}

func (l Layout) KindOf(d Department) SlotKind {
	if k, ok := l[d]; ok {
		return k
	}
	return SlotKindTimeRange
}
