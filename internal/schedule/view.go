package schedule

import (
	"slices"
	"time"

	"github.com/frahmantamala/roster-management/internal/core/calendar"
	"github.com/frahmantamala/roster-management/internal/core/roster"
)

type SlotView struct {
	Key       string           `json:"key"`
	Label     string           `json:"label"`
	Hours     string           `json:"hours"`
	Position  *roster.Position `json:"position,omitempty"`
	Assignees []string         `json:"assignees"`
}

type DayView struct {
	Day   string     `json:"day"`
	Date  time.Time  `json:"date"`
	Slots []SlotView `json:"slots"`
}

// WeekView is one department's schedule for one week, every slot listed
// whether or not it has assignees.
type WeekView struct {
	Week       calendar.Week     `json:"week"`
	Department roster.Department `json:"department"`
	Kind       roster.SlotKind   `json:"kind"`
	Days       []DayView         `json:"days"`
}

type FreeDay struct {
	Day     string    `json:"day"`
	Date    time.Time `json:"date"`
	Free    []string  `json:"free"`
	Working []string  `json:"working"`
}

// FreeView lists, per day, the department's employees without any
// assignment in that department.
type FreeView struct {
	Week        calendar.Week     `json:"week"`
	Department  roster.Department `json:"department"`
	Days        []FreeDay         `json:"days"`
	FreeAllWeek []string          `json:"free_all_week"`
}

// labels returns the slot labels shown for a department on a day: the
// position catalog, or the configured shifts followed by any other label
// stored for that day.
func (s *Service) labels(week Week, department roster.Department, day string) []string {
	if s.layout.KindOf(department) == roster.SlotKindNamedPosition {
		out := make([]string, 0, len(roster.Positions))
		for _, p := range roster.Positions {
			out = append(out, p.ID)
		}
		return out
	}
	out := slices.Clone(s.shifts)
	var custom []string
	for key := range week {
		k, ok := ParseKey(key)
		if !ok || k.Department != department || k.Day != day {
			continue
		}
		if !slices.Contains(out, k.Label) && !slices.Contains(custom, k.Label) {
			custom = append(custom, k.Label)
		}
	}
	slices.Sort(custom)
	return append(out, custom...)
}

func (s *Service) WeekView(offset int, department roster.Department) WeekView {
	desc := calendar.Describe(s.clock(), offset)
	week := s.weekCopy(offset)

	view := WeekView{
		Week:       desc,
		Department: department,
		Kind:       s.layout.KindOf(department),
		Days:       make([]DayView, 0, len(roster.Days)),
	}
	for i, day := range roster.Days {
		dv := DayView{Day: day, Date: desc.Dates[i]}
		for _, label := range s.labels(week, department, day) {
			k := SlotKey{Department: department, Day: day, Label: label}
			sv := SlotView{
				Key:       k.String(),
				Label:     label,
				Hours:     k.HoursLabel(),
				Assignees: s.names(week[k.String()]),
			}
			if p, ok := roster.PositionByID(label); ok {
				sv.Position = &p
				sv.Label = p.Name
			}
			dv.Slots = append(dv.Slots, sv)
		}
		view.Days = append(view.Days, dv)
	}
	return view
}

// workingIDs returns the ids assigned to any slot of department on day.
func workingIDs(week Week, department roster.Department, day string) map[string]bool {
	out := map[string]bool{}
	for key, ids := range week {
		k, ok := ParseKey(key)
		if !ok || k.Department != department || k.Day != day {
			continue
		}
		for _, id := range ids {
			out[id] = true
		}
	}
	return out
}

func (s *Service) FreeEmployees(offset int, department roster.Department) FreeView {
	desc := calendar.Describe(s.clock(), offset)
	week := s.weekCopy(offset)
	staff := s.directory.ListByDepartment(department)

	view := FreeView{
		Week:        desc,
		Department:  department,
		Days:        make([]FreeDay, 0, len(roster.Days)),
		FreeAllWeek: []string{},
	}
	busyAnyDay := map[string]bool{}
	for i, day := range roster.Days {
		working := workingIDs(week, department, day)
		fd := FreeDay{Day: day, Date: desc.Dates[i], Free: []string{}, Working: []string{}}
		for _, e := range staff {
			if working[e.ID] {
				fd.Working = append(fd.Working, e.Name)
				busyAnyDay[e.ID] = true
			} else {
				fd.Free = append(fd.Free, e.Name)
			}
		}
		view.Days = append(view.Days, fd)
	}
	for _, e := range staff {
		if !busyAnyDay[e.ID] {
			view.FreeAllWeek = append(view.FreeAllWeek, e.Name)
		}
	}
	return view
}
