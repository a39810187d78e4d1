// Package analytics derives read-only statistics from the employee registry
// and the schedule. Nothing here is persisted; every report is recomputed.
package analytics

import (
	"math"
	"slices"
	"sort"

	"github.com/frahmantamala/roster-management/internal/core/calendar"
	"github.com/frahmantamala/roster-management/internal/core/roster"
	"github.com/frahmantamala/roster-management/internal/employee"
	"github.com/frahmantamala/roster-management/internal/schedule"
)

const (
	topWorkersLimit  = 5
	busiestDaysLimit = 3
	highWorkload     = 40
	notAvailable     = "N/A"
)

type Input struct {
	Employees []employee.Employee
	Schedules schedule.Schedules
	// Days limits the report to the listed weekday indices of each week.
	// Nil means every stored day.
	Days map[calendar.WeekID]map[int]bool
}

type Workload struct {
	EmployeeID         string  `json:"employee_id"`
	Name               string  `json:"name"`
	Position           string  `json:"position"`
	Department         string  `json:"department"`
	Hours              float64 `json:"hours"`
	Shifts             int     `json:"shifts"`
	DaysWorked         int     `json:"days_worked"`
	AverageHoursPerDay float64 `json:"average_hours_per_day"`
}

type DepartmentStats struct {
	Department roster.Department `json:"department"`
	Name       string            `json:"name"`
	Employees  int               `json:"employees"`
	Shifts     int               `json:"shifts"`
	Hours      float64           `json:"hours"`
}

type DayActivity struct {
	Day         string `json:"day"`
	Assignments int    `json:"assignments"`
}

type WarningCode string

const (
	WarningNoEmployees      WarningCode = "no_employees"
	WarningNoShifts         WarningCode = "no_shifts"
	WarningHighWorkload     WarningCode = "high_workload"
	WarningSingleDepartment WarningCode = "single_department"
	WarningBalanced         WarningCode = "balanced"
)

type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
	Hint    string      `json:"hint"`
}

type Report struct {
	// Scope is "all" or the "YYYY-MM" month the report was limited to.
	Scope             string            `json:"scope"`
	TotalEmployees    int               `json:"total_employees"`
	WeeksInStore      int               `json:"weeks_in_store"`
	TotalShifts       int               `json:"total_shifts"`
	TotalHours        float64           `json:"total_hours"`
	ShiftsPerEmployee int               `json:"shifts_per_employee"`
	Workload          []Workload        `json:"workload"`
	Departments       []DepartmentStats `json:"departments"`
	BusiestDays       []DayActivity     `json:"busiest_days"`
	TopWorkers        []Workload        `json:"top_workers"`
	Warnings          []Warning         `json:"warnings"`
}

type dayRef struct {
	week calendar.WeekID
	day  int
}

type tally struct {
	hours  float64
	shifts int
	days   map[dayRef]bool
}

// Compute builds the report. Each assignee of a slot is credited with the
// full slot duration.
func Compute(in Input) Report {
	tallies := map[string]*tally{}
	deptShifts := map[roster.Department]int{}
	deptHours := map[roster.Department]float64{}
	dayCounts := make([]int, len(roster.Days))
	weeks := 0
	report := Report{TotalEmployees: len(in.Employees)}

	for _, weekID := range in.Schedules.WeekIDs() {
		inScope := false
		for key, ids := range in.Schedules[weekID] {
			k, ok := schedule.ParseKey(key)
			if !ok || len(ids) == 0 {
				continue
			}
			dayIdx := roster.DayIndex(k.Day)
			if in.Days != nil && (dayIdx < 0 || !in.Days[weekID][dayIdx]) {
				continue
			}
			inScope = true

			hours := ParseShiftHours(k.HoursLabel())
			report.TotalShifts += len(ids)
			deptShifts[k.Department] += len(ids)
			deptHours[k.Department] += hours * float64(len(ids))
			if dayIdx >= 0 {
				dayCounts[dayIdx] += len(ids)
			}
			for _, id := range ids {
				t := tallies[id]
				if t == nil {
					t = &tally{days: map[dayRef]bool{}}
					tallies[id] = t
				}
				t.hours += hours
				t.shifts++
				t.days[dayRef{week: weekID, day: dayIdx}] = true
			}
		}
		if inScope {
			weeks++
		}
	}
	report.WeeksInStore = weeks

	report.Workload = workload(in.Employees, tallies)
	for _, w := range report.Workload {
		report.TotalHours += w.Hours
	}
	report.TopWorkers = report.Workload[:min(topWorkersLimit, len(report.Workload))]
	report.Departments = departments(in.Employees, deptShifts, deptHours)
	report.BusiestDays = busiestDays(dayCounts)
	report.ShiftsPerEmployee = int(math.Round(float64(report.TotalShifts) / float64(max(report.TotalEmployees, 1))))
	report.Warnings = warnings(report, len(deptShifts))
	return report
}

// workload orders employees by hours; ties keep registry order and ids no
// longer in the registry come last.
func workload(employees []employee.Employee, tallies map[string]*tally) []Workload {
	out := make([]Workload, 0, len(tallies))
	seen := map[string]bool{}
	for _, e := range employees {
		t, ok := tallies[e.ID]
		if !ok || seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		out = append(out, newWorkload(e.ID, e.Name, e.Position, string(e.Department), t))
	}

	var orphans []string
	for id := range tallies {
		if !seen[id] {
			orphans = append(orphans, id)
		}
	}
	slices.Sort(orphans)
	for _, id := range orphans {
		out = append(out, newWorkload(id, id, notAvailable, notAvailable, tallies[id]))
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Hours > out[j].Hours })
	return out
}

func newWorkload(id, name, position, department string, t *tally) Workload {
	w := Workload{
		EmployeeID: id,
		Name:       name,
		Position:   position,
		Department: department,
		Hours:      t.hours,
		Shifts:     t.shifts,
		DaysWorked: len(t.days),
	}
	if w.DaysWorked > 0 {
		w.AverageHoursPerDay = w.Hours / float64(w.DaysWorked)
	}
	return w
}

// departments reports every known department with its registry headcount,
// followed by any other department found only in schedule keys.
func departments(employees []employee.Employee, shifts map[roster.Department]int, hours map[roster.Department]float64) []DepartmentStats {
	headcount := map[roster.Department]int{}
	for _, e := range employees {
		headcount[e.Department]++
	}

	depts := slices.Clone(roster.Departments)
	var extra []roster.Department
	for d := range shifts {
		if !d.Valid() {
			extra = append(extra, d)
		}
	}
	slices.Sort(extra)
	depts = append(depts, extra...)

	out := make([]DepartmentStats, 0, len(depts))
	for _, d := range depts {
		out = append(out, DepartmentStats{
			Department: d,
			Name:       d.DisplayName(),
			Employees:  headcount[d],
			Shifts:     shifts[d],
			Hours:      hours[d],
		})
	}
	return out
}

func busiestDays(counts []int) []DayActivity {
	out := make([]DayActivity, len(roster.Days))
	for i, day := range roster.Days {
		out[i] = DayActivity{Day: day, Assignments: counts[i]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Assignments > out[j].Assignments })
	return out[:busiestDaysLimit]
}

func warnings(r Report, activeDepartments int) []Warning {
	out := []Warning{}
	if r.TotalEmployees == 0 {
		out = append(out, Warning{WarningNoEmployees, "Nema zaposlenih u sistemu", `Dodajte zaposlene u sekciju "Zaposleni"`})
	}
	if r.TotalShifts == 0 && r.TotalEmployees > 0 {
		out = append(out, Warning{WarningNoShifts, "Nema kreiranih smena", `Idite na "Raspored smena" da kreirate raspored`})
	}
	if float64(r.TotalShifts)/float64(max(r.TotalEmployees, 1)) > highWorkload {
		out = append(out, Warning{WarningHighWorkload, "Visoko opterećenje zaposlenih", "Razmislite o zapošljavanju dodatnih radnika"})
	}
	if activeDepartments == 1 {
		out = append(out, Warning{WarningSingleDepartment, "Samo jedno odeljenje aktivno", "Dodajte zaposlene u ostala odeljenja za bolje pokrivanje"})
	}
	if r.TotalShifts > 0 && r.TotalShifts < r.TotalEmployees {
		out = append(out, Warning{WarningBalanced, "Dobra balansiranost", "Raspored izgleda uravnoteženo"})
	}
	return out
}
