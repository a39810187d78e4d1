package analytics_test

import (
	"time"

	"github.com/frahmantamala/roster-management/internal/analytics"
	"github.com/frahmantamala/roster-management/internal/core/calendar"
	"github.com/frahmantamala/roster-management/internal/core/roster"
	"github.com/frahmantamala/roster-management/internal/employee"
	"github.com/frahmantamala/roster-management/internal/schedule"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func emp(id, name string, dept roster.Department) employee.Employee {
	return employee.Employee{ID: id, Name: name, Position: "Radnik", Department: dept}
}

func warningCodes(r analytics.Report) []analytics.WarningCode {
	out := []analytics.WarningCode{}
	for _, w := range r.Warnings {
		out = append(out, w.Code)
	}
	return out
}

var _ = Describe("Compute", func() {
	It("reports an empty system", func() {
		r := analytics.Compute(analytics.Input{})
		Expect(r.TotalEmployees).To(BeZero())
		Expect(r.TotalShifts).To(BeZero())
		Expect(r.Workload).To(BeEmpty())
		Expect(r.Departments).To(HaveLen(3))
		Expect(r.BusiestDays).To(HaveLen(3))
		Expect(warningCodes(r)).To(Equal([]analytics.WarningCode{analytics.WarningNoEmployees}))
	})

	It("counts department headcount from the registry", func() {
		r := analytics.Compute(analytics.Input{
			Employees: []employee.Employee{
				emp("a", "Ana", roster.Kitchen),
				emp("b", "Bojan", roster.Kitchen),
				emp("c", "Jelena", roster.Pool),
			},
			Schedules: schedule.Schedules{
				"2026-W42": {"kitchen-Ponedeljak-8-16": {"a"}},
			},
		})
		Expect(r.Departments[0]).To(Equal(analytics.DepartmentStats{
			Department: roster.Kitchen, Name: "Kuhinja", Employees: 2, Shifts: 1, Hours: 8,
		}))
		Expect(r.Departments[1].Employees).To(BeZero())
		Expect(r.Departments[2]).To(Equal(analytics.DepartmentStats{
			Department: roster.Pool, Name: "Bazen", Employees: 1,
		}))
		Expect(warningCodes(r)).To(ConsistOf(analytics.WarningSingleDepartment, analytics.WarningBalanced))
	})

	It("appends departments seen only in schedule keys", func() {
		r := analytics.Compute(analytics.Input{
			Schedules: schedule.Schedules{"2026-W42": {"bar-Petak-18-22": {"x"}}},
		})
		Expect(r.Departments).To(HaveLen(4))
		Expect(r.Departments[3].Department).To(Equal(roster.Department("bar")))
		Expect(r.Departments[3].Hours).To(BeNumerically("==", 4))
	})

	It("ranks busiest days stably in weekday order", func() {
		r := analytics.Compute(analytics.Input{
			Schedules: schedule.Schedules{
				"2026-W42": {
					"kitchen-Nedelja-8-16": {"a", "b"},
					"kitchen-Sreda-8-16":   {"a"},
					"kitchen-Utorak-8-16":  {"b"},
				},
			},
		})
		Expect(r.BusiestDays).To(Equal([]analytics.DayActivity{
			{Day: "Nedelja", Assignments: 2},
			{Day: "Utorak", Assignments: 1},
			{Day: "Sreda", Assignments: 1},
		}))
	})

	It("credits every assignee with the full slot and tracks distinct days", func() {
		r := analytics.Compute(analytics.Input{
			Employees: []employee.Employee{emp("a", "Ana", roster.Kitchen), emp("b", "Bojan", roster.Kitchen)},
			Schedules: schedule.Schedules{
				"2026-W42": {
					"kitchen-Ponedeljak-10-14 i 18-22": {"a", "b"},
					"kitchen-Ponedeljak-14-22":         {"a"},
				},
				"2026-W43": {"kitchen-Ponedeljak-8-16": {"a"}},
			},
		})
		Expect(r.Workload[0].Name).To(Equal("Ana"))
		Expect(r.Workload[0].Hours).To(BeNumerically("==", 24))
		Expect(r.Workload[0].Shifts).To(Equal(3))
		Expect(r.Workload[0].DaysWorked).To(Equal(2))
		Expect(r.Workload[0].AverageHoursPerDay).To(BeNumerically("==", 12))
		Expect(r.Workload[1].Hours).To(BeNumerically("==", 8))
		Expect(r.WeeksInStore).To(Equal(2))
		Expect(r.TotalHours).To(BeNumerically("==", 32))
		Expect(r.ShiftsPerEmployee).To(Equal(2))
	})

	It("reads position hours for named-position slots", func() {
		r := analytics.Compute(analytics.Input{
			Employees: []employee.Employee{emp("j", "Jelena", roster.Restaurant)},
			Schedules: schedule.Schedules{"2026-W42": {"restaurant-Petak-split-waiter": {"j"}}},
		})
		Expect(r.Workload[0].Hours).To(BeNumerically("==", 8))
	})

	It("keeps registry order on ties and marks unknown workers", func() {
		r := analytics.Compute(analytics.Input{
			Employees: []employee.Employee{emp("m", "Marko", roster.Pool), emp("a", "Ana", roster.Pool)},
			Schedules: schedule.Schedules{
				"2026-W42": {
					"pool-Utorak-8-16": {"a", "m", "ghost"},
					"pool-Sreda-10-19": {"ghost"},
				},
			},
		})
		var names []string
		for _, w := range r.TopWorkers {
			names = append(names, w.Name)
		}
		Expect(names).To(Equal([]string{"ghost", "Marko", "Ana"}))
		Expect(r.TopWorkers[0].Position).To(Equal("N/A"))
		Expect(r.TopWorkers[0].Department).To(Equal("N/A"))
	})

	It("limits top workers to five", func() {
		var staff []employee.Employee
		var ids []string
		for _, id := range []string{"1", "2", "3", "4", "5", "6", "7"} {
			staff = append(staff, emp(id, "E"+id, roster.Kitchen))
			ids = append(ids, id)
		}
		r := analytics.Compute(analytics.Input{
			Employees: staff,
			Schedules: schedule.Schedules{"2026-W42": {"kitchen-Sreda-8-16": ids}},
		})
		Expect(r.TopWorkers).To(HaveLen(5))
		Expect(r.Workload).To(HaveLen(7))
	})

	It("warns about missing shifts and high workload", func() {
		r := analytics.Compute(analytics.Input{Employees: []employee.Employee{emp("a", "Ana", roster.Kitchen)}})
		Expect(warningCodes(r)).To(Equal([]analytics.WarningCode{analytics.WarningNoShifts}))

		week := schedule.Week{}
		for _, day := range roster.Days {
			for _, shift := range []string{"6-7", "7-8", "8-9", "9-10", "10-11", "11-12"} {
				week[schedule.BuildKey(roster.Kitchen, day, shift)] = []string{"a"}
			}
		}
		r = analytics.Compute(analytics.Input{
			Employees: []employee.Employee{emp("a", "Ana", roster.Kitchen)},
			Schedules: schedule.Schedules{"2026-W42": week},
		})
		Expect(r.TotalShifts).To(Equal(42))
		Expect(warningCodes(r)).To(ContainElement(analytics.WarningHighWorkload))
	})

	It("limits the report to the requested days", func() {
		schedules := schedule.Schedules{
			// Monday 28 Sep to Sunday 4 Oct 2026.
			"2026-W40": {
				"kitchen-Ponedeljak-8-16": {"a"},
				"kitchen-Nedelja-8-16":    {"a"},
			},
			"2026-W45": {"kitchen-Ponedeljak-8-16": {"a"}},
		}
		now := time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)
		r := analytics.Compute(analytics.Input{
			Employees: []employee.Employee{emp("a", "Ana", roster.Kitchen)},
			Schedules: schedules,
			Days:      calendar.MonthDays(now, 2026, time.October),
		})
		Expect(r.TotalShifts).To(Equal(1))
		Expect(r.WeeksInStore).To(Equal(1))
		Expect(r.Workload[0].Hours).To(BeNumerically("==", 8))
	})
})
