package analytics_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/roster-management/internal/analytics"
	"github.com/frahmantamala/roster-management/internal/core/calendar"
	"github.com/frahmantamala/roster-management/internal/core/roster"
	"github.com/frahmantamala/roster-management/internal/employee"
	"github.com/frahmantamala/roster-management/internal/kvstore"
	"github.com/frahmantamala/roster-management/internal/schedule"
	"github.com/frahmantamala/roster-management/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Analytics Service", func() {
	var (
		ctx     context.Context
		service *analytics.Service
		router  *chi.Mux
	)

	BeforeEach(func() {
		ctx = context.Background()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		clock := calendar.FixedClock(time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC))
		store := kvstore.NewMemoryStore()

		employees := employee.NewService(employee.NewRepository(store), nil, logger)
		Expect(employees.Load(ctx)).To(Succeed())
		schedules := schedule.NewService(schedule.NewRepository(store), employees, schedule.Settings{Clock: clock}, logger)
		Expect(schedules.Load(ctx)).To(Succeed())

		_, err := employees.Create(ctx, employee.CreateEmployeeDTO{Name: "Ana", Position: "Kuvar", Department: "kitchen"})
		Expect(err).NotTo(HaveOccurred())
		_, err = employees.Create(ctx, employee.CreateEmployeeDTO{Name: "Marko", Position: "Konobar", Department: "restaurant"})
		Expect(err).NotTo(HaveOccurred())

		Expect(schedules.Assign(ctx, 0, roster.Kitchen, "Ponedeljak", "8-16", "Ana")).To(Succeed())
		Expect(schedules.Assign(ctx, 0, roster.Restaurant, "Ponedeljak", "8-16", "Marko")).To(Succeed())
		Expect(schedules.Assign(ctx, 0, roster.Restaurant, "Utorak", "14-22", "Marko")).To(Succeed())

		service = analytics.NewService(employees, schedules, clock, logger)
		router = chi.NewRouter()
		router.Route("/analytics", analytics.NewHandler(&transport.BaseHandler{Logger: logger}, service).Routes)
	})

	It("derives the registration and assignment scenario", func() {
		r := service.Overall()
		Expect(r.Scope).To(Equal("all"))
		Expect(r.TotalShifts).To(Equal(3))
		Expect(r.TotalEmployees).To(Equal(2))

		hours := map[string]float64{}
		for _, w := range r.Workload {
			hours[w.Name] = w.Hours
		}
		Expect(hours).To(Equal(map[string]float64{"Ana": 8, "Marko": 16}))
		Expect(r.TopWorkers[0].Name).To(Equal("Marko"))
		Expect(r.TopWorkers[0].Position).To(Equal("Konobar"))

		Expect(r.BusiestDays[0]).To(Equal(analytics.DayActivity{Day: "Ponedeljak", Assignments: 2}))
		Expect(r.BusiestDays[1]).To(Equal(analytics.DayActivity{Day: "Utorak", Assignments: 1}))
	})

	It("scopes reports to a month", func() {
		Expect(service.ForMonth(2026, time.October).TotalShifts).To(Equal(3))
		r := service.ForMonth(2026, time.November)
		Expect(r.Scope).To(Equal("2026-11"))
		Expect(r.TotalShifts).To(BeZero())
	})

	It("serves reports over HTTP", func() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics?month=2026-10", nil))
		Expect(w.Code).To(Equal(http.StatusOK))
		var r analytics.Report
		Expect(json.NewDecoder(w.Body).Decode(&r)).To(Succeed())
		Expect(r.Scope).To(Equal("2026-10"))
		Expect(r.TotalShifts).To(Equal(3))

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics?month=oktobar", nil))
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
