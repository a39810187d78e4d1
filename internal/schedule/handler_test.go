package schedule_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/roster-management/internal/core/calendar"
	"github.com/frahmantamala/roster-management/internal/employee"
	"github.com/frahmantamala/roster-management/internal/kvstore"
	"github.com/frahmantamala/roster-management/internal/schedule"
	"github.com/frahmantamala/roster-management/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Schedule Handler Integration", func() {
	var router *chi.Mux

	BeforeEach(func() {
		ctx := context.Background()
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		store := kvstore.NewMemoryStore()

		employees := employee.NewService(employee.NewRepository(store), nil, slogger)
		Expect(employees.Load(ctx)).To(Succeed())
		_, err := employees.Create(ctx, employee.CreateEmployeeDTO{Name: "Ana", Position: "Kuvar", Department: "kitchen"})
		Expect(err).NotTo(HaveOccurred())
		_, err = employees.Create(ctx, employee.CreateEmployeeDTO{Name: "Jelena", Position: "Konobar", Department: "restaurant"})
		Expect(err).NotTo(HaveOccurred())

		service := schedule.NewService(schedule.NewRepository(store), employees, schedule.Settings{
			Layout: layout,
			Clock:  calendar.FixedClock(now),
		}, slogger)
		Expect(service.Load(ctx)).To(Succeed())

		handler := schedule.NewHandler(&transport.BaseHandler{Logger: slogger}, service)
		router = chi.NewRouter()
		router.Route("/schedule", handler.Routes)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("assigns and returns the updated week", func() {
		w := do(http.MethodPost, "/schedule/weeks/0/assignments",
			`{"department":"Kitchen","day":"Ponedeljak","shift":"10-14 i 18-22","employee":"Ana"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		var view schedule.WeekView
		Expect(json.NewDecoder(w.Body).Decode(&view)).To(Succeed())
		Expect(view.Week.ID).To(Equal(calendar.WeekID("2026-W42")))
		Expect(view.Days[0].Slots[2].Assignees).To(Equal([]string{"Ana"}))

		w = do(http.MethodDelete, "/schedule/weeks/0/assignments",
			`{"department":"kitchen","day":"Ponedeljak","shift":"10-14 i 18-22","index":0}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(json.NewDecoder(w.Body).Decode(&view)).To(Succeed())
		Expect(view.Days[0].Slots[2].Assignees).To(BeEmpty())
	})

	It("answers duplicates with 409", func() {
		body := `{"department":"kitchen","day":"Utorak","shift":"8-16","employee":"Ana"}`
		Expect(do(http.MethodPost, "/schedule/weeks/1/assignments", body).Code).To(Equal(http.StatusCreated))
		w := do(http.MethodPost, "/schedule/weeks/1/assignments", body)
		Expect(w.Code).To(Equal(http.StatusConflict))
		Expect(w.Body.String()).To(ContainSubstring("DUPLICATE_ASSIGNMENT"))
	})

	It("validates input", func() {
		Expect(do(http.MethodGet, "/schedule/weeks/abc?department=kitchen", "").Code).To(Equal(http.StatusBadRequest))
		Expect(do(http.MethodGet, "/schedule/weeks/0?department=garden", "").Code).To(Equal(http.StatusBadRequest))
		Expect(do(http.MethodPost, "/schedule/weeks/0/assignments", `{"department":"kitchen"}`).Code).To(Equal(http.StatusBadRequest))
		w := do(http.MethodPost, "/schedule/weeks/0/assignments",
			`{"department":"kitchen","day":"Ponedeljak","shift":"8-16","employee":"Nobody"}`)
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("places and clears positions", func() {
		w := do(http.MethodPut, "/schedule/weeks/0/positions",
			`{"department":"restaurant","day":"Sreda","position":"morning-bartender","employee":"Jelena"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("Jelena"))

		w = do(http.MethodDelete, "/schedule/weeks/0/positions",
			`{"department":"restaurant","day":"Sreda","position":"morning-bartender"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).NotTo(ContainSubstring("Jelena"))
	})

	It("bulk updates and lists free employees", func() {
		w := do(http.MethodPatch, "/schedule/weeks/0",
			`{"slots":{"kitchen-Petak-8-16":["Ana"]}}`)
		Expect(w.Code).To(Equal(http.StatusNoContent))

		w = do(http.MethodGet, "/schedule/weeks/0/free?department=kitchen", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var free schedule.FreeView
		Expect(json.NewDecoder(w.Body).Decode(&free)).To(Succeed())
		Expect(free.Days[4].Working).To(Equal([]string{"Ana"}))
		Expect(free.FreeAllWeek).To(BeEmpty())
	})
})
