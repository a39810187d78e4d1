package salary_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/roster-management/internal/employee"
	"github.com/frahmantamala/roster-management/internal/kvstore"
	"github.com/frahmantamala/roster-management/internal/salary"
	"github.com/frahmantamala/roster-management/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Salary Handler Integration", func() {
	var router *chi.Mux

	BeforeEach(func() {
		ctx := context.Background()
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		store := kvstore.NewMemoryStore()
		employees := employee.NewService(employee.NewRepository(store), nil, slogger)
		Expect(employees.Load(ctx)).To(Succeed())
		_, err := employees.Create(ctx, employee.CreateEmployeeDTO{Name: "Ana Marić", Position: "Kuvar", Department: "kitchen"})
		Expect(err).NotTo(HaveOccurred())

		service := salary.NewService(salary.NewRepository(store), employees, slogger)
		Expect(service.Load(ctx)).To(Succeed())

		router = chi.NewRouter()
		router.Route("/salaries", salary.NewHandler(&transport.BaseHandler{Logger: slogger}, service).Routes)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("sets, lists and removes current salaries", func() {
		w := do(http.MethodPost, "/salaries", `{"employee":"Ana Marić","total":"1000","bank":"600"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(w.Body.String()).To(ContainSubstring(`"cash":"400"`))

		w = do(http.MethodGet, "/salaries", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var resp salary.SalariesResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Salaries).To(HaveLen(1))
		Expect(resp.Summary.Count).To(Equal(1))

		Expect(do(http.MethodDelete, "/salaries/Ana%20Mari%C4%87", "").Code).To(Equal(http.StatusNoContent))
		Expect(do(http.MethodDelete, "/salaries/Ana%20Mari%C4%87", "").Code).To(Equal(http.StatusNotFound))
	})

	It("answers bank above total with 400", func() {
		w := do(http.MethodPost, "/salaries", `{"employee":"Ana Marić","total":"1000","bank":"1600"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("BANK_EXCEEDS_TOTAL"))
	})

	It("handles monthly salaries", func() {
		body := `{"employee":"Ana Marić","month":"2026-10","total":"1000","bank":"0"}`
		Expect(do(http.MethodPost, "/salaries/monthly", body).Code).To(Equal(http.StatusCreated))
		Expect(do(http.MethodPost, "/salaries/monthly", body).Code).To(Equal(http.StatusConflict))

		w := do(http.MethodGet, "/salaries/monthly?month=2026-10", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var overview salary.MonthlyOverview
		Expect(json.NewDecoder(w.Body).Decode(&overview)).To(Succeed())
		Expect(overview.Entries).To(HaveLen(1))

		Expect(do(http.MethodDelete, "/salaries/monthly/"+overview.Entries[0].Key, "").Code).To(Equal(http.StatusNoContent))
		Expect(do(http.MethodGet, "/salaries/monthly", "").Code).To(Equal(http.StatusBadRequest))
	})
})
