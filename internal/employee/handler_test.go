package employee_test

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
	"github.com/frahmantamala/roster-management/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Employee Handler Integration", func() {
	var (
		service *employee.Service
		router  *chi.Mux
	)

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = employee.NewService(employee.NewRepository(kvstore.NewMemoryStore()), nil, slogger)
		Expect(service.Load(context.Background())).To(Succeed())

		handler := employee.NewHandler(&transport.BaseHandler{Logger: slogger}, service)
		router = chi.NewRouter()
		router.Route("/employees", handler.Routes)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("should create and list employees", func() {
		w := do(http.MethodPost, "/employees", `{"name":"Ana","position":"Kuvar","department":"kitchen"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		var created employee.Employee
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created.ID).NotTo(BeEmpty())

		w = do(http.MethodGet, "/employees?department=kitchen", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var resp employee.EmployeesResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Employees).To(HaveLen(1))
		Expect(resp.Employees[0].Name).To(Equal("Ana"))
	})

	It("should answer duplicate names with 409", func() {
		do(http.MethodPost, "/employees", `{"name":"Ana","position":"Kuvar","department":"kitchen"}`)
		w := do(http.MethodPost, "/employees", `{"name":"Ana","position":"Kuvar","department":"kitchen"}`)
		Expect(w.Code).To(Equal(http.StatusConflict))
		Expect(w.Body.String()).To(ContainSubstring("DUPLICATE_EMPLOYEE"))
	})

	It("should answer validation failures with 400 and field details", func() {
		w := do(http.MethodPost, "/employees", `{"name":"","position":"Kuvar","department":"kitchen"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring(`"field":"name"`))
	})

	It("should reject malformed bodies and unknown department filters", func() {
		Expect(do(http.MethodPost, "/employees", `{"name":`).Code).To(Equal(http.StatusBadRequest))
		Expect(do(http.MethodGet, "/employees?department=garden", "").Code).To(Equal(http.StatusBadRequest))
	})

	It("should rename and delete by id", func() {
		emp, err := service.Create(context.Background(), employee.CreateEmployeeDTO{Name: "Marko", Position: "Konobar", Department: "restaurant"})
		Expect(err).NotTo(HaveOccurred())

		w := do(http.MethodPatch, "/employees/"+emp.ID, `{"name":"Marko P."}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("Marko P."))

		Expect(do(http.MethodDelete, "/employees/"+emp.ID, "").Code).To(Equal(http.StatusNoContent))
		Expect(do(http.MethodGet, "/employees/"+emp.ID, "").Code).To(Equal(http.StatusNotFound))
		Expect(do(http.MethodDelete, "/employees/"+emp.ID, "").Code).To(Equal(http.StatusNotFound))
	})
})
