package employee

import (
	"context"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/roster-management/internal/core/roster"
	"github.com/frahmantamala/roster-management/internal/transport"
)

type ServiceAPI interface {
	List() []Employee
	ListByDepartment(department roster.Department) []Employee
	GetByID(id string) (*Employee, bool)
	Create(ctx context.Context, dto CreateEmployeeDTO) (*Employee, error)
	Update(ctx context.Context, id string, dto UpdateEmployeeDTO) (*Employee, error)
	Remove(ctx context.Context, id string) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.ListEmployees)
	r.Post("/", h.CreateEmployee)
	r.Get("/{id}", h.GetEmployee)
	r.Patch("/{id}", h.UpdateEmployee)
	r.Delete("/{id}", h.RemoveEmployee)
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("department"); raw != "" {
		dept, err := roster.ParseDepartment(raw)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.WriteJSON(w, http.StatusOK, EmployeesResponse{Employees: h.Service.ListByDepartment(dept)})
		return
	}
	h.WriteJSON(w, http.StatusOK, EmployeesResponse{Employees: h.Service.List()})
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	emp, ok := h.Service.GetByID(id)
	if !ok {
		h.WriteError(w, http.StatusNotFound, "employee not found")
		return
	}
	h.WriteJSON(w, http.StatusOK, emp)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var dto CreateEmployeeDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.Logger.Warn("CreateEmployee: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	emp, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, emp)
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var dto UpdateEmployeeDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.Logger.Warn("UpdateEmployee: invalid request body", "error", err, "employee_id", id)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	emp, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, emp)
}

func (h *Handler) RemoveEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Service.Remove(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
