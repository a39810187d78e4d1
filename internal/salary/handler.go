package salary

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/roster-management/internal/core/calendar"
	"github.com/frahmantamala/roster-management/internal/transport"
)

type ServiceAPI interface {
	List() []Entry
	Summary() Summary
	SetSalary(ctx context.Context, dto SalaryDTO) (*Entry, error)
	RemoveSalary(ctx context.Context, employeeRef string) error
	SetMonthlySalary(ctx context.Context, dto MonthlySalaryDTO) (*MonthlyEntry, error)
	RemoveMonthlySalary(ctx context.Context, key string) error
	MonthlyOverview(year int, month time.Month) MonthlyOverview
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
	r.Get("/", h.ListSalaries)
	r.Post("/", h.SetSalary)
	r.Get("/summary", h.GetSummary)
	r.Get("/monthly", h.GetMonthlyOverview)
	r.Post("/monthly", h.SetMonthlySalary)
	r.Delete("/monthly/{key}", h.RemoveMonthlySalary)
	r.Delete("/{employee}", h.RemoveSalary)
}

func (h *Handler) ListSalaries(w http.ResponseWriter, r *http.Request) {
	entries := h.Service.List()
	h.WriteJSON(w, http.StatusOK, SalariesResponse{Salaries: entries, Summary: summarize(entries)})
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, h.Service.Summary())
}

func (h *Handler) SetSalary(w http.ResponseWriter, r *http.Request) {
	var dto SalaryDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.Logger.Warn("SetSalary: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.Service.SetSalary(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, entry)
}

func (h *Handler) RemoveSalary(w http.ResponseWriter, r *http.Request) {
	ref, err := url.PathUnescape(chi.URLParam(r, "employee"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid employee")
		return
	}
	if err := h.Service.RemoveSalary(r.Context(), ref); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetMonthlyOverview(w http.ResponseWriter, r *http.Request) {
	year, month, err := calendar.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.WriteJSON(w, http.StatusOK, h.Service.MonthlyOverview(year, month))
}

func (h *Handler) SetMonthlySalary(w http.ResponseWriter, r *http.Request) {
	var dto MonthlySalaryDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.Logger.Warn("SetMonthlySalary: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.Service.SetMonthlySalary(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, entry)
}

func (h *Handler) RemoveMonthlySalary(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.RemoveMonthlySalary(r.Context(), chi.URLParam(r, "key")); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
