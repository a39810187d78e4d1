package schedule

import (
	"context"
	"net/http"

	"github.com/go-chi/chi"

	errors "github.com/frahmantamala/roster-management/internal"
	"github.com/frahmantamala/roster-management/internal/core/roster"
	"github.com/frahmantamala/roster-management/internal/transport"
)

type ServiceAPI interface {
	WeekView(offset int, department roster.Department) WeekView
	FreeEmployees(offset int, department roster.Department) FreeView
	Assign(ctx context.Context, offset int, department roster.Department, day, label, employeeName string) error
	Unassign(ctx context.Context, offset int, department roster.Department, day, label string, index int) error
	AssignToPosition(ctx context.Context, offset int, department roster.Department, day, positionID, employeeName string) error
	ClearPosition(ctx context.Context, offset int, department roster.Department, day, positionID string) error
	BulkUpdate(ctx context.Context, offset int, partial map[string][]string) error
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
	r.Route("/weeks/{offset}", func(wr chi.Router) {
		wr.Get("/", h.GetWeek)
		wr.Patch("/", h.BulkUpdate)
		wr.Get("/free", h.GetFree)
		wr.Post("/assignments", h.Assign)
		wr.Delete("/assignments", h.Unassign)
		wr.Put("/positions", h.AssignPosition)
		wr.Delete("/positions", h.ClearPosition)
	})
}

// weekAndDepartment reads the week offset path parameter and the required
// department query parameter.
func (h *Handler) weekAndDepartment(w http.ResponseWriter, r *http.Request) (int, roster.Department, bool) {
	offset, ok := h.offset(w, r)
	if !ok {
		return 0, "", false
	}
	dept, err := parseDepartment(r.URL.Query().Get("department"))
	if err != nil {
		h.HandleServiceError(w, err)
		return 0, "", false
	}
	return offset, dept, true
}

func (h *Handler) offset(w http.ResponseWriter, r *http.Request) (int, bool) {
	offset, err := transport.IntParam(chi.URLParam(r, "offset"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "week offset "+err.Error())
		return 0, false
	}
	return offset, true
}

func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	offset, dept, ok := h.weekAndDepartment(w, r)
	if !ok {
		return
	}
	h.WriteJSON(w, http.StatusOK, h.Service.WeekView(offset, dept))
}

func (h *Handler) GetFree(w http.ResponseWriter, r *http.Request) {
	offset, dept, ok := h.weekAndDepartment(w, r)
	if !ok {
		return
	}
	h.WriteJSON(w, http.StatusOK, h.Service.FreeEmployees(offset, dept))
}

func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	offset, ok := h.offset(w, r)
	if !ok {
		return
	}
	var req AssignmentRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.Logger.Warn("Assign: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Normalize()
	if err := validate(req); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	dept, err := parseDepartment(req.Department)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.Assign(r.Context(), offset, dept, req.Day, req.Shift, req.Employee); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, h.Service.WeekView(offset, dept))
}

func (h *Handler) Unassign(w http.ResponseWriter, r *http.Request) {
	offset, ok := h.offset(w, r)
	if !ok {
		return
	}
	var req UnassignRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.Logger.Warn("Unassign: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Normalize()
	if err := validate(req); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	dept, err := parseDepartment(req.Department)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.Unassign(r.Context(), offset, dept, req.Day, req.Shift, *req.Index); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, h.Service.WeekView(offset, dept))
}

func (h *Handler) AssignPosition(w http.ResponseWriter, r *http.Request) {
	offset, ok := h.offset(w, r)
	if !ok {
		return
	}
	var req PositionRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.Logger.Warn("AssignPosition: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Normalize()
	if err := validate(req); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if req.Employee == "" {
		h.HandleServiceError(w, errors.NewValidationFieldError("employee", "employee is required", errors.ErrCodeValidationFailed))
		return
	}
	dept, err := parseDepartment(req.Department)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.AssignToPosition(r.Context(), offset, dept, req.Day, req.Position, req.Employee); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, h.Service.WeekView(offset, dept))
}

func (h *Handler) ClearPosition(w http.ResponseWriter, r *http.Request) {
	offset, ok := h.offset(w, r)
	if !ok {
		return
	}
	var req PositionRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.Logger.Warn("ClearPosition: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Normalize()
	if err := validate(req); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	dept, err := parseDepartment(req.Department)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.ClearPosition(r.Context(), offset, dept, req.Day, req.Position); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, h.Service.WeekView(offset, dept))
}

func (h *Handler) BulkUpdate(w http.ResponseWriter, r *http.Request) {
	offset, ok := h.offset(w, r)
	if !ok {
		return
	}
	var req BulkUpdateRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.Logger.Warn("BulkUpdate: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate(req); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.BulkUpdate(r.Context(), offset, req.Slots); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
