package catalog

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/roster-management/internal/transport"
)

type ServiceAPI interface {
	GetCatalog() CatalogResponse
	GetDepartment(raw string) *DepartmentResponse
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
	r.Get("/", h.GetCatalog)
	r.Get("/departments/{department}", h.GetDepartment)
}

func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, h.Service.GetCatalog())
}

func (h *Handler) GetDepartment(w http.ResponseWriter, r *http.Request) {
	dept := h.Service.GetDepartment(chi.URLParam(r, "department"))
	if dept == nil {
		h.WriteError(w, http.StatusNotFound, "department not found")
		return
	}
	h.WriteJSON(w, http.StatusOK, dept)
}
