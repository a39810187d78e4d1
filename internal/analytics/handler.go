package analytics

import (
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/roster-management/internal/core/calendar"
	"github.com/frahmantamala/roster-management/internal/transport"
)

type ServiceAPI interface {
	Overall() Report
	ForMonth(year int, month time.Month) Report
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
	r.Get("/", h.GetReport)
}

// GetReport serves the whole-store report, or one month's with ?month=YYYY-MM.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("month")
	if raw == "" {
		h.WriteJSON(w, http.StatusOK, h.Service.Overall())
		return
	}
	year, month, err := calendar.ParseMonth(raw)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.WriteJSON(w, http.StatusOK, h.Service.ForMonth(year, month))
}
