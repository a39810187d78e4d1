package report

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/roster-management/internal/core/calendar"
	"github.com/frahmantamala/roster-management/internal/transport"
)

type ServiceAPI interface {
	ScheduleText(offset int) *Document
	FreeText(offset int) *Document
	SalariesText() *Document
	MonthlySalariesText(year int, month time.Month) *Document
	ScheduleWorkbook(offset int) (*Document, error)
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
	r.Get("/schedule.txt", h.ExportScheduleText)
	r.Get("/free.txt", h.ExportFreeText)
	r.Get("/salaries.txt", h.ExportSalariesText)
	r.Get("/monthly-salaries.txt", h.ExportMonthlySalariesText)
	r.Get("/schedule.xlsx", h.ExportScheduleWorkbook)
}

// weekParam reads ?week=<offset>; a missing value is the current week.
func weekParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("week")
	if raw == "" {
		return 0, nil
	}
	return transport.IntParam(raw)
}

func (h *Handler) writeDocument(w http.ResponseWriter, doc *Document) {
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Body); err != nil {
		h.Logger.Warn("failed to write export", "filename", doc.Filename, "error", err)
	}
}

func (h *Handler) ExportScheduleText(w http.ResponseWriter, r *http.Request) {
	offset, err := weekParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writeDocument(w, h.Service.ScheduleText(offset))
}

func (h *Handler) ExportFreeText(w http.ResponseWriter, r *http.Request) {
	offset, err := weekParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writeDocument(w, h.Service.FreeText(offset))
}

func (h *Handler) ExportSalariesText(w http.ResponseWriter, r *http.Request) {
	h.writeDocument(w, h.Service.SalariesText())
}

func (h *Handler) ExportMonthlySalariesText(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("month")
	if raw == "" {
		h.WriteError(w, http.StatusBadRequest, "month is required (YYYY-MM)")
		return
	}
	year, month, err := calendar.ParseMonth(raw)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writeDocument(w, h.Service.MonthlySalariesText(year, month))
}

func (h *Handler) ExportScheduleWorkbook(w http.ResponseWriter, r *http.Request) {
	offset, err := weekParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	doc, err := h.Service.ScheduleWorkbook(offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.writeDocument(w, doc)
}
