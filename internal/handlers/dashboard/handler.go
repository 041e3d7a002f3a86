// Package dashboard serves the derived metrics endpoints.
package dashboard

import (
	"net/http"
	"time"

	"facops/internal/ledger"
	"facops/internal/models"
	"facops/internal/response"
	"facops/internal/stats"
	"facops/internal/validation"
)

// Handler holds dependencies for dashboard handlers.
type Handler struct {
	Stats  *stats.Engine
	Ledger *ledger.Engine
}

// StatsForDate handles GET /api/v1/dashboard?date=. Defaults to today.
func (h *Handler) StatsForDate(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	ve := &validation.ValidationErrors{}
	validation.ValidateDate(ve, "date", date)
	if ve.HasErrors() {
		response.Err(w, ve.Error(), 400)
		return
	}

	s, err := h.Stats.ForDate(date)
	if err != nil {
		response.Err(w, err.Error(), 500)
		return
	}
	response.JSON(w, s)
}

// ByLine handles GET /api/v1/dashboard/lines?date=.
func (h *Handler) ByLine(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	ve := &validation.ValidationErrors{}
	validation.ValidateDate(ve, "date", date)
	if ve.HasErrors() {
		response.Err(w, ve.Error(), 400)
		return
	}

	sums, err := h.Stats.ByLine(date)
	if err != nil {
		response.Err(w, err.Error(), 500)
		return
	}
	if sums == nil {
		sums = []stats.LineSummary{}
	}
	response.JSON(w, sums)
}

// LowStock handles GET /api/v1/dashboard/lowstock.
func (h *Handler) LowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.Ledger.LowStock()
	if err != nil {
		response.Err(w, err.Error(), 500)
		return
	}
	if items == nil {
		items = []models.InventoryItem{}
	}
	response.JSON(w, items)
}
