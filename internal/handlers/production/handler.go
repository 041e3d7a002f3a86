// Package production exposes production run recording over HTTP.
package production

import (
	"fmt"
	"net/http"
	"strconv"

	"facops/internal/handlers/common"
	"facops/internal/models"
	"facops/internal/production"
	"facops/internal/response"
	"facops/internal/validation"
	"facops/internal/websocket"
)

// Handler holds dependencies for production handlers.
type Handler struct {
	Production *production.Engine
	Hub        *websocket.Hub
}

type recordRequest struct {
	LineID      int64  `json:"line_id"`
	ProductID   int64  `json:"product_id"`
	OperatorID  int64  `json:"operator_id"`
	Quantity    int    `json:"quantity"`
	DefectCount int    `json:"defect_count"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Status      string `json:"status"`
	Notes       string `json:"notes"`
}

// Record handles POST /api/v1/production.
func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := response.DecodeBody(r, &req); err != nil {
		response.Err(w, "invalid body", 400)
		return
	}

	ve := &validation.ValidationErrors{}
	if req.LineID <= 0 {
		ve.Add("line_id", "is required")
	}
	if req.ProductID <= 0 {
		ve.Add("product_id", "is required")
	}
	validation.ValidateNonNegativeInt(ve, "quantity", req.Quantity)
	validation.ValidateNonNegativeInt(ve, "defect_count", req.DefectCount)
	if ve.HasErrors() {
		response.Err(w, ve.Error(), 400)
		return
	}

	rec, err := h.Production.Record(production.RecordRequest{
		LineID:      req.LineID,
		ProductID:   req.ProductID,
		OperatorID:  req.OperatorID,
		Quantity:    req.Quantity,
		DefectCount: req.DefectCount,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Status:      req.Status,
		Notes:       req.Notes,
	})
	if err != nil {
		response.Err(w, err.Error(), common.StatusFor(err))
		return
	}
	h.Hub.BroadcastChange("production", "create", rec.ID)
	response.JSON(w, rec)
}

// List handles GET /api/v1/production. With ?start=&end= it returns the
// date range, otherwise the most recent records.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")

	var recs []models.ProductionRecord
	var err error
	if start != "" || end != "" {
		ve := &validation.ValidationErrors{}
		validation.RequireField(ve, "start", start)
		validation.RequireField(ve, "end", end)
		validation.ValidateDate(ve, "start", start)
		validation.ValidateDate(ve, "end", end)
		if ve.HasErrors() {
			response.Err(w, ve.Error(), 400)
			return
		}
		recs, err = h.Production.Range(start, end)
	} else {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		recs, err = h.Production.Recent(limit)
	}
	if err != nil {
		response.Err(w, err.Error(), 500)
		return
	}
	if recs == nil {
		recs = []models.ProductionRecord{}
	}
	response.JSON(w, recs)
}

// Get handles GET /api/v1/production/:id.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request, id int64) {
	rec, err := h.Production.Get(id)
	if err != nil {
		response.Err(w, "not found", 404)
		return
	}
	response.JSON(w, rec)
}

// Export handles GET /api/v1/production/export?format=csv|xlsx.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	recs, err := h.Production.Recent(1000)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}

	headers := []string{"ID", "Line", "Product", "Quantity", "Defects", "Start", "Status", "Created"}
	var data [][]string
	for _, rec := range recs {
		data = append(data, []string{
			fmt.Sprintf("%d", rec.ID), rec.LineName, rec.ProductCode,
			fmt.Sprintf("%d", rec.Quantity), fmt.Sprintf("%d", rec.DefectCount),
			rec.StartTime, rec.Status, rec.CreatedAt,
		})
	}

	if format == "xlsx" {
		common.ExportExcel(w, "Production", headers, data)
	} else {
		common.ExportCSV(w, "production.csv", headers, data)
	}
}
