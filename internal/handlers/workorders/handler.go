// Package workorders exposes the work order lifecycle over HTTP.
package workorders

import (
	"fmt"
	"net/http"

	"facops/internal/handlers/common"
	"facops/internal/models"
	"facops/internal/response"
	"facops/internal/validation"
	"facops/internal/websocket"
	"facops/internal/workorder"
)

// Handler holds dependencies for work order handlers.
type Handler struct {
	Orders *workorder.Engine
	Hub    *websocket.Hub
}

type createRequest struct {
	OrderNumber       string `json:"order_number"`
	LineID            int64  `json:"line_id"`
	ProductID         int64  `json:"product_id"`
	QuantityRequested int    `json:"quantity_requested"`
	Priority          string `json:"priority"`
	ScheduledStart    string `json:"scheduled_start"`
	ScheduledEnd      string `json:"scheduled_end"`
	Notes             string `json:"notes"`
	CreatedBy         string `json:"created_by"`
}

// Create handles POST /api/v1/workorders.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
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
	validation.ValidatePositiveInt(ve, "quantity_requested", req.QuantityRequested)
	validation.ValidateEnum(ve, "priority", req.Priority, validation.OrderPriorities)
	if ve.HasErrors() {
		response.Err(w, ve.Error(), 400)
		return
	}

	wo, err := h.Orders.Create(workorder.CreateRequest{
		OrderNumber:       req.OrderNumber,
		LineID:            req.LineID,
		ProductID:         req.ProductID,
		QuantityRequested: req.QuantityRequested,
		Priority:          req.Priority,
		ScheduledStart:    req.ScheduledStart,
		ScheduledEnd:      req.ScheduledEnd,
		Notes:             req.Notes,
		CreatedBy:         req.CreatedBy,
	})
	if err != nil {
		response.Err(w, err.Error(), common.StatusFor(err))
		return
	}
	h.Hub.BroadcastChange("workorder", "create", wo.ID)
	response.JSON(w, wo)
}

// List handles GET /api/v1/workorders?status=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.List(r.URL.Query().Get("status"))
	if err != nil {
		response.Err(w, err.Error(), common.StatusFor(err))
		return
	}
	if orders == nil {
		orders = []models.WorkOrder{}
	}
	response.JSON(w, orders)
}

// Get handles GET /api/v1/workorders/:id.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request, id int64) {
	wo, err := h.Orders.Get(id)
	if err != nil {
		response.Err(w, "not found", 404)
		return
	}
	response.JSON(w, wo)
}

type transitionRequest struct {
	Status           string `json:"status"`
	QuantityProduced *int   `json:"quantity_produced"`
}

// Transition handles POST /api/v1/workorders/:id/transition.
func (h *Handler) Transition(w http.ResponseWriter, r *http.Request, id int64) {
	var req transitionRequest
	if err := response.DecodeBody(r, &req); err != nil {
		response.Err(w, "invalid body", 400)
		return
	}

	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "status", req.Status)
	validation.ValidateEnum(ve, "status", req.Status, validation.OrderStatuses)
	if ve.HasErrors() {
		response.Err(w, ve.Error(), 400)
		return
	}

	wo, err := h.Orders.Transition(id, req.Status, req.QuantityProduced)
	if err != nil {
		response.Err(w, err.Error(), common.StatusFor(err))
		return
	}
	h.Hub.BroadcastChange("workorder", "update", wo.ID)
	response.JSON(w, wo)
}

// Export handles GET /api/v1/workorders/export?format=csv|xlsx.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	orders, err := h.Orders.List(r.URL.Query().Get("status"))
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}

	headers := []string{"Order Number", "Line", "Product", "Requested", "Produced", "Priority", "Status", "Created"}
	var data [][]string
	for _, wo := range orders {
		data = append(data, []string{
			wo.OrderNumber, wo.LineName, wo.ProductCode,
			fmt.Sprintf("%d", wo.QuantityRequested), fmt.Sprintf("%d", wo.QuantityProduced),
			wo.Priority, wo.Status, wo.CreatedAt,
		})
	}

	if format == "xlsx" {
		common.ExportExcel(w, "WorkOrders", headers, data)
	} else {
		common.ExportCSV(w, "workorders.csv", headers, data)
	}
}
