// Package inventory exposes the stock ledger over HTTP.
package inventory

import (
	"fmt"
	"net/http"
	"strconv"

	"facops/internal/handlers/common"
	"facops/internal/ledger"
	"facops/internal/models"
	"facops/internal/response"
	"facops/internal/validation"
	"facops/internal/websocket"
)

// Handler holds dependencies for inventory handlers.
type Handler struct {
	Ledger *ledger.Engine
	Hub    *websocket.Hub
}

// List handles GET /api/v1/inventory. ?low_stock=true restricts the listing
// to positions at or under their minimum.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var items []models.InventoryItem
	var err error
	if r.URL.Query().Get("low_stock") == "true" {
		items, err = h.Ledger.LowStock()
	} else {
		items, err = h.Ledger.Items()
	}
	if err != nil {
		response.Err(w, err.Error(), 500)
		return
	}
	if items == nil {
		items = []models.InventoryItem{}
	}
	response.JSON(w, items)
}

// Get handles GET /api/v1/inventory/:id.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request, id int64) {
	item, err := h.Ledger.ItemByID(id)
	if err != nil {
		response.Err(w, "not found", 404)
		return
	}
	response.JSON(w, item)
}

type moveRequest struct {
	InventoryID   int64  `json:"inventory_id"`
	ProductID     int64  `json:"product_id"`
	Location      string `json:"location"`
	Delta         int    `json:"delta"`
	MovementType  string `json:"movement_type"`
	ReferenceType string `json:"reference_type"`
	ReferenceID   int64  `json:"reference_id"`
	Notes         string `json:"notes"`
	CreatedBy     string `json:"created_by"`
}

// Move handles POST /api/v1/inventory/move. The position is addressed either
// by inventory_id (must exist) or by product_id+location (created on first
// use).
func (h *Handler) Move(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := response.DecodeBody(r, &req); err != nil {
		response.Err(w, "invalid body", 400)
		return
	}

	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "movement_type", req.MovementType)
	validation.ValidateEnum(ve, "movement_type", req.MovementType, validation.MovementTypes)
	if req.InventoryID <= 0 && req.ProductID <= 0 {
		ve.Add("inventory_id", "or product_id is required")
	}
	if req.Delta == 0 {
		ve.Add("delta", "must be non-zero")
	}
	if ve.HasErrors() {
		response.Err(w, ve.Error(), 400)
		return
	}

	m := ledger.Movement{
		Delta:         req.Delta,
		MovementType:  req.MovementType,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
		Notes:         req.Notes,
		CreatedBy:     req.CreatedBy,
	}
	var item *models.InventoryItem
	var err error
	if req.InventoryID > 0 {
		item, err = h.Ledger.Apply(req.InventoryID, m)
	} else {
		item, err = h.Ledger.ApplyAt(req.ProductID, req.Location, m)
	}
	if err != nil {
		response.Err(w, err.Error(), common.StatusFor(err))
		return
	}
	h.Hub.BroadcastChange("inventory", "update", item.ID)
	response.JSON(w, item)
}

// Movements handles GET /api/v1/inventory/:id/movements.
func (h *Handler) Movements(w http.ResponseWriter, r *http.Request, id int64) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	moves, err := h.Ledger.Movements(id, limit)
	if err != nil {
		response.Err(w, err.Error(), 500)
		return
	}
	response.JSON(w, moves)
}

// Audit handles GET /api/v1/inventory/:id/audit. It recomputes the balance
// from the movement log and reports whether the cached quantity matches.
func (h *Handler) Audit(w http.ResponseWriter, r *http.Request, id int64) {
	item, err := h.Ledger.ItemByID(id)
	if err != nil {
		response.Err(w, "not found", 404)
		return
	}
	sum, err := h.Ledger.Reconstruct(id)
	if err != nil {
		response.Err(w, err.Error(), common.StatusFor(err))
		return
	}
	response.JSON(w, map[string]interface{}{
		"inventory_id":  id,
		"cached":        item.Quantity,
		"reconstructed": sum,
		"consistent":    item.Quantity == sum,
	})
}

type limitsRequest struct {
	MinStock int `json:"min_stock"`
	MaxStock int `json:"max_stock"`
}

// SetLimits handles PUT /api/v1/inventory/:id/limits.
func (h *Handler) SetLimits(w http.ResponseWriter, r *http.Request, id int64) {
	var req limitsRequest
	if err := response.DecodeBody(r, &req); err != nil {
		response.Err(w, "invalid body", 400)
		return
	}
	if err := h.Ledger.SetLimits(id, req.MinStock, req.MaxStock); err != nil {
		response.Err(w, err.Error(), common.StatusFor(err))
		return
	}
	item, err := h.Ledger.ItemByID(id)
	if err != nil {
		response.Err(w, err.Error(), 500)
		return
	}
	h.Hub.BroadcastChange("inventory", "update", id)
	response.JSON(w, item)
}

// Export handles GET /api/v1/inventory/export?format=csv|xlsx.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	items, err := h.Ledger.Items()
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}

	headers := []string{"Product Code", "Product Name", "Location", "Quantity", "Min Stock", "Max Stock", "Last Updated"}
	var data [][]string
	for _, i := range items {
		data = append(data, []string{
			i.ProductCode, i.ProductName, i.Location,
			fmt.Sprintf("%d", i.Quantity), fmt.Sprintf("%d", i.MinStock),
			fmt.Sprintf("%d", i.MaxStock), i.LastUpdated,
		})
	}

	if format == "xlsx" {
		common.ExportExcel(w, "Inventory", headers, data)
	} else {
		common.ExportCSV(w, "inventory.csv", headers, data)
	}
}
