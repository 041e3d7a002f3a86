// Package admin serves master data and maintenance endpoints.
package admin

import (
	"net/http"
	"path/filepath"

	"facops/internal/auth"
	"facops/internal/catalog"
	"facops/internal/handlers/common"
	"facops/internal/maintenance"
	"facops/internal/models"
	"facops/internal/response"
	"facops/internal/store"
	"facops/internal/validation"
	"facops/internal/websocket"
)

// Handler holds dependencies for admin handlers.
type Handler struct {
	Catalog     *catalog.Engine
	Maintenance *maintenance.Engine
	Auth        *auth.Service
	Store       *store.Store
	BackupDir   string
	Hub         *websocket.Hub
}

func (h *Handler) backupDir() string {
	if h.BackupDir == "" {
		return "backups"
	}
	return h.BackupDir
}

// CreateBackup handles POST /api/v1/admin/backup.
func (h *Handler) CreateBackup(w http.ResponseWriter, r *http.Request) {
	path, err := h.Store.Backup(h.backupDir())
	if err != nil {
		response.Err(w, err.Error(), 500)
		return
	}
	response.JSON(w, map[string]string{"filename": filepath.Base(path)})
}

// ListBackups handles GET /api/v1/admin/backups.
func (h *Handler) ListBackups(w http.ResponseWriter, r *http.Request) {
	backups, err := h.Store.Backups(h.backupDir())
	if err != nil {
		response.Err(w, err.Error(), 500)
		return
	}
	response.JSON(w, backups)
}

// DatabaseInfo handles GET /api/v1/admin/database.
func (h *Handler) DatabaseInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.Store.Info()
	if err != nil {
		response.Err(w, err.Error(), 500)
		return
	}
	response.JSON(w, info)
}

// ListProducts handles GET /api/v1/products?active=true.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Catalog.Products(r.URL.Query().Get("active") == "true")
	if err != nil {
		response.Err(w, err.Error(), 500)
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	response.JSON(w, products)
}

// CreateProduct handles POST /api/v1/products.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var p models.Product
	if err := response.DecodeBody(r, &p); err != nil {
		response.Err(w, "invalid body", 400)
		return
	}

	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "code", p.Code)
	validation.RequireField(ve, "name", p.Name)
	validation.ValidateNonNegativeInt(ve, "target_cycle_time", p.TargetCycleTime)
	if ve.HasErrors() {
		response.Err(w, ve.Error(), 400)
		return
	}

	created, err := h.Catalog.CreateProduct(p)
	if err != nil {
		response.Err(w, err.Error(), common.StatusFor(err))
		return
	}
	h.Hub.BroadcastChange("product", "create", created.ID)
	response.JSON(w, created)
}

// UpdateProduct handles PUT /api/v1/products/:id.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request, id int64) {
	var p models.Product
	if err := response.DecodeBody(r, &p); err != nil {
		response.Err(w, "invalid body", 400)
		return
	}
	p.ID = id
	if err := h.Catalog.UpdateProduct(p); err != nil {
		response.Err(w, err.Error(), common.StatusFor(err))
		return
	}
	updated, err := h.Catalog.Product(id)
	if err != nil {
		response.Err(w, err.Error(), 500)
		return
	}
	h.Hub.BroadcastChange("product", "update", id)
	response.JSON(w, updated)
}

// ListLines handles GET /api/v1/lines.
func (h *Handler) ListLines(w http.ResponseWriter, r *http.Request) {
	lines, err := h.Catalog.Lines()
	if err != nil {
		response.Err(w, err.Error(), 500)
		return
	}
	if lines == nil {
		lines = []models.ProductionLine{}
	}
	response.JSON(w, lines)
}

// CreateLine handles POST /api/v1/lines.
func (h *Handler) CreateLine(w http.ResponseWriter, r *http.Request) {
	var l models.ProductionLine
	if err := response.DecodeBody(r, &l); err != nil {
		response.Err(w, "invalid body", 400)
		return
	}

	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "name", l.Name)
	validation.ValidateNonNegativeInt(ve, "capacity_per_hour", l.CapacityPerHour)
	if ve.HasErrors() {
		response.Err(w, ve.Error(), 400)
		return
	}

	created, err := h.Catalog.CreateLine(l)
	if err != nil {
		response.Err(w, err.Error(), common.StatusFor(err))
		return
	}
	h.Hub.BroadcastChange("line", "create", created.ID)
	response.JSON(w, created)
}

type lineStatusRequest struct {
	Status string `json:"status"`
}

// SetLineStatus handles PUT /api/v1/lines/:id/status.
func (h *Handler) SetLineStatus(w http.ResponseWriter, r *http.Request, id int64) {
	var req lineStatusRequest
	if err := response.DecodeBody(r, &req); err != nil {
		response.Err(w, "invalid body", 400)
		return
	}

	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "status", req.Status)
	validation.ValidateEnum(ve, "status", req.Status, validation.LineStatuses)
	if ve.HasErrors() {
		response.Err(w, ve.Error(), 400)
		return
	}

	if err := h.Catalog.SetLineStatus(id, req.Status); err != nil {
		response.Err(w, err.Error(), common.StatusFor(err))
		return
	}
	line, err := h.Catalog.Line(id)
	if err != nil {
		response.Err(w, err.Error(), 500)
		return
	}
	h.Hub.BroadcastChange("line", "update", id)
	response.JSON(w, line)
}

type maintenanceRequest struct {
	LineID      int64   `json:"line_id"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	StartTime   string  `json:"start_time"`
	Technician  string  `json:"technician"`
	Cost        float64 `json:"cost"`
	Notes       string  `json:"notes"`
}

// LogMaintenance handles POST /api/v1/maintenance.
func (h *Handler) LogMaintenance(w http.ResponseWriter, r *http.Request) {
	var req maintenanceRequest
	if err := response.DecodeBody(r, &req); err != nil {
		response.Err(w, "invalid body", 400)
		return
	}

	ve := &validation.ValidationErrors{}
	if req.LineID <= 0 {
		ve.Add("line_id", "is required")
	}
	validation.RequireField(ve, "type", req.Type)
	validation.ValidateEnum(ve, "type", req.Type, validation.MaintenanceTypes)
	validation.RequireField(ve, "description", req.Description)
	if ve.HasErrors() {
		response.Err(w, ve.Error(), 400)
		return
	}

	rec, err := h.Maintenance.Log(maintenance.LogRequest{
		LineID:      req.LineID,
		Type:        req.Type,
		Description: req.Description,
		StartTime:   req.StartTime,
		Technician:  req.Technician,
		Cost:        req.Cost,
		Notes:       req.Notes,
	})
	if err != nil {
		response.Err(w, err.Error(), common.StatusFor(err))
		return
	}
	h.Hub.BroadcastChange("maintenance", "create", rec.ID)
	response.JSON(w, rec)
}

// ListMaintenance handles GET /api/v1/maintenance. ?line_id= filters to one
// line; the default is open records only.
func (h *Handler) ListMaintenance(w http.ResponseWriter, r *http.Request, lineID int64) {
	var recs []models.MaintenanceRecord
	var err error
	if lineID > 0 {
		recs, err = h.Maintenance.ByLine(lineID)
	} else {
		recs, err = h.Maintenance.Open()
	}
	if err != nil {
		response.Err(w, err.Error(), 500)
		return
	}
	if recs == nil {
		recs = []models.MaintenanceRecord{}
	}
	response.JSON(w, recs)
}

// ListUsers handles GET /api/v1/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Auth.Users()
	if err != nil {
		response.Err(w, err.Error(), 500)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	response.JSON(w, users)
}

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// CreateUser handles POST /api/v1/users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := response.DecodeBody(r, &req); err != nil {
		response.Err(w, "invalid body", 400)
		return
	}

	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "username", req.Username)
	validation.RequireField(ve, "password", req.Password)
	validation.RequireField(ve, "role", req.Role)
	validation.ValidateEnum(ve, "role", req.Role, validation.Roles)
	if ve.HasErrors() {
		response.Err(w, ve.Error(), 400)
		return
	}

	user, err := h.Auth.CreateUser(req.Username, req.Password, req.FullName, req.Role)
	if err != nil {
		response.Err(w, err.Error(), common.StatusFor(err))
		return
	}
	response.JSON(w, user)
}

type completeMaintenanceRequest struct {
	Cost float64 `json:"cost"`
}

// CompleteMaintenance handles POST /api/v1/maintenance/:id/complete.
func (h *Handler) CompleteMaintenance(w http.ResponseWriter, r *http.Request, id int64) {
	var req completeMaintenanceRequest
	if err := response.DecodeBody(r, &req); err != nil {
		response.Err(w, "invalid body", 400)
		return
	}
	rec, err := h.Maintenance.Complete(id, req.Cost)
	if err != nil {
		response.Err(w, err.Error(), common.StatusFor(err))
		return
	}
	h.Hub.BroadcastChange("maintenance", "update", id)
	response.JSON(w, rec)
}
