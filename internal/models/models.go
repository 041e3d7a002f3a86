package models

// APIResponse is the standard JSON envelope for all API responses.
type APIResponse struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta,omitempty"`
}

// Meta contains pagination metadata.
type Meta struct {
	Total int `json:"total,omitempty"`
	Page  int `json:"page,omitempty"`
	Limit int `json:"limit,omitempty"`
}

// Product is a manufactured item. Code is its immutable identity.
type Product struct {
	ID              int64  `json:"id"`
	Code            string `json:"code"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Unit            string `json:"unit"`
	TargetCycleTime int    `json:"target_cycle_time"`
	Active          bool   `json:"active"`
	CreatedAt       string `json:"created_at"`
}

type ProductionLine struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Status          string `json:"status"`
	CapacityPerHour int    `json:"capacity_per_hour"`
	CreatedAt       string `json:"created_at"`
}

// InventoryItem is one stock position per (product, location). Quantity is
// the cached ledger balance; it is only ever written together with a movement.
type InventoryItem struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"product_id"`
	ProductCode string `json:"product_code,omitempty"`
	ProductName string `json:"product_name,omitempty"`
	Location    string `json:"location"`
	Quantity    int    `json:"quantity"`
	MinStock    int    `json:"min_stock"`
	MaxStock    int    `json:"max_stock"`
	LastUpdated string `json:"last_updated"`
}

// InventoryMovement is one signed, immutable stock change event.
type InventoryMovement struct {
	ID            int64  `json:"id"`
	InventoryID   int64  `json:"inventory_id"`
	MovementType  string `json:"movement_type"`
	Quantity      int    `json:"quantity"`
	ReferenceType string `json:"reference_type"`
	ReferenceID   int64  `json:"reference_id,omitempty"`
	Notes         string `json:"notes"`
	CreatedBy     string `json:"created_by"`
	CreatedAt     string `json:"created_at"`
}

type ProductionRecord struct {
	ID          int64   `json:"id"`
	LineID      int64   `json:"line_id"`
	LineName    string  `json:"line_name,omitempty"`
	ProductID   int64   `json:"product_id"`
	ProductCode string  `json:"product_code,omitempty"`
	ProductName string  `json:"product_name,omitempty"`
	OperatorID  int64   `json:"operator_id"`
	Quantity    int     `json:"quantity"`
	DefectCount int     `json:"defect_count"`
	StartTime   string  `json:"start_time"`
	EndTime     *string `json:"end_time"`
	Status      string  `json:"status"`
	Notes       string  `json:"notes"`
	CreatedAt   string  `json:"created_at"`
}

type WorkOrder struct {
	ID                int64   `json:"id"`
	OrderNumber       string  `json:"order_number"`
	LineID            int64   `json:"line_id"`
	LineName          string  `json:"line_name,omitempty"`
	ProductID         int64   `json:"product_id"`
	ProductCode       string  `json:"product_code,omitempty"`
	ProductName       string  `json:"product_name,omitempty"`
	QuantityRequested int     `json:"quantity_requested"`
	QuantityProduced  int     `json:"quantity_produced"`
	Priority          string  `json:"priority"`
	Status            string  `json:"status"`
	ScheduledStart    string  `json:"scheduled_start"`
	ScheduledEnd      string  `json:"scheduled_end"`
	ActualStart       *string `json:"actual_start"`
	ActualEnd         *string `json:"actual_end"`
	Notes             string  `json:"notes"`
	CreatedBy         string  `json:"created_by"`
	CreatedAt         string  `json:"created_at"`
}

type MaintenanceRecord struct {
	ID          int64   `json:"id"`
	LineID      int64   `json:"line_id"`
	LineName    string  `json:"line_name,omitempty"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	StartTime   string  `json:"start_time"`
	EndTime     *string `json:"end_time"`
	Technician  string  `json:"technician"`
	Cost        float64 `json:"cost"`
	Status      string  `json:"status"`
	Notes       string  `json:"notes"`
	CreatedAt   string  `json:"created_at"`
}

type User struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	FullName  string  `json:"full_name"`
	Role      string  `json:"role"`
	Active    bool    `json:"active"`
	LastLogin *string `json:"last_login"`
	CreatedAt string  `json:"created_at"`
}

// DailyStats are the derived production metrics for one calendar date.
// All four values are recomputed from the record tables on every call.
type DailyStats struct {
	Date          string  `json:"date"`
	TotalProduced int     `json:"total_produced"`
	TotalDefects  int     `json:"total_defects"`
	Efficiency    float64 `json:"efficiency"`
	DefectRate    float64 `json:"defect_rate"`
	ActiveOrders  int     `json:"active_orders"`
}
