// Package workorder manages the work order lifecycle: creation with
// year-scoped order numbers and a strict status state machine.
package workorder

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"facops/internal/models"
	"facops/internal/store"
)

const timeFormat = "2006-01-02 15:04:05"

// validTransitions defines the allowed status changes. Terminal states map
// to an empty slice.
var validTransitions = map[string][]string{
	"pending":     {"in_progress", "cancelled"},
	"in_progress": {"completed", "cancelled"},
	"completed":   {},
	"cancelled":   {},
}

func isValidTransition(from, to string) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Engine creates and transitions work orders.
type Engine struct {
	store *store.Store
}

func New(st *store.Store) *Engine {
	return &Engine{store: st}
}

// CreateRequest carries the fields for a new work order. OrderNumber is
// optional; when empty a WO-<year>-NNNN number is assigned.
type CreateRequest struct {
	OrderNumber       string
	LineID            int64
	ProductID         int64
	QuantityRequested int
	Priority          string
	ScheduledStart    string
	ScheduledEnd      string
	Notes             string
	CreatedBy         string
}

// Create inserts a new work order in pending status. A duplicate order
// number fails with ErrDuplicateKey; an unknown line or product with
// ErrConstraint.
func (e *Engine) Create(req CreateRequest) (*models.WorkOrder, error) {
	if req.QuantityRequested <= 0 {
		return nil, fmt.Errorf("%w: quantity_requested must be positive", store.ErrConstraint)
	}
	priority := req.Priority
	if priority == "" {
		priority = "normal"
	}

	var id int64
	err := e.store.InTx(func(tx *sql.Tx) error {
		orderNumber := req.OrderNumber
		if orderNumber == "" {
			orderNumber = nextOrderNumber(tx)
		}
		res, err := tx.Exec(`INSERT INTO work_orders
			(order_number, line_id, product_id, quantity_requested, priority,
			 scheduled_start, scheduled_end, notes, created_by)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			orderNumber, req.LineID, req.ProductID, req.QuantityRequested, priority,
			req.ScheduledStart, req.ScheduledEnd, req.Notes, req.CreatedBy)
		if err != nil {
			return store.Classify(err)
		}
		id, _ = res.LastInsertId()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return e.Get(id)
}

// nextOrderNumber assigns the next WO-<year>-NNNN number inside the caller's
// transaction so concurrent creates cannot collide.
func nextOrderNumber(tx *sql.Tx) string {
	year := time.Now().Format("2006")
	pattern := "WO-" + year + "-%"
	var maxNum sql.NullString
	tx.QueryRow("SELECT order_number FROM work_orders WHERE order_number LIKE ? ORDER BY order_number DESC LIMIT 1",
		pattern).Scan(&maxNum)

	next := 1
	if maxNum.Valid {
		parts := strings.Split(maxNum.String, "-")
		if len(parts) >= 3 {
			if n, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
				next = n + 1
			}
		}
	}
	return fmt.Sprintf("WO-%s-%04d", year, next)
}

// Transition moves a work order to a new status. Moving to in_progress
// stamps actual_start; completing stamps actual_end. A non-nil
// quantityProduced is written on any legal transition; when nil the stored
// value is left untouched. Terminal states accept no further transitions.
func (e *Engine) Transition(id int64, newStatus string, quantityProduced *int) (*models.WorkOrder, error) {
	if _, ok := validTransitions[newStatus]; !ok {
		return nil, fmt.Errorf("%w: unknown status %q", store.ErrInvalidTransition, newStatus)
	}

	err := e.store.InTx(func(tx *sql.Tx) error {
		var current string
		var requested int
		err := tx.QueryRow("SELECT status, quantity_requested FROM work_orders WHERE id = ?", id).
			Scan(&current, &requested)
		if err == sql.ErrNoRows {
			return store.ErrNotFound
		}
		if err != nil {
			return err
		}
		if !isValidTransition(current, newStatus) {
			return fmt.Errorf("%w: %s -> %s", store.ErrInvalidTransition, current, newStatus)
		}
		if quantityProduced != nil && (*quantityProduced < 0 || *quantityProduced > requested) {
			return fmt.Errorf("%w: quantity_produced must be between 0 and %d",
				store.ErrConstraint, requested)
		}

		now := time.Now().Format(timeFormat)
		set := "status = ?"
		args := []interface{}{newStatus}
		switch newStatus {
		case "in_progress":
			set += ", actual_start = ?"
			args = append(args, now)
		case "completed":
			set += ", actual_end = ?"
			args = append(args, now)
		}
		if quantityProduced != nil {
			set += ", quantity_produced = ?"
			args = append(args, *quantityProduced)
		}
		args = append(args, id)
		_, err = tx.Exec("UPDATE work_orders SET "+set+" WHERE id = ?", args...)
		return store.Classify(err)
	})
	if err != nil {
		return nil, err
	}
	return e.Get(id)
}

const selectOrder = `SELECT w.id, w.order_number, w.line_id, l.name, w.product_id, p.code, p.name,
	w.quantity_requested, w.quantity_produced, w.priority, w.status,
	COALESCE(w.scheduled_start, ''), COALESCE(w.scheduled_end, ''),
	w.actual_start, w.actual_end, w.notes, w.created_by, w.created_at
	FROM work_orders w
	JOIN production_lines l ON l.id = w.line_id
	JOIN products p ON p.id = w.product_id`

// Get returns one work order with line and product details joined in.
func (e *Engine) Get(id int64) (*models.WorkOrder, error) {
	row := e.store.DB.QueryRow(selectOrder+" WHERE w.id = ?", id)
	wo, err := scanOrder(row)
	if err != nil {
		return nil, store.Classify(err)
	}
	return wo, nil
}

// List returns work orders, optionally filtered by status, newest first.
func (e *Engine) List(status string) ([]models.WorkOrder, error) {
	query := selectOrder
	var args []interface{}
	if status != "" {
		if _, ok := validTransitions[status]; !ok {
			return nil, fmt.Errorf("%w: unknown status %q", store.ErrConstraint, status)
		}
		query += " WHERE w.status = ?"
		args = append(args, status)
	}
	query += " ORDER BY w.id DESC"

	rows, err := e.store.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.WorkOrder
	for rows.Next() {
		wo, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *wo)
	}
	return out, rows.Err()
}

// Active counts orders still in flight (pending or in_progress).
func (e *Engine) Active() (int, error) {
	var n int
	err := e.store.DB.QueryRow(
		"SELECT COUNT(*) FROM work_orders WHERE status IN ('pending', 'in_progress')").Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*models.WorkOrder, error) {
	var wo models.WorkOrder
	var actualStart, actualEnd sql.NullString
	err := row.Scan(&wo.ID, &wo.OrderNumber, &wo.LineID, &wo.LineName,
		&wo.ProductID, &wo.ProductCode, &wo.ProductName,
		&wo.QuantityRequested, &wo.QuantityProduced, &wo.Priority, &wo.Status,
		&wo.ScheduledStart, &wo.ScheduledEnd,
		&actualStart, &actualEnd, &wo.Notes, &wo.CreatedBy, &wo.CreatedAt)
	if err != nil {
		return nil, err
	}
	if actualStart.Valid {
		wo.ActualStart = &actualStart.String
	}
	if actualEnd.Valid {
		wo.ActualEnd = &actualEnd.String
	}
	return &wo, nil
}
