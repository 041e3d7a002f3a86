// Package catalog manages the master data: products and production lines.
package catalog

import (
	"fmt"

	"facops/internal/models"
	"facops/internal/store"
)

var validLineStatuses = map[string]bool{
	"active":      true,
	"maintenance": true,
	"inactive":    true,
}

type Engine struct {
	store *store.Store
}

func New(st *store.Store) *Engine {
	return &Engine{store: st}
}

// CreateProduct inserts a product. Code is the unique business key; a
// duplicate fails with ErrDuplicateKey.
func (e *Engine) CreateProduct(p models.Product) (*models.Product, error) {
	if p.Code == "" || p.Name == "" {
		return nil, fmt.Errorf("%w: code and name are required", store.ErrConstraint)
	}
	unit := p.Unit
	if unit == "" {
		unit = "units"
	}
	res, err := e.store.DB.Exec(
		"INSERT INTO products (code, name, description, unit, target_cycle_time) VALUES (?, ?, ?, ?, ?)",
		p.Code, p.Name, p.Description, unit, p.TargetCycleTime)
	if err != nil {
		return nil, store.Classify(err)
	}
	id, _ := res.LastInsertId()
	return e.Product(id)
}

// UpdateProduct changes a product's mutable fields. Code is immutable.
func (e *Engine) UpdateProduct(p models.Product) error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", store.ErrConstraint)
	}
	res, err := e.store.DB.Exec(
		"UPDATE products SET name = ?, description = ?, unit = ?, target_cycle_time = ?, active = ? WHERE id = ?",
		p.Name, p.Description, p.Unit, p.TargetCycleTime, p.Active, p.ID)
	if err != nil {
		return store.Classify(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (e *Engine) Product(id int64) (*models.Product, error) {
	var p models.Product
	err := e.store.DB.QueryRow(
		"SELECT id, code, name, description, unit, target_cycle_time, active, created_at FROM products WHERE id = ?",
		id).Scan(&p.ID, &p.Code, &p.Name, &p.Description, &p.Unit, &p.TargetCycleTime, &p.Active, &p.CreatedAt)
	if err != nil {
		return nil, store.Classify(err)
	}
	return &p, nil
}

func (e *Engine) ProductByCode(code string) (*models.Product, error) {
	var p models.Product
	err := e.store.DB.QueryRow(
		"SELECT id, code, name, description, unit, target_cycle_time, active, created_at FROM products WHERE code = ?",
		code).Scan(&p.ID, &p.Code, &p.Name, &p.Description, &p.Unit, &p.TargetCycleTime, &p.Active, &p.CreatedAt)
	if err != nil {
		return nil, store.Classify(err)
	}
	return &p, nil
}

// Products lists products by code. Set activeOnly to hide retired ones.
func (e *Engine) Products(activeOnly bool) ([]models.Product, error) {
	query := "SELECT id, code, name, description, unit, target_cycle_time, active, created_at FROM products"
	if activeOnly {
		query += " WHERE active = 1"
	}
	query += " ORDER BY code"

	rows, err := e.store.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.Description, &p.Unit,
			&p.TargetCycleTime, &p.Active, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CreateLine inserts a production line in active status.
func (e *Engine) CreateLine(l models.ProductionLine) (*models.ProductionLine, error) {
	if l.Name == "" {
		return nil, fmt.Errorf("%w: name is required", store.ErrConstraint)
	}
	if l.CapacityPerHour < 0 {
		return nil, fmt.Errorf("%w: capacity must not be negative", store.ErrConstraint)
	}
	res, err := e.store.DB.Exec(
		"INSERT INTO production_lines (name, description, capacity_per_hour) VALUES (?, ?, ?)",
		l.Name, l.Description, l.CapacityPerHour)
	if err != nil {
		return nil, store.Classify(err)
	}
	id, _ := res.LastInsertId()
	return e.Line(id)
}

// SetLineStatus flips a line between active, maintenance, and inactive.
func (e *Engine) SetLineStatus(id int64, status string) error {
	if !validLineStatuses[status] {
		return fmt.Errorf("%w: unknown line status %q", store.ErrConstraint, status)
	}
	res, err := e.store.DB.Exec("UPDATE production_lines SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return store.Classify(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (e *Engine) Line(id int64) (*models.ProductionLine, error) {
	var l models.ProductionLine
	err := e.store.DB.QueryRow(
		"SELECT id, name, description, status, capacity_per_hour, created_at FROM production_lines WHERE id = ?",
		id).Scan(&l.ID, &l.Name, &l.Description, &l.Status, &l.CapacityPerHour, &l.CreatedAt)
	if err != nil {
		return nil, store.Classify(err)
	}
	return &l, nil
}

func (e *Engine) Lines() ([]models.ProductionLine, error) {
	rows, err := e.store.DB.Query(
		"SELECT id, name, description, status, capacity_per_hour, created_at FROM production_lines ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ProductionLine
	for rows.Next() {
		var l models.ProductionLine
		if err := rows.Scan(&l.ID, &l.Name, &l.Description, &l.Status, &l.CapacityPerHour, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
