// Package ledger owns all inventory stock levels. Every quantity change goes
// through Apply, which writes the movement row and the cached balance in one
// transaction. Nothing else in the codebase writes inventory.quantity.
package ledger

import (
	"database/sql"
	"fmt"
	"time"

	"facops/internal/models"
	"facops/internal/store"
)

const timeFormat = "2006-01-02 15:04:05"

// Engine applies and queries inventory movements.
type Engine struct {
	store *store.Store
}

func New(st *store.Store) *Engine {
	return &Engine{store: st}
}

// Movement is a requested stock change. Delta is signed: positive receives
// stock, negative issues it. MovementType must be one of in, out,
// adjustment, transfer.
type Movement struct {
	Delta         int
	MovementType  string
	ReferenceType string
	ReferenceID   int64
	Notes         string
	CreatedBy     string
}

func (m Movement) validate() error {
	if m.MovementType != "in" && m.MovementType != "out" &&
		m.MovementType != "adjustment" && m.MovementType != "transfer" {
		return fmt.Errorf("%w: unknown movement type %q", store.ErrConstraint, m.MovementType)
	}
	if m.Delta == 0 {
		return fmt.Errorf("%w: movement delta must be non-zero", store.ErrConstraint)
	}
	return nil
}

// Apply records a movement against an existing stock position. The movement
// row and the balance update commit together or not at all. An unknown
// position fails with ErrNotFound; a delta that would take the balance
// negative fails with ErrConstraint and leaves no movement row behind.
func (e *Engine) Apply(itemID int64, m Movement) (*models.InventoryItem, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	err := e.store.InTx(func(tx *sql.Tx) error {
		var current int
		err := tx.QueryRow("SELECT quantity FROM inventory WHERE id = ?", itemID).Scan(&current)
		if err == sql.ErrNoRows {
			return store.ErrNotFound
		}
		if err != nil {
			return err
		}
		return applyTx(tx, itemID, m)
	})
	if err != nil {
		return nil, err
	}
	return e.ItemByID(itemID)
}

// ApplyAt records a movement against the (product, location) stock position,
// creating the position on first use with a zero baseline. Atomicity is the
// same as Apply.
func (e *Engine) ApplyAt(productID int64, location string, m Movement) (*models.InventoryItem, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	var itemID int64
	err := e.store.InTx(func(tx *sql.Tx) error {
		err := tx.QueryRow("SELECT id FROM inventory WHERE product_id = ? AND location = ?",
			productID, location).Scan(&itemID)
		if err == sql.ErrNoRows {
			res, ierr := tx.Exec("INSERT INTO inventory (product_id, location, quantity) VALUES (?, ?, 0)",
				productID, location)
			if ierr != nil {
				return store.Classify(ierr)
			}
			itemID, _ = res.LastInsertId()
		} else if err != nil {
			return err
		}
		return applyTx(tx, itemID, m)
	})
	if err != nil {
		return nil, err
	}
	return e.ItemByID(itemID)
}

// applyTx writes the balance update and the movement row inside the
// caller's transaction.
func applyTx(tx *sql.Tx, itemID int64, m Movement) error {
	now := time.Now().Format(timeFormat)
	if _, err := tx.Exec("UPDATE inventory SET quantity = quantity + ?, last_updated = ? WHERE id = ?",
		m.Delta, now, itemID); err != nil {
		return store.Classify(err)
	}
	if _, err := tx.Exec(`INSERT INTO inventory_movements
		(inventory_id, movement_type, quantity, reference_type, reference_id, notes, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		itemID, m.MovementType, m.Delta, m.ReferenceType, nullID(m.ReferenceID), m.Notes, m.CreatedBy, now); err != nil {
		return store.Classify(err)
	}
	return nil
}

// ItemByID returns one stock position with its product details joined in.
func (e *Engine) ItemByID(id int64) (*models.InventoryItem, error) {
	row := e.store.DB.QueryRow(`SELECT i.id, i.product_id, p.code, p.name, i.location,
		i.quantity, i.min_stock, i.max_stock, i.last_updated
		FROM inventory i JOIN products p ON p.id = i.product_id
		WHERE i.id = ?`, id)
	return scanItem(row)
}

// Item returns the stock position for a (product, location) pair.
func (e *Engine) Item(productID int64, location string) (*models.InventoryItem, error) {
	row := e.store.DB.QueryRow(`SELECT i.id, i.product_id, p.code, p.name, i.location,
		i.quantity, i.min_stock, i.max_stock, i.last_updated
		FROM inventory i JOIN products p ON p.id = i.product_id
		WHERE i.product_id = ? AND i.location = ?`, productID, location)
	return scanItem(row)
}

// Items returns all stock positions ordered by product code then location.
func (e *Engine) Items() ([]models.InventoryItem, error) {
	rows, err := e.store.DB.Query(`SELECT i.id, i.product_id, p.code, p.name, i.location,
		i.quantity, i.min_stock, i.max_stock, i.last_updated
		FROM inventory i JOIN products p ON p.id = i.product_id
		ORDER BY p.code, i.location`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

// LowStock returns positions at or below their minimum stock level.
func (e *Engine) LowStock() ([]models.InventoryItem, error) {
	rows, err := e.store.DB.Query(`SELECT i.id, i.product_id, p.code, p.name, i.location,
		i.quantity, i.min_stock, i.max_stock, i.last_updated
		FROM inventory i JOIN products p ON p.id = i.product_id
		WHERE i.quantity <= i.min_stock
		ORDER BY p.code, i.location`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

// SetLimits updates the min/max thresholds of a stock position. Thresholds
// are advisory and never block movements.
func (e *Engine) SetLimits(id int64, minStock, maxStock int) error {
	if minStock < 0 || maxStock < 0 || maxStock < minStock {
		return fmt.Errorf("%w: invalid stock limits", store.ErrConstraint)
	}
	res, err := e.store.DB.Exec("UPDATE inventory SET min_stock = ?, max_stock = ? WHERE id = ?",
		minStock, maxStock, id)
	if err != nil {
		return store.Classify(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Movements returns the movement history of a stock position, newest first.
func (e *Engine) Movements(inventoryID int64, limit int) ([]models.InventoryMovement, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := e.store.DB.Query(`SELECT id, inventory_id, movement_type, quantity,
		reference_type, reference_id, notes, created_by, created_at
		FROM inventory_movements WHERE inventory_id = ?
		ORDER BY id DESC LIMIT ?`, inventoryID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.InventoryMovement
	for rows.Next() {
		var m models.InventoryMovement
		var refID sql.NullInt64
		if err := rows.Scan(&m.ID, &m.InventoryID, &m.MovementType, &m.Quantity,
			&m.ReferenceType, &refID, &m.Notes, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.ReferenceID = refID.Int64
		out = append(out, m)
	}
	return out, rows.Err()
}

// Reconstruct recomputes a position's quantity as its baseline plus the sum
// of its movement history. The result must equal the cached quantity; a
// mismatch means the ledger was bypassed.
func (e *Engine) Reconstruct(inventoryID int64) (int, error) {
	var baseline int
	err := e.store.DB.QueryRow("SELECT baseline FROM inventory WHERE id = ?", inventoryID).Scan(&baseline)
	if err == sql.ErrNoRows {
		return 0, store.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	var total int
	err = e.store.DB.QueryRow(
		"SELECT COALESCE(SUM(quantity), 0) FROM inventory_movements WHERE inventory_id = ?",
		inventoryID).Scan(&total)
	return baseline + total, err
}

func nullID(id int64) sql.NullInt64 {
	if id == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: id, Valid: true}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (*models.InventoryItem, error) {
	var it models.InventoryItem
	err := row.Scan(&it.ID, &it.ProductID, &it.ProductCode, &it.ProductName,
		&it.Location, &it.Quantity, &it.MinStock, &it.MaxStock, &it.LastUpdated)
	if err != nil {
		return nil, store.Classify(err)
	}
	return &it, nil
}

func scanItems(rows *sql.Rows) ([]models.InventoryItem, error) {
	var out []models.InventoryItem
	for rows.Next() {
		var it models.InventoryItem
		if err := rows.Scan(&it.ID, &it.ProductID, &it.ProductCode, &it.ProductName,
			&it.Location, &it.Quantity, &it.MinStock, &it.MaxStock, &it.LastUpdated); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
