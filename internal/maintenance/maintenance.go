// Package maintenance tracks maintenance work against production lines.
package maintenance

import (
	"database/sql"
	"fmt"
	"time"

	"facops/internal/models"
	"facops/internal/store"
)

const timeFormat = "2006-01-02 15:04:05"

var validTypes = map[string]bool{
	"preventive": true,
	"corrective": true,
	"predictive": true,
}

type Engine struct {
	store *store.Store
}

func New(st *store.Store) *Engine {
	return &Engine{store: st}
}

type LogRequest struct {
	LineID      int64
	Type        string
	Description string
	StartTime   string
	Technician  string
	Cost        float64
	Notes       string
}

// Log opens a maintenance record in scheduled status.
func (e *Engine) Log(req LogRequest) (*models.MaintenanceRecord, error) {
	if !validTypes[req.Type] {
		return nil, fmt.Errorf("%w: unknown maintenance type %q", store.ErrConstraint, req.Type)
	}
	if req.Description == "" {
		return nil, fmt.Errorf("%w: description is required", store.ErrConstraint)
	}
	start := req.StartTime
	if start == "" {
		start = time.Now().Format(timeFormat)
	}

	res, err := e.store.DB.Exec(`INSERT INTO maintenance_records
		(line_id, maintenance_type, description, start_time, technician, cost, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		req.LineID, req.Type, req.Description, start, req.Technician, req.Cost, req.Notes)
	if err != nil {
		return nil, store.Classify(err)
	}
	id, _ := res.LastInsertId()
	return e.Get(id)
}

// Complete closes a record, stamping end_time and the final cost.
func (e *Engine) Complete(id int64, cost float64) (*models.MaintenanceRecord, error) {
	if cost < 0 {
		return nil, fmt.Errorf("%w: cost must not be negative", store.ErrConstraint)
	}
	now := time.Now().Format(timeFormat)
	res, err := e.store.DB.Exec(
		"UPDATE maintenance_records SET status = 'completed', end_time = ?, cost = ? WHERE id = ? AND status != 'completed'",
		now, cost, id)
	if err != nil {
		return nil, store.Classify(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, store.ErrNotFound
	}
	return e.Get(id)
}

const selectRecord = `SELECT m.id, m.line_id, l.name, m.maintenance_type, m.description,
	COALESCE(m.start_time, ''), m.end_time, m.technician, m.cost, m.status, m.notes, m.created_at
	FROM maintenance_records m
	JOIN production_lines l ON l.id = m.line_id`

func (e *Engine) Get(id int64) (*models.MaintenanceRecord, error) {
	row := e.store.DB.QueryRow(selectRecord+" WHERE m.id = ?", id)
	rec, err := scanRecord(row)
	if err != nil {
		return nil, store.Classify(err)
	}
	return rec, nil
}

// ByLine returns a line's maintenance history, newest first.
func (e *Engine) ByLine(lineID int64) ([]models.MaintenanceRecord, error) {
	rows, err := e.store.DB.Query(selectRecord+" WHERE m.line_id = ? ORDER BY m.id DESC", lineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Open returns records not yet completed or cancelled.
func (e *Engine) Open() ([]models.MaintenanceRecord, error) {
	rows, err := e.store.DB.Query(selectRecord +
		" WHERE m.status IN ('scheduled', 'in_progress') ORDER BY m.id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*models.MaintenanceRecord, error) {
	var rec models.MaintenanceRecord
	var end sql.NullString
	err := row.Scan(&rec.ID, &rec.LineID, &rec.LineName, &rec.Type, &rec.Description,
		&rec.StartTime, &end, &rec.Technician, &rec.Cost, &rec.Status, &rec.Notes, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	if end.Valid {
		rec.EndTime = &end.String
	}
	return &rec, nil
}

func scanRecords(rows *sql.Rows) ([]models.MaintenanceRecord, error) {
	var out []models.MaintenanceRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}
