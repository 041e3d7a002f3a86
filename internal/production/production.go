// Package production records completed production runs. Records are
// append-only facts; they never touch inventory balances.
package production

import (
	"database/sql"
	"fmt"
	"time"

	"facops/internal/models"
	"facops/internal/store"
)

const timeFormat = "2006-01-02 15:04:05"

type Engine struct {
	store *store.Store
}

func New(st *store.Store) *Engine {
	return &Engine{store: st}
}

// RecordRequest carries the fields for one production run.
type RecordRequest struct {
	LineID      int64
	ProductID   int64
	OperatorID  int64
	Quantity    int
	DefectCount int
	StartTime   string
	EndTime     string
	Status      string
	Notes       string
}

// Record inserts a production run. Defects cannot exceed the run quantity,
// and line, product, and operator must all exist. Status defaults to
// completed.
func (e *Engine) Record(req RecordRequest) (*models.ProductionRecord, error) {
	if req.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", store.ErrConstraint)
	}
	if req.DefectCount < 0 || req.DefectCount > req.Quantity {
		return nil, fmt.Errorf("%w: defect_count must be between 0 and quantity", store.ErrConstraint)
	}
	status := req.Status
	if status == "" {
		status = "completed"
	}
	if status != "completed" && status != "in_progress" && status != "pending" {
		return nil, fmt.Errorf("%w: unknown record status %q", store.ErrConstraint, status)
	}
	start := req.StartTime
	if start == "" {
		start = time.Now().Format(timeFormat)
	}

	res, err := e.store.DB.Exec(`INSERT INTO production_records
		(line_id, product_id, operator_id, quantity, defect_count, start_time, end_time, status, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.LineID, req.ProductID, nullID(req.OperatorID), req.Quantity, req.DefectCount,
		start, nullStr(req.EndTime), status, req.Notes)
	if err != nil {
		return nil, store.Classify(err)
	}
	id, _ := res.LastInsertId()
	return e.Get(id)
}

const selectRecord = `SELECT r.id, r.line_id, l.name, r.product_id, p.code, p.name,
	COALESCE(r.operator_id, 0), r.quantity, r.defect_count,
	COALESCE(r.start_time, ''), r.end_time, r.status, r.notes, r.created_at
	FROM production_records r
	JOIN production_lines l ON l.id = r.line_id
	JOIN products p ON p.id = r.product_id`

func (e *Engine) Get(id int64) (*models.ProductionRecord, error) {
	row := e.store.DB.QueryRow(selectRecord+" WHERE r.id = ?", id)
	rec, err := scanRecord(row)
	if err != nil {
		return nil, store.Classify(err)
	}
	return rec, nil
}

// Recent returns the latest records, newest first.
func (e *Engine) Recent(limit int) ([]models.ProductionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := e.store.DB.Query(selectRecord+" ORDER BY r.id DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Range returns records created on dates start through end inclusive, both
// in YYYY-MM-DD form.
func (e *Engine) Range(start, end string) ([]models.ProductionRecord, error) {
	rows, err := e.store.DB.Query(selectRecord+
		" WHERE date(r.created_at) >= date(?) AND date(r.created_at) <= date(?) ORDER BY r.id DESC",
		start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// ByLine returns the records for one production line, newest first.
func (e *Engine) ByLine(lineID int64, limit int) ([]models.ProductionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := e.store.DB.Query(selectRecord+" WHERE r.line_id = ? ORDER BY r.id DESC LIMIT ?",
		lineID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func nullID(id int64) sql.NullInt64 {
	if id == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: id, Valid: true}
}

func nullStr(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*models.ProductionRecord, error) {
	var rec models.ProductionRecord
	var end sql.NullString
	err := row.Scan(&rec.ID, &rec.LineID, &rec.LineName, &rec.ProductID, &rec.ProductCode,
		&rec.ProductName, &rec.OperatorID, &rec.Quantity, &rec.DefectCount,
		&rec.StartTime, &end, &rec.Status, &rec.Notes, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	if end.Valid {
		rec.EndTime = &end.String
	}
	return &rec, nil
}

func scanRecords(rows *sql.Rows) ([]models.ProductionRecord, error) {
	var out []models.ProductionRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}
