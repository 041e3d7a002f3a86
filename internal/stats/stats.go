// Package stats derives production metrics on demand. Nothing here is
// cached or stored; every call recomputes from the record tables, so the
// numbers are idempotent for unchanged data.
package stats

import (
	"facops/internal/models"
	"facops/internal/store"
)

type Engine struct {
	store *store.Store
}

func New(st *store.Store) *Engine {
	return &Engine{store: st}
}

// ForDate computes the daily metrics for one calendar date (YYYY-MM-DD).
// Efficiency is the good-unit share of total output, defect rate the
// defective share, both as percentages. A day with no production reports
// zeroes rather than dividing by zero.
func (e *Engine) ForDate(date string) (*models.DailyStats, error) {
	s := &models.DailyStats{Date: date}

	err := e.store.DB.QueryRow(`SELECT COALESCE(SUM(quantity), 0), COALESCE(SUM(defect_count), 0)
		FROM production_records WHERE date(created_at) = date(?)`, date).
		Scan(&s.TotalProduced, &s.TotalDefects)
	if err != nil {
		return nil, err
	}

	if s.TotalProduced > 0 {
		s.Efficiency = float64(s.TotalProduced-s.TotalDefects) / float64(s.TotalProduced) * 100
		s.DefectRate = float64(s.TotalDefects) / float64(s.TotalProduced) * 100
	}

	err = e.store.DB.QueryRow(
		"SELECT COUNT(*) FROM work_orders WHERE status IN ('pending', 'in_progress')").
		Scan(&s.ActiveOrders)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// LineSummary aggregates output per production line for one date.
type LineSummary struct {
	LineID        int64   `json:"line_id"`
	LineName      string  `json:"line_name"`
	TotalProduced int     `json:"total_produced"`
	TotalDefects  int     `json:"total_defects"`
	Efficiency    float64 `json:"efficiency"`
}

// ByLine breaks the date's output down per line. Lines with no records that
// day are omitted.
func (e *Engine) ByLine(date string) ([]LineSummary, error) {
	rows, err := e.store.DB.Query(`SELECT r.line_id, l.name,
		COALESCE(SUM(r.quantity), 0), COALESCE(SUM(r.defect_count), 0)
		FROM production_records r
		JOIN production_lines l ON l.id = r.line_id
		WHERE date(r.created_at) = date(?)
		GROUP BY r.line_id, l.name
		ORDER BY l.name`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LineSummary
	for rows.Next() {
		var s LineSummary
		if err := rows.Scan(&s.LineID, &s.LineName, &s.TotalProduced, &s.TotalDefects); err != nil {
			return nil, err
		}
		if s.TotalProduced > 0 {
			s.Efficiency = float64(s.TotalProduced-s.TotalDefects) / float64(s.TotalProduced) * 100
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
