package store

import (
	"log"

	"golang.org/x/crypto/bcrypt"
)

// Seed inserts the default admin user and a small set of lines and products
// so a fresh install is usable immediately. Each block is guarded by a count
// check and safe to run on every startup.
func (s *Store) Seed() {
	// Always ensure admin user exists
	var userCount int
	s.DB.QueryRow("SELECT COUNT(*) FROM users WHERE username = 'admin'").Scan(&userCount)
	if userCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("changeme"), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Failed to hash admin password: %v", err)
		} else {
			s.DB.Exec("INSERT INTO users (username, password_hash, full_name, role) VALUES (?, ?, ?, ?)",
				"admin", string(hash), "Administrator", "admin")
		}
	}

	var opCount int
	s.DB.QueryRow("SELECT COUNT(*) FROM users WHERE username = 'operator'").Scan(&opCount)
	if opCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("changeme"), bcrypt.DefaultCost)
		if err == nil {
			s.DB.Exec("INSERT INTO users (username, password_hash, full_name, role, active) VALUES (?, ?, ?, ?, 1)",
				"operator", string(hash), "Line Operator", "operator")
		}
	}

	// Check if domain data already seeded
	var count int
	s.DB.QueryRow("SELECT COUNT(*) FROM production_lines").Scan(&count)
	if count > 0 {
		return
	}

	lines := []struct {
		name, desc string
		capacity   int
	}{
		{"Assembly Line A", "Primary assembly line", 120},
		{"Assembly Line B", "Secondary assembly line", 80},
		{"Packaging Line", "Final packaging and labeling", 200},
	}
	for _, l := range lines {
		s.DB.Exec("INSERT INTO production_lines (name, description, capacity_per_hour) VALUES (?, ?, ?)",
			l.name, l.desc, l.capacity)
	}

	products := []struct {
		code, name, unit string
		cycle            int
	}{
		{"WID-100", "Widget Standard", "units", 30},
		{"WID-200", "Widget Deluxe", "units", 45},
		{"CMP-010", "Component Bracket", "units", 12},
	}
	for _, p := range products {
		s.DB.Exec("INSERT INTO products (code, name, unit, target_cycle_time) VALUES (?, ?, ?, ?)",
			p.code, p.name, p.unit, p.cycle)
	}

	// One stock position per product in the main warehouse
	rows, err := s.DB.Query("SELECT id FROM products")
	if err != nil {
		return
	}
	defer rows.Close()
	for rows.Next() {
		var pid int64
		if rows.Scan(&pid) == nil {
			s.DB.Exec("INSERT INTO inventory (product_id, location, quantity, min_stock, max_stock) VALUES (?, 'WH-MAIN', 0, 10, 1000)", pid)
		}
	}
}
