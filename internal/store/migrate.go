package store

import "fmt"

// Migrate creates all tables and indexes. Statements are idempotent so the
// store can be reopened against an existing database.
func (s *Store) Migrate() error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			full_name TEXT NOT NULL DEFAULT '',
			role TEXT DEFAULT 'operator' CHECK(role IN ('admin','operator','supervisor','maintenance')),
			active INTEGER DEFAULT 1,
			last_login DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			expires_at DATETIME NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS production_lines (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			description TEXT DEFAULT '',
			status TEXT DEFAULT 'active' CHECK(status IN ('active','maintenance','inactive')),
			capacity_per_hour INTEGER DEFAULT 0 CHECK(capacity_per_hour >= 0),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			code TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			description TEXT DEFAULT '',
			unit TEXT DEFAULT 'units',
			target_cycle_time INTEGER DEFAULT 0 CHECK(target_cycle_time >= 0),
			active INTEGER DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS production_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			line_id INTEGER NOT NULL,
			product_id INTEGER NOT NULL,
			operator_id INTEGER,
			quantity INTEGER NOT NULL CHECK(quantity >= 0),
			defect_count INTEGER DEFAULT 0 CHECK(defect_count >= 0),
			start_time DATETIME,
			end_time DATETIME,
			status TEXT DEFAULT 'completed' CHECK(status IN ('completed','in_progress','pending')),
			notes TEXT DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (line_id) REFERENCES production_lines(id),
			FOREIGN KEY (product_id) REFERENCES products(id),
			FOREIGN KEY (operator_id) REFERENCES users(id)
		)`,
		`CREATE TABLE IF NOT EXISTS inventory (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			product_id INTEGER NOT NULL,
			location TEXT DEFAULT '',
			quantity INTEGER DEFAULT 0 CHECK(quantity >= 0),
			baseline INTEGER DEFAULT 0 CHECK(baseline >= 0),
			min_stock INTEGER DEFAULT 0 CHECK(min_stock >= 0),
			max_stock INTEGER DEFAULT 1000 CHECK(max_stock >= 0),
			last_updated DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(product_id, location),
			FOREIGN KEY (product_id) REFERENCES products(id)
		)`,
		`CREATE TABLE IF NOT EXISTS inventory_movements (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			inventory_id INTEGER NOT NULL,
			movement_type TEXT NOT NULL CHECK(movement_type IN ('in','out','adjustment','transfer')),
			quantity INTEGER NOT NULL,
			reference_type TEXT DEFAULT '',
			reference_id INTEGER,
			notes TEXT DEFAULT '',
			created_by TEXT DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (inventory_id) REFERENCES inventory(id)
		)`,
		`CREATE TABLE IF NOT EXISTS work_orders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			order_number TEXT UNIQUE NOT NULL,
			line_id INTEGER NOT NULL,
			product_id INTEGER NOT NULL,
			quantity_requested INTEGER NOT NULL CHECK(quantity_requested > 0),
			quantity_produced INTEGER DEFAULT 0 CHECK(quantity_produced >= 0),
			priority TEXT DEFAULT 'normal' CHECK(priority IN ('low','normal','high','urgent')),
			status TEXT DEFAULT 'pending' CHECK(status IN ('pending','in_progress','completed','cancelled')),
			scheduled_start DATETIME,
			scheduled_end DATETIME,
			actual_start DATETIME,
			actual_end DATETIME,
			notes TEXT DEFAULT '',
			created_by TEXT DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (line_id) REFERENCES production_lines(id),
			FOREIGN KEY (product_id) REFERENCES products(id)
		)`,
		`CREATE TABLE IF NOT EXISTS maintenance_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			line_id INTEGER NOT NULL,
			maintenance_type TEXT NOT NULL CHECK(maintenance_type IN ('preventive','corrective','predictive')),
			description TEXT NOT NULL,
			start_time DATETIME,
			end_time DATETIME,
			technician TEXT DEFAULT '',
			cost REAL DEFAULT 0 CHECK(cost >= 0),
			status TEXT DEFAULT 'scheduled' CHECK(status IN ('scheduled','in_progress','completed','cancelled')),
			notes TEXT DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (line_id) REFERENCES production_lines(id)
		)`,
	}
	for _, t := range tables {
		if _, err := s.DB.Exec(t); err != nil {
			return fmt.Errorf("migration error: %w\nSQL: %s", err, t)
		}
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_production_records_created_at ON production_records(created_at)",
		"CREATE INDEX IF NOT EXISTS idx_production_records_line_id ON production_records(line_id)",
		"CREATE INDEX IF NOT EXISTS idx_work_orders_status ON work_orders(status)",
		"CREATE INDEX IF NOT EXISTS idx_inventory_movements_inventory_id ON inventory_movements(inventory_id)",
		"CREATE INDEX IF NOT EXISTS idx_maintenance_records_line_id ON maintenance_records(line_id)",
		"CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at)",
	}
	for _, idx := range indexes {
		if _, err := s.DB.Exec(idx); err != nil {
			return fmt.Errorf("index creation: %w\nSQL: %s", err, idx)
		}
	}
	return nil
}
