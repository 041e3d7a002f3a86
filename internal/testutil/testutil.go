// Package testutil provides shared helpers for package tests.
package testutil

import (
	"testing"

	"facops/internal/store"
)

// SetupStore opens a fresh in-memory database with migrations applied.
func SetupStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

// InsertProduct creates a product row and returns its id.
func InsertProduct(t *testing.T, st *store.Store, code, name string) int64 {
	t.Helper()
	res, err := st.DB.Exec("INSERT INTO products (code, name) VALUES (?, ?)", code, name)
	if err != nil {
		t.Fatalf("insert product %s: %v", code, err)
	}
	id, _ := res.LastInsertId()
	return id
}

// InsertLine creates a production line row and returns its id.
func InsertLine(t *testing.T, st *store.Store, name string) int64 {
	t.Helper()
	res, err := st.DB.Exec("INSERT INTO production_lines (name) VALUES (?)", name)
	if err != nil {
		t.Fatalf("insert line %s: %v", name, err)
	}
	id, _ := res.LastInsertId()
	return id
}

// InsertInventory creates a stock position with an initial baseline quantity
// and returns its id.
func InsertInventory(t *testing.T, st *store.Store, productID int64, location string, baseline, minStock int) int64 {
	t.Helper()
	res, err := st.DB.Exec(
		"INSERT INTO inventory (product_id, location, quantity, baseline, min_stock) VALUES (?, ?, ?, ?, ?)",
		productID, location, baseline, baseline, minStock)
	if err != nil {
		t.Fatalf("insert inventory: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

// InsertUser creates a user row with the given role and returns its id.
func InsertUser(t *testing.T, st *store.Store, username, role string) int64 {
	t.Helper()
	res, err := st.DB.Exec("INSERT INTO users (username, password_hash, full_name, role) VALUES (?, 'x', ?, ?)",
		username, username, role)
	if err != nil {
		t.Fatalf("insert user %s: %v", username, err)
	}
	id, _ := res.LastInsertId()
	return id
}
