package store

import (
	"path/filepath"
	"testing"
)

func setupFileStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "live.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestBackupCreatesSnapshot(t *testing.T) {
	st := setupFileStore(t)
	st.DB.Exec("INSERT INTO products (code, name) VALUES ('P1', 'One')")

	dir := filepath.Join(t.TempDir(), "backups")
	path, err := st.Backup(dir)
	if err != nil {
		t.Fatalf("backup: %v", err)
	}

	// The snapshot must open as a regular database carrying the data.
	snap, err := Open(path)
	if err != nil {
		t.Fatalf("open snapshot: %v", err)
	}
	defer snap.Close()
	var n int
	if err := snap.DB.QueryRow("SELECT COUNT(*) FROM products").Scan(&n); err != nil {
		t.Fatalf("count in snapshot: %v", err)
	}
	if n != 1 {
		t.Errorf("snapshot has %d products, want 1", n)
	}

	// A second backup in the same second gets a distinct filename.
	path2, err := st.Backup(dir)
	if err != nil {
		t.Fatalf("second backup: %v", err)
	}
	if path2 == path {
		t.Errorf("second backup reused filename %s", path2)
	}

	backups, err := st.Backups(dir)
	if err != nil {
		t.Fatalf("list backups: %v", err)
	}
	if len(backups) != 2 {
		t.Errorf("listed %d backups, want 2", len(backups))
	}
}

func TestBackupsMissingDirIsEmpty(t *testing.T) {
	st := setupFileStore(t)
	backups, err := st.Backups(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("listed %d backups from missing dir", len(backups))
	}
}

func TestInfoReportsTables(t *testing.T) {
	st := setupFileStore(t)
	st.DB.Exec("INSERT INTO products (code, name) VALUES ('P1', 'One')")
	st.DB.Exec("INSERT INTO products (code, name) VALUES ('P2', 'Two')")

	info, err := st.Info()
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	if info.Size == 0 {
		t.Errorf("size = 0 for file-backed database")
	}

	found := false
	for _, tbl := range info.Tables {
		if tbl.Name == "products" {
			found = true
			if tbl.Rows != 2 {
				t.Errorf("products rows = %d, want 2", tbl.Rows)
			}
		}
		if tbl.Name == "sqlite_sequence" {
			t.Errorf("internal table %s listed", tbl.Name)
		}
	}
	if !found {
		t.Errorf("products table missing from info: %+v", info.Tables)
	}
}
