package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// backupRetention caps how many snapshots Backup keeps per directory.
const backupRetention = 7

// BackupInfo describes one snapshot file on disk.
type BackupInfo struct {
	Filename  string `json:"filename"`
	Size      int64  `json:"size"`
	CreatedAt string `json:"created_at"`
}

// Backup writes a consistent snapshot of the live database into dir via
// VACUUM INTO and returns the snapshot path. Snapshots beyond the retention
// count are pruned, oldest first. Safe to call while the server is serving
// writes; only one backup runs at a time.
func (s *Store) Backup(dir string) (string, error) {
	s.backupMu.Lock()
	defer s.backupMu.Unlock()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	base := "facops-backup-" + time.Now().Format("2006-01-02T15-04-05")
	dest := filepath.Join(dir, base+".db")
	for n := 1; ; n++ {
		if _, err := os.Stat(dest); os.IsNotExist(err) {
			break
		}
		dest = filepath.Join(dir, fmt.Sprintf("%s-%d.db", base, n))
	}

	if _, err := s.DB.Exec(fmt.Sprintf(`VACUUM INTO '%s'`, dest)); err != nil {
		return "", fmt.Errorf("vacuum into: %w", err)
	}
	pruneBackups(dir)
	return dest, nil
}

// Backups lists the snapshots in dir, newest first. A missing directory
// reads as empty.
func (s *Store) Backups(dir string) ([]BackupInfo, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, err
	}

	backups := []BackupInfo{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), "facops-backup-") || !strings.HasSuffix(e.Name(), ".db") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Filename:  e.Name(),
			Size:      info.Size(),
			CreatedAt: info.ModTime().UTC().Format(time.RFC3339),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Filename > backups[j].Filename
	})
	return backups, nil
}

func pruneBackups(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "facops-backup-") && strings.HasSuffix(e.Name(), ".db") {
			names = append(names, e.Name())
		}
	}
	if len(names) <= backupRetention {
		return
	}
	// Timestamped names sort oldest first.
	sort.Strings(names)
	for _, name := range names[:len(names)-backupRetention] {
		os.Remove(filepath.Join(dir, name))
	}
}

// TableInfo is one table's row count in DatabaseInfo.
type TableInfo struct {
	Name string `json:"name"`
	Rows int    `json:"rows"`
}

// DatabaseInfo reports the database location, its size on disk, and
// per-table row counts.
type DatabaseInfo struct {
	Path   string      `json:"path"`
	Size   int64       `json:"size"`
	Tables []TableInfo `json:"tables"`
}

// Info inspects the live database. Internal sqlite_* tables are excluded;
// an in-memory database reports size 0.
func (s *Store) Info() (*DatabaseInfo, error) {
	info := &DatabaseInfo{Path: s.path, Tables: []TableInfo{}}
	if fi, err := os.Stat(s.path); err == nil {
		info.Size = fi.Size()
	}

	rows, err := s.DB.Query(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, name := range names {
		var n int
		// Table names come from sqlite_master, not user input.
		if err := s.DB.QueryRow("SELECT COUNT(*) FROM " + name).Scan(&n); err != nil {
			return nil, err
		}
		info.Tables = append(info.Tables, TableInfo{Name: name, Rows: n})
	}
	return info, nil
}
