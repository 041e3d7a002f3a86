package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Defaults() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facops.yaml")
	os.WriteFile(path, []byte("addr: \":9090\"\ndb_path: /tmp/x.db\nseed: false\n"), 0o644)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9090" || cfg.DBPath != "/tmp/x.db" || cfg.Seed {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte(":\n\t- nope"), 0o644)

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
