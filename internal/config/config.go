// Package config loads server settings from an optional YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr      string `yaml:"addr"`
	DBPath    string `yaml:"db_path"`
	BackupDir string `yaml:"backup_dir"`
	Seed      bool   `yaml:"seed"`
}

// Defaults returns the out-of-the-box configuration.
func Defaults() Config {
	return Config{
		Addr:      ":8080",
		DBPath:    "facops.db",
		BackupDir: "backups",
		Seed:      true,
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error; the defaults stand.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "facops.db"
	}
	if cfg.BackupDir == "" {
		cfg.BackupDir = "backups"
	}
	return cfg, nil
}
