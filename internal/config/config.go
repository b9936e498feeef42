package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	ExportRoot   string `toml:"export_root"`
	DBPath       string `toml:"db_path"`
	Timezone     string `toml:"timezone"`      // IANA name; empty = process-local
	UserIdentity string `toml:"user_identity"` // "self" name for rendering

	// SystemNotices overrides the built-in system-notice phrases. Absent
	// key keeps the defaults; system_notices = [] disables filtering.
	SystemNotices []string `toml:"system_notices"`
}

func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ExportRoot: filepath.Join(home, "chats"),
		DBPath:     filepath.Join(home, ".config", "wcs", "wcs.db"),
	}

	cfgPath := filepath.Join(home, ".config", "wcs", "config.toml")
	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	// expand ~ in paths
	cfg.ExportRoot = expandHome(cfg.ExportRoot, home)
	cfg.DBPath = expandHome(cfg.DBPath, home)

	return cfg, nil
}

// Location resolves the reference timezone once per run, so every timestamp
// in a parse observes the same offset.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
