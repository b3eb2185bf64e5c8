// Package config provides configuration loading and structs for the kotae server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kotae-dev/kotae/internal/ranking"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool           `yaml:"debug"`
	Server  ServerConfig   `yaml:"server"`
	Search  SearchConfig   `yaml:"search"`
	Ranking ranking.Config `yaml:"ranking"`
	Tenants []TenantConfig `yaml:"tenants"`
	Watch   WatchConfig    `yaml:"watch"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// SearchConfig holds chunking and result-limit settings.
type SearchConfig struct {
	MaxChunkChars int `yaml:"max_chunk_chars"`
	DefaultTopK   int `yaml:"default_top_k"`
	MaxTopK       int `yaml:"max_top_k"`
}

// TenantConfig names one tenant and its document folder.
type TenantConfig struct {
	ID            string `yaml:"id"`
	DocumentsPath string `yaml:"documents_path"`
}

// WatchConfig holds document-folder watch settings. When enabled, a change
// in a tenant's folder triggers a full rebuild of that tenant's index.
type WatchConfig struct {
	Enabled    bool `yaml:"enabled"`
	DebounceMs int  `yaml:"debounce_ms"`
}

// Load reads and parses the config file at path, expands tenant document
// paths, and applies defaults. Returns an error if the file cannot be read,
// parsed, or names no tenants.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	if len(cfg.Tenants) == 0 {
		return nil, fmt.Errorf("config names no tenants")
	}
	seen := make(map[string]bool, len(cfg.Tenants))
	configDir := filepath.Dir(path)
	for i, tenant := range cfg.Tenants {
		if tenant.ID == "" {
			return nil, fmt.Errorf("tenant %d has no id", i)
		}
		if seen[tenant.ID] {
			return nil, fmt.Errorf("duplicate tenant id %q", tenant.ID)
		}
		seen[tenant.ID] = true
		if tenant.DocumentsPath == "" {
			return nil, fmt.Errorf("tenant %q has no documents_path", tenant.ID)
		}
		cfg.Tenants[i].DocumentsPath = expandPath(tenant.DocumentsPath, configDir)
	}

	return &cfg, nil
}

// TenantDirs returns a tenant-id to documents-folder map.
func (c *Config) TenantDirs() map[string]string {
	dirs := make(map[string]string, len(c.Tenants))
	for _, t := range c.Tenants {
		dirs[t.ID] = t.DocumentsPath
	}
	return dirs
}

// expandPath converts a path to absolute. Paths starting with "./" are relative
// to configDir; other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
