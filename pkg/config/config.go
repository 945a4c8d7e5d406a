// Package config loads lazyscan's application configuration.
//
// The application config describes where things live (policy file, audit
// log, backup store) and how the process behaves; missing files fall back to
// defaults. The security policy itself is separate and fail-closed; see
// internal/policy.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/lazyscan-project/lazyscan/pkg/errclass"
)

// Config is the lazyscan application configuration.
type Config struct {
	PolicyPath          string        `yaml:"policy_path"`
	AuditLogPath        string        `yaml:"audit_log_path"`
	BackupDir           string        `yaml:"backup_dir"`
	BackupRetentionDays int           `yaml:"backup_retention_days"`
	Logging             LoggingConfig `yaml:"logging"`
	Scan                ScanConfig    `yaml:"scan"`
}

// LoggingConfig configures logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json, text
}

// ScanConfig configures the disk-usage scanner.
type ScanConfig struct {
	TopFiles int `yaml:"top_files"`
}

// BaseDir returns the lazyscan state directory (~/.config/lazyscan).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", "lazyscan"), nil
}

// Default returns the default configuration rooted at base.
func Default(base string) *Config {
	return &Config{
		PolicyPath:          filepath.Join(base, "policy.yaml"),
		AuditLogPath:        filepath.Join(base, "audit", "audit.jsonl"),
		BackupDir:           filepath.Join(base, "backups"),
		BackupRetentionDays: 30,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Scan: ScanConfig{
			TopFiles: 20,
		},
	}
}

// Load reads configuration from path. A missing file is fine and yields the
// defaults; a malformed file is an error.
func Load(path string) (*Config, error) {
	base, err := BaseDir()
	if err != nil {
		return nil, err
	}
	cfg := Default(base)

	if path == "" {
		path = filepath.Join(base, "config.yaml")
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errclass.ErrConfigInvalid.WithMessagef("parse config %s: %v", path, err)
	}

	if cfg.BackupRetentionDays < 0 {
		return nil, errclass.ErrConfigInvalid.WithMessage("backup_retention_days must be non-negative")
	}
	if cfg.Scan.TopFiles <= 0 {
		cfg.Scan.TopFiles = 20
	}

	return cfg, nil
}

// Save writes configuration to path, creating parent directories.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
