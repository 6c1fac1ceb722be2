// Package config defines the application configuration structures.
//
// Separated from cmd to allow other packages (db, ssh, history, tui) to
// depend on config without importing Cobra.
//
// Settings live in ~/.liturgi/config.yaml. Secrets (API keys, warehouse
// password, history DSN) can also be supplied via environment variables,
// which always win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Source kinds.
const (
	SourceCSV       = "csv"
	SourceWarehouse = "warehouse"
)

// History backends.
const (
	HistoryMemory   = "memory"
	HistorySQLite   = "sqlite"
	HistoryPostgres = "postgres"
)

const (
	// DefaultMaxCSVChars is the character budget for the CSV excerpt in a prompt.
	DefaultMaxCSVChars = 80000
	// DefaultMaxStoredChars caps text columns written to the history table.
	DefaultMaxStoredChars = 65000
	// DefaultRowLimit is the number of rows sent to the model by default.
	DefaultRowLimit = 100
	// DefaultTable is the curated liturgy table in the warehouse.
	DefaultTable = "pdf_liturgi_ai_analysis"
)

// AppConfig is the top-level config file structure (~/.liturgi/config.yaml).
type AppConfig struct {
	Source  SourceConfig  `yaml:"source"`
	AI      AIConfig      `yaml:"ai"`
	History HistoryConfig `yaml:"history"`
	Prompt  PromptConfig  `yaml:"prompt"`
}

// SourceConfig selects where the liturgy dataset is loaded from.
type SourceConfig struct {
	Kind      string          `yaml:"kind"` // "csv" or "warehouse"
	CSVPath   string          `yaml:"csv_path"`
	Warehouse WarehouseConfig `yaml:"warehouse"`
}

// WarehouseConfig holds the PostgreSQL-wire warehouse settings.
type WarehouseConfig struct {
	Host     string    `yaml:"host"`
	Port     int       `yaml:"port"`
	User     string    `yaml:"user"`
	Password string    `yaml:"password,omitempty"`
	Database string    `yaml:"database"`
	SSLMode  string    `yaml:"sslmode"`
	Table    string    `yaml:"table"`
	Limit    int       `yaml:"limit"` // 0 loads the whole table
	SSH      SSHConfig `yaml:"ssh"`
}

// SSHConfig holds SSH tunnel settings.
type SSHConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	User          string `yaml:"user"`
	KeyPath       string `yaml:"key_path"`
	KeyPassphrase string `yaml:"key_passphrase,omitempty"`
}

// HistoryConfig selects the Q&A history backend.
type HistoryConfig struct {
	Backend        string `yaml:"backend"` // "memory", "sqlite", "postgres"
	Path           string `yaml:"path"`    // sqlite file
	DSN            string `yaml:"dsn,omitempty"`
	MaxStoredChars int    `yaml:"max_stored_chars"`
}

// PromptConfig holds prompt-building limits.
type PromptConfig struct {
	MaxChars int `yaml:"max_chars"`
	RowLimit int `yaml:"row_limit"`
}

// DSN builds a pgx-compatible connection string.
// When SSH tunnel is active, the caller should override Host/Port
// with the local tunnel endpoint.
func (w WarehouseConfig) DSN() string {
	return "host=" + w.Host +
		" port=" + strconv.Itoa(w.Port) +
		" user=" + w.User +
		" password=" + w.Password +
		" dbname=" + w.Database +
		" sslmode=" + w.SSLMode
}

// Dir returns ~/.liturgi.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".liturgi"), nil
}

// DefaultPath returns ~/.liturgi/config.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Default returns sensible defaults: local CSV source, in-memory history,
// placeholder AI provider.
func Default() *AppConfig {
	historyPath := "liturgi_history.db"
	if dir, err := Dir(); err == nil {
		historyPath = filepath.Join(dir, "history.db")
	}
	return &AppConfig{
		Source: SourceConfig{
			Kind:    SourceCSV,
			CSVPath: filepath.Join("data", "liturgi.csv"),
			Warehouse: WarehouseConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "postgres",
				Database: "liturgi",
				SSLMode:  "disable",
				Table:    DefaultTable,
				SSH:      SSHConfig{Port: 22},
			},
		},
		AI: DefaultAIConfig(),
		History: HistoryConfig{
			Backend:        HistoryMemory,
			Path:           historyPath,
			MaxStoredChars: DefaultMaxStoredChars,
		},
		Prompt: PromptConfig{
			MaxChars: DefaultMaxCSVChars,
			RowLimit: DefaultRowLimit,
		},
	}
}

// Load reads the config at path (DefaultPath when empty); returns defaults
// if the file does not exist. Environment overrides are always applied.
func Load(path string) (*AppConfig, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			cfg := Default()
			applyEnv(cfg)
			return cfg, nil
		}
		path = p
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path (DefaultPath when empty).
func Save(cfg *AppConfig, path string) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Validate rejects unknown source kinds and history backends and fills
// zero limits with defaults.
func (c *AppConfig) Validate() error {
	switch c.Source.Kind {
	case SourceCSV, SourceWarehouse:
	default:
		return fmt.Errorf("unknown source kind %q. Supported: csv, warehouse", c.Source.Kind)
	}
	switch c.History.Backend {
	case HistoryMemory, HistorySQLite, HistoryPostgres:
	default:
		return fmt.Errorf("unknown history backend %q. Supported: memory, sqlite, postgres", c.History.Backend)
	}
	if c.Prompt.MaxChars <= 0 {
		c.Prompt.MaxChars = DefaultMaxCSVChars
	}
	if c.History.MaxStoredChars <= 0 {
		c.History.MaxStoredChars = DefaultMaxStoredChars
	}
	if c.Prompt.RowLimit < 0 {
		c.Prompt.RowLimit = 0
	}
	return nil
}

func applyEnv(cfg *AppConfig) {
	if v := os.Getenv("LITURGI_CSV_PATH"); v != "" {
		cfg.Source.CSVPath = v
	}
	if v := os.Getenv("LITURGI_WAREHOUSE_PASSWORD"); v != "" {
		cfg.Source.Warehouse.Password = v
	}
	if v := os.Getenv("LITURGI_HISTORY_DSN"); v != "" {
		cfg.History.DSN = v
	}
	applyAIEnv(&cfg.AI)
}
