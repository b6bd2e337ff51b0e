package contract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rusalad/rusalad/schema"
)

// Default values for configuration.
const (
	DefaultHistoryDepth = 20
	MaxHistoryDepth     = 1000
	DefaultLang         = "en"
	DefaultListenAddr   = ":8080"
)

// Config holds the runtime configuration.
// This struct is the "final, validated" config.
type Config struct {
	Source       schema.SourceKind
	ReportsDir   string
	HistoryDepth int // Maximum number of runs folded into a history
	RunID        int // Newest run to include (0 = latest)

	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	Lang       string // Timed-text language tag
	ListenAddr string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Source         string `mapstructure:"source"`
	ReportsDir     string `mapstructure:"reports-dir"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`

	// --- Fields from historyCmd.Flags() ---
	HistoryDepth int    `mapstructure:"history-depth"`
	Run          string `mapstructure:"run"`

	// --- Fields from convertCmd.Flags() ---
	Lang string `mapstructure:"lang"`

	// --- Fields from serveCmd.Flags() ---
	Listen string `mapstructure:"listen"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processHistoryInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	return processSource(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}

	cfg.Lang = strings.TrimSpace(input.Lang)
	if cfg.Lang == "" {
		cfg.Lang = DefaultLang
	}
	if strings.ContainsAny(cfg.Lang, "\"<>&' ") {
		return fmt.Errorf("invalid language tag '%s'", input.Lang)
	}

	cfg.ListenAddr = strings.TrimSpace(input.Listen)
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}
	return nil
}

// processHistoryInputs validates the history depth and the starting run.
func processHistoryInputs(cfg *Config, input *ConfigRawInput) error {
	if input.HistoryDepth <= 0 || input.HistoryDepth > MaxHistoryDepth {
		return fmt.Errorf("history-depth must be greater than 0 and cannot exceed %d (received %d)", MaxHistoryDepth, input.HistoryDepth)
	}
	cfg.HistoryDepth = input.HistoryDepth

	runID, err := ParseRunID(input.Run)
	if err != nil {
		return err
	}
	cfg.RunID = runID
	return nil
}

// validateBackendConfig validates the run store backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	return ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect)
}

// processSource resolves the run source and the reports directory.
func processSource(cfg *Config, input *ConfigRawInput) error {
	cfg.Source = schema.SourceKind(strings.ToLower(input.Source))
	if _, ok := schema.ValidSourceKinds[cfg.Source]; !ok {
		return fmt.Errorf("invalid source '%s'. must be dir or store", input.Source)
	}
	if cfg.Source == schema.StoreSource && cfg.StoreBackend == schema.NoneBackend {
		return fmt.Errorf("source 'store' needs a store backend other than none")
	}

	dir := input.ReportsDir
	if dir == "" {
		dir = "."
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	cfg.ReportsDir = filepath.Clean(absDir)
	return nil
}
