package cmd

import (
	"fmt"
	"os"

	"github.com/rusalad/rusalad/internal/contract"
	"github.com/rusalad/rusalad/internal/runstore"
	"github.com/rusalad/rusalad/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// recentRunsShown is the number of stored runs listed by 'store status'.
const recentRunsShown = 10

// storeSetup loads minimal configuration needed for store operations.
// This is used by commands that need store access without full shared setup.
func storeSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	backend := schema.DatabaseBackend(viper.GetString("store-backend"))
	connStr := viper.GetString("store-db-connect")

	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	return nil
}

// storeSetupWrapper wraps storeSetup and opens the store for commands that read it.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	if err := storeSetup(); err != nil {
		return err
	}
	if err := runstore.InitStores(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return fmt.Errorf("failed to initialize run store: %w", err)
	}
	return nil
}

// storeCmd focused on run store management.
//
// Note: Store subcommands use minimal initialization instead of the full
// sharedSetup used by history commands.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the run store",
	Long: `Manage the database that keeps ingested run reports.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show stored runs and connection info
  clear   - Remove all stored runs
  migrate - Upgrade or roll back the database schema

Examples:
  # Check store status
  rusalad store status

  # Start over after a broken import
  rusalad store clear`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display stored runs and connection details",
	Long: `Show detailed information about the run store.

Displays:
- Backend type and connection status
- Number of stored runs
- Newest and oldest stored run
- The most recently stored runs

Examples:
  # Check store status
  rusalad store status`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := runstore.Manager.GetRunStore()
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		recent, err := store.ListRuns(rootCtx, recentRunsShown)
		if err != nil {
			contract.LogFatal("Failed to list stored runs", err)
		}
		runstore.PrintStoreStatus(os.Stdout, status, recent)
	},
}

// storeClearCmd clears the store.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored runs",
	Long: `Delete all stored run reports from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the run table

Examples:
  # Clear SQLite store (default)
  rusalad store clear

  # Clear MySQL store (set connection string via env variable)
  RUSALAD_STORE_BACKEND=mysql RUSALAD_STORE_DB_CONNECT="..." rusalad store clear`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return storeSetup()
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := runstore.ClearStore(cfg.StoreBackend, runstore.GetDBFilePath(), cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Store cleared successfully.")
	},
}

// storeMigrateCmd runs schema migrations for the store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  rusalad store migrate

  # Migrate to specific version
  rusalad store migrate --target-version 1

  # Rollback to initial state
  rusalad store migrate --target-version 0`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return storeSetup()
	},
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		result, err := runstore.Migrate(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion)
		if err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		fmt.Println(runstore.FormatMigrationResult(result))
	},
}
