package runstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/rusalad/rusalad/internal/contract"
	"github.com/rusalad/rusalad/schema"
	_ "modernc.org/sqlite" // SQLite driver
)

// RunStoreImpl stores run reports as JSON documents keyed by run identifier.
type RunStoreImpl struct {
	db        *sql.DB
	tableName string
	backend   schema.DatabaseBackend
	now       func() time.Time
}

var _ contract.RunStore = &RunStoreImpl{} // Compile-time check

// NewRunStore opens the run store for backend and makes sure its table exists.
func NewRunStore(backend schema.DatabaseBackend, connStr string) (*RunStoreImpl, error) {
	return newRunStore(runReportsTable, backend, connStr)
}

func newRunStore(tableName string, backend schema.DatabaseBackend, connStr string) (*RunStoreImpl, error) {
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}

	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = GetDBFilePath()
		}
		db, err = sql.Open(driverFor(backend), dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite run store at %q: %w. Ensure the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		// connStr should be:
		// user:password@tcp(host:port)/dbname
		db, err = sql.Open(driverFor(backend), connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL run store: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		// connStr should be:
		// host=localhost port=5432 user=postgres password=mysecretpassword dbname=postgres
		db, err = sql.Open(driverFor(backend), connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL run store: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	case schema.NoneBackend:
		// A store without a database keeps nothing
		return &RunStoreImpl{tableName: tableName, backend: backend, now: time.Now}, nil

	default:
		return nil, fmt.Errorf("unsupported store backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}

	if _, err := db.Exec(getCreateTableQuery(tableName, backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	return &RunStoreImpl{db: db, tableName: tableName, backend: backend, now: time.Now}, nil
}

// getCreateTableQuery returns the CREATE TABLE query for the given backend.
func getCreateTableQuery(tableName string, backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(tableName, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT PRIMARY KEY,
				report LONGBLOB NOT NULL,
				ingested_at BIGINT NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT PRIMARY KEY,
				report BYTEA NOT NULL,
				ingested_at BIGINT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY,
				report BLOB NOT NULL,
				ingested_at INTEGER NOT NULL
			);
		`, quotedTableName)
	}
}

// disabled reports whether the store keeps no data.
func (s *RunStoreImpl) disabled() bool {
	return s.backend == schema.NoneBackend || s.db == nil
}

// Put implements the RunStore interface. An existing report for the same run is replaced.
func (s *RunStoreImpl) Put(ctx context.Context, report schema.RunReport) error {
	if report.ID <= 0 {
		return fmt.Errorf("invalid run id %d", report.ID)
	}
	if s.disabled() {
		return nil
	}

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report of run %d: %w", report.ID, err)
	}
	if _, err := s.db.ExecContext(ctx, s.getUpsertQuery(), report.ID, data, s.now().Unix()); err != nil {
		return fmt.Errorf("failed to store report of run %d: %w", report.ID, err)
	}
	return nil
}

// getUpsertQuery returns the UPSERT query for the backend.
func (s *RunStoreImpl) getUpsertQuery() string {
	quotedTableName := quoteTableName(s.tableName, s.backend)
	switch s.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (run_id, report, ingested_at) VALUES (?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE report = new.report, ingested_at = new.ingested_at`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (run_id, report, ingested_at) VALUES ($1, $2, $3)
			ON CONFLICT (run_id) DO UPDATE SET report = EXCLUDED.report, ingested_at = EXCLUDED.ingested_at`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (run_id, report, ingested_at) VALUES (?, ?, ?)`, quotedTableName)
	}
}

// Load implements the RunSource interface.
func (s *RunStoreImpl) Load(ctx context.Context, runID int) (schema.RunReport, error) {
	if s.disabled() {
		return schema.RunReport{}, fmt.Errorf("run %d: %w", runID, contract.ErrRunNotFound)
	}

	query := fmt.Sprintf(`SELECT report FROM %s WHERE run_id = %s`,
		quoteTableName(s.tableName, s.backend), placeholder(s.backend, 1))

	var data []byte
	err := s.db.QueryRowContext(ctx, query, runID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return schema.RunReport{}, fmt.Errorf("run %d: %w", runID, contract.ErrRunNotFound)
	}
	if err != nil {
		return schema.RunReport{}, fmt.Errorf("failed to load run %d: %w", runID, err)
	}

	var report schema.RunReport
	if err := json.Unmarshal(data, &report); err != nil {
		return schema.RunReport{}, fmt.Errorf("failed to decode run %d: %w", runID, err)
	}
	report.ID = runID
	return report, nil
}

// Latest implements the RunSource interface.
func (s *RunStoreImpl) Latest(ctx context.Context) (int, error) {
	if s.disabled() {
		return 0, contract.ErrRunNotFound
	}

	query := fmt.Sprintf(`SELECT MAX(run_id) FROM %s`, quoteTableName(s.tableName, s.backend))
	var latest sql.NullInt64
	if err := s.db.QueryRowContext(ctx, query).Scan(&latest); err != nil {
		return 0, fmt.Errorf("failed to find the latest run: %w", err)
	}
	if !latest.Valid {
		return 0, contract.ErrRunNotFound
	}
	return int(latest.Int64), nil
}

// Previous implements the RunSource interface.
func (s *RunStoreImpl) Previous(ctx context.Context, runID int) (int, bool, error) {
	if s.disabled() {
		return 0, false, nil
	}

	query := fmt.Sprintf(`SELECT MAX(run_id) FROM %s WHERE run_id < %s`,
		quoteTableName(s.tableName, s.backend), placeholder(s.backend, 1))
	var prev sql.NullInt64
	if err := s.db.QueryRowContext(ctx, query, runID).Scan(&prev); err != nil {
		return 0, false, fmt.Errorf("failed to find the run before %d: %w", runID, err)
	}
	if !prev.Valid {
		return 0, false, nil
	}
	return int(prev.Int64), true, nil
}

// Close closes the underlying DB connection.
func (s *RunStoreImpl) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetStatus returns status information about the run store.
func (s *RunStoreImpl) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:   string(s.backend),
		Connected: s.db != nil,
	}

	if s.disabled() {
		return status, nil
	}

	query := fmt.Sprintf(`SELECT COUNT(*), COALESCE(MAX(run_id), 0), COALESCE(MIN(run_id), 0), COALESCE(MAX(ingested_at), 0) FROM %s`,
		quoteTableName(s.tableName, s.backend))

	var latest, oldest, lastIngest int64
	if err := s.db.QueryRow(query).Scan(&status.TotalRuns, &latest, &oldest, &lastIngest); err != nil {
		return status, fmt.Errorf("failed to get store status: %w", err)
	}
	status.LatestRunID = int(latest)
	status.OldestRunID = int(oldest)
	if status.TotalRuns > 0 {
		status.LastIngestTime = time.Unix(lastIngest, 0)
	}
	return status, nil
}

// ListRuns returns the stored runs, newest first, up to limit (all when limit < 1).
func (s *RunStoreImpl) ListRuns(ctx context.Context, limit int) ([]schema.StoredRun, error) {
	if s.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, ingested_at FROM %s ORDER BY run_id DESC`, quoteTableName(s.tableName, s.backend))
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []schema.StoredRun
	for rows.Next() {
		var id, ts int64
		if err := rows.Scan(&id, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, schema.StoredRun{RunID: int(id), IngestedAt: time.Unix(ts, 0)})
	}
	return runs, rows.Err()
}
