package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// Status represents the outcome of a scenario in a single run.
	Status string

	// DatabaseBackend represents the database backend for the run store.
	DatabaseBackend string

	// SourceKind represents where run reports are loaded from.
	SourceKind string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// Scenario statuses derived from a boolean passed field.
// Explicit status fields are kept verbatim and may carry other values.
const (
	PassedStatus Status = "passed"
	FailedStatus Status = "failed"
)

// All store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All run sources supported.
const (
	DirSource   SourceKind = "dir" // default
	StoreSource SourceKind = "store"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidSourceKinds lists all valid run sources.
var ValidSourceKinds = map[SourceKind]struct{}{
	DirSource:   {},
	StoreSource: {},
}

// StatusFromPassed maps a boolean passed flag onto a status.
func StatusFromPassed(passed bool) Status {
	if passed {
		return PassedStatus
	}
	return FailedStatus
}
