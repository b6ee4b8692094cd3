package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrEmailAlreadyExists is returned when a user with the same email is
	// already registered. No record is created.
	ErrEmailAlreadyExists = errors.New("email already registered")

	// ErrUsernameAlreadyExists is returned when the requested username is
	// taken.
	ErrUsernameAlreadyExists = errors.New("username already taken")

	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")

	// ErrAgentNotFound is returned when no agent matches the id.
	ErrAgentNotFound = errors.New("agent not found")

	// ErrFileNotFound is returned when no file record matches the id.
	ErrFileNotFound = errors.New("file not found")

	// ErrUnsupportedSchemaVersion is returned when a row carries a
	// schema_version this build cannot upgrade.
	ErrUnsupportedSchemaVersion = errors.New("unsupported record schema version")

	// ErrCorruptRecord is returned when a row violates the layout of the
	// schema_version it claims.
	ErrCorruptRecord = errors.New("corrupt record")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrConnecting is returned when the database cannot be opened or
	// pinged at startup.
	ErrConnecting = errors.New("error connecting to database")

	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when iterating a multi-row result fails.
	ErrScanningRows = errors.New("failed to scan rows")
)
