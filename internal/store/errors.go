package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known
// failure conditions. Callers should use [errors.Is] to match against
// these values.
var (
	// ErrFolderNotFound is returned when a query or update targets a folder
	// id that does not exist in the database.
	ErrFolderNotFound = errors.New("folder was not found")

	// ErrFolderNotSaved is returned when an INSERT or UPDATE completes
	// without error but the number of affected rows is zero, indicating
	// that nothing was actually persisted.
	ErrFolderNotSaved = errors.New("folder was not saved")

	// ErrVisibilityMismatch is returned when a write uses the wrong path
	// for the folder's visibility: plaintext items into a private folder,
	// or an encrypted blob into a public one.
	ErrVisibilityMismatch = errors.New("write path does not match folder visibility")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain
// logic can be applied.
var (
	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan folder row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan folder rows")
)
