package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrDuplicateEmail is returned when an attempt to create an account (or
	// upgrade an email index entry) collides with an existing email hash.
	// Uniqueness of the hash enforces email uniqueness without plaintext
	// comparison.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrAccountNotFound is returned when a lookup by email hash, legacy
	// email, or account ID produces no record.
	ErrAccountNotFound = errors.New("account not found")

	// ErrSessionNotFound is returned when a session row does not exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrFieldNotFound is returned when an account has no value stored under
	// the requested field name.
	ErrFieldNotFound = errors.New("pii field not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrScanningRow is returned when scanning column values from a result
	// row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")
)
