package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrMissingEmailIndexKey indicates the email lookup digest key was not
	// provided; without it no account can be located.
	ErrMissingEmailIndexKey = errors.New("email index key is required")

	// ErrMissingTokenSignKey indicates the JWT signing key was not provided.
	ErrMissingTokenSignKey = errors.New("token sign key is required")

	// ErrMissingDSN indicates the hosted environment was selected without a
	// database connection string.
	ErrMissingDSN = errors.New("database DSN is required for the hosted environment")

	// ErrUnknownEnvironment indicates Storage.Environment is neither "local"
	// nor "hosted".
	ErrUnknownEnvironment = errors.New("unknown storage environment")
)
