package service

import "errors"

// EncryptedPlaceholder is the fixed sentinel returned for a field value that
// is stored encrypted but cannot be decrypted right now (no data key in the
// session cache, or a record that fails authentication). Callers rendering
// many fields receive this per-field instead of an aborted request.
const EncryptedPlaceholder = "[encrypted]"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrInvalidCredentials is the single generic authentication error.
	// Wrong email, wrong password, and a failed data-key unwrap all surface
	// as this value so a caller cannot probe which check failed.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrDuplicateAccount is returned when a claim targets an email whose
	// hash is already indexed to a claimed account. Deliberately distinct
	// from ErrInvalidCredentials.
	ErrDuplicateAccount = errors.New("account already exists")

	// ErrAccountNotClaimed is returned by authenticated flows that reach an
	// account with no password set.
	ErrAccountNotClaimed = errors.New("account is not claimed")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
)
