package validators

import "errors"

var (
	// ErrPasswordTooShort is returned when the password is shorter than the
	// policy minimum.
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")

	// ErrPasswordNeedsLetter is returned when the password contains no letter.
	ErrPasswordNeedsLetter = errors.New("password must contain at least one letter")

	// ErrPasswordNeedsDigit is returned when the password contains no digit.
	ErrPasswordNeedsDigit = errors.New("password must contain at least one digit")
)
