package validators

import "unicode"

// MinPasswordLength is the minimum accepted password length, counted in
// runes so multi-byte characters are not penalized.
const MinPasswordLength = 8

type passwordValidator struct{}

// NewPasswordValidator constructs the account password policy validator:
// at least [MinPasswordLength] characters, at least one letter, at least
// one digit.
func NewPasswordValidator() PasswordValidator {
	return &passwordValidator{}
}

// Validate implements [PasswordValidator]. Rules are checked in a fixed
// order and the first violation is returned, so the user sees one concrete
// problem at a time.
func (v *passwordValidator) Validate(password string) error {
	runes := []rune(password)
	if len(runes) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	var hasLetter, hasDigit bool
	for _, r := range runes {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasLetter {
		return ErrPasswordNeedsLetter
	}
	if !hasDigit {
		return ErrPasswordNeedsDigit
	}

	return nil
}
