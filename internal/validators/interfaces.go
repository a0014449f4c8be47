// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lev Avdeev

// Package validators provides input validation and enforcement of business
// rules across the application.
//
// The only validator currently shipped is the password strength validator
// used by the account claim and password change flows. Validation failures
// are specific, user-actionable sentinel errors: unlike authentication
// failures, they may name exactly which rule was violated.
package validators

// PasswordValidator checks a candidate password against the account password
// policy.
type PasswordValidator interface {

	// Validate returns nil for an acceptable password, or one of the
	// ErrPassword* sentinels naming the first violated rule.
	Validate(password string) error
}
