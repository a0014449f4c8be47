package crypto

import "golang.org/x/crypto/bcrypt"

// PasswordHasher provides one-way, salted, adaptively-costed password hashing
// for login verification. It never touches PII keys: the wrapping key is
// derived separately via the KDF, so compromising the hash store reveals
// nothing about stored field data.
//
// bcrypt embeds its cost factor and salt in the hash string itself, so old
// hashes keep verifying after the cost is raised for new ones.
type PasswordHasher struct {
	cost int
}

// DefaultPasswordHashCost is the bcrypt work factor used for new hashes.
const DefaultPasswordHashCost = 12

// NewPasswordHasher constructs a [PasswordHasher] with the given bcrypt cost.
// A non-positive cost falls back to [DefaultPasswordHashCost].
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost <= 0 {
		cost = DefaultPasswordHashCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns the salted adaptive hash of password. The salt is drawn
// internally and embedded in the returned string.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether password matches the stored hash. A wrong password
// returns false, never an error; malformed stored hashes also verify as
// false so that callers see a single generic failure mode.
func (h *PasswordHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
