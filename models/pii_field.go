package models

import "time"

// PIIField is a single protected field value belonging to an account.
// Value holds either a serialized [EncryptedField] or, during the migration
// window and in degraded writes, plaintext. Degraded marks values that were
// written in plaintext because no session data key was available at write
// time; such records are a bounded, logged state and are re-encrypted on the
// next keyed read.
type PIIField struct {
	AccountID int64     `json:"-"`
	Name      string    `json:"name"`
	Value     string    `json:"value"`
	Degraded  bool      `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName returns the name of the database table
// associated with the PIIField model.
func (f PIIField) TableName() string {
	return "pii_fields"
}
