package utils

import "github.com/google/uuid"

// UUIDGenerator produces session identifiers. Version 7 UUIDs are preferred
// for their time-ordered layout; random v4 is the fallback when the system
// entropy source misbehaves.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
