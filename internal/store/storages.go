package store

import "github.com/avdeevlv/go-pii-vault/internal/logger"

// Storages aggregates all repositories built on a single database
// connection.
type Storages struct {
	AccountRepository AccountRepository
	SessionRepository SessionRepository
	FieldRepository   FieldRepository
}

// NewStorages wires every repository to the given connection.
func NewStorages(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		AccountRepository: NewAccountRepository(db, log),
		SessionRepository: NewSessionRepository(db, log),
		FieldRepository:   NewFieldRepository(db, log),
	}
}
