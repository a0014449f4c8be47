package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/avdeevlv/go-pii-vault/internal/config"
	"github.com/avdeevlv/go-pii-vault/internal/logger"
)

// Local-environment schema, bootstrapped directly rather than through the
// migration runner (the embedded migration SQL targets the PostgreSQL
// dialect). Columns mirror the hosted schema exactly so repositories work
// unchanged against both.
const (
	createAccountsTable = `
		CREATE TABLE IF NOT EXISTS accounts (
			account_id        INTEGER PRIMARY KEY AUTOINCREMENT,
			email_hash        TEXT NOT NULL DEFAULT '',
			email             TEXT NOT NULL DEFAULT '',
			password_hash     TEXT NOT NULL DEFAULT '',
			wrapped_data_key  TEXT NOT NULL DEFAULT '',
			created_at        TIMESTAMP NOT NULL
		);`

	createAccountsEmailHashIndex = `
		CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_email_hash
		ON accounts (email_hash) WHERE email_hash <> '';`

	createSessionsTable = `
		CREATE TABLE IF NOT EXISTS sessions (
			session_id  TEXT PRIMARY KEY,
			account_id  INTEGER NOT NULL,
			data_key    TEXT,
			expires_at  TIMESTAMP NOT NULL,
			created_at  TIMESTAMP NOT NULL
		);`

	createFieldsTable = `
		CREATE TABLE IF NOT EXISTS pii_fields (
			account_id  INTEGER NOT NULL,
			name        TEXT NOT NULL,
			value       TEXT NOT NULL,
			degraded    BOOLEAN NOT NULL DEFAULT FALSE,
			updated_at  TIMESTAMP NOT NULL,
			PRIMARY KEY (account_id, name)
		);`
)

// NewConnectSQLite opens (creating the file and schema if necessary) the
// local-environment SQLite database.
func NewConnectSQLite(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	if err := createLocalDBFileIfNotExists(cfg.DSN); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error creating database file")
		return nil, fmt.Errorf("error creating database file")
	}

	conn, err := sql.Open("sqlite3", cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database")
		return nil, fmt.Errorf("error opening connection to DB")
	}

	if err := conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database (ping)")
		return nil, err
	}

	for _, stmt := range []string{
		createAccountsTable,
		createAccountsEmailHashIndex,
		createSessionsTable,
		createFieldsTable,
	} {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			log.Err(err).Str("func", "NewConnectSQLite").Msg("error bootstrapping schema")
			return nil, fmt.Errorf("error bootstrapping schema: %w", err)
		}
	}
	log.Debug().Str("func", "NewConnectSQLite").Msg("connected to database successfully")

	return &DB{
		DB:     conn,
		logger: log,
	}, nil
}

func createLocalDBFileIfNotExists(dbFile string) error {
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		// if not found - create
		f, err := os.Create(dbFile)
		if err != nil {
			return fmt.Errorf("error creating DB file: %w", err)
		}
		f.Close()
	}

	// file already exists
	return nil
}
