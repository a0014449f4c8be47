// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lev Avdeev

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/avdeevlv/go-pii-vault/internal/config"
	"github.com/avdeevlv/go-pii-vault/internal/keycache"
	"github.com/avdeevlv/go-pii-vault/internal/logger"
)

// Environment bundles the resolved storage backend with the session key
// cache appropriate for it. The two environments differ only here; every
// layer above works against the same repositories and cache interface.
//
//   - local: single-process deployment, SQLite file, in-memory key cache.
//   - hosted: multi-process deployment, PostgreSQL with embedded
//     migrations, key cache backed by session rows so any process can
//     serve any session.
type Environment struct {
	Name     string
	DB       *DB
	Storages *Storages
	KeyCache keycache.Cache
}

// ResolveEnvironment opens the configured backend and selects the matching
// key cache. Cached keys live at most sessionTTL in either environment.
func ResolveEnvironment(ctx context.Context, cfg config.Storage, sessionTTL time.Duration, log *logger.Logger) (*Environment, error) {
	switch cfg.Environment {
	case config.EnvironmentLocal:
		db, err := NewConnectSQLite(ctx, cfg.DB, log)
		if err != nil {
			return nil, fmt.Errorf("local environment: %w", err)
		}

		return &Environment{
			Name:     config.EnvironmentLocal,
			DB:       db,
			Storages: NewStorages(db, log),
			KeyCache: keycache.NewMemoryCache(sessionTTL),
		}, nil

	case config.EnvironmentHosted:
		db, err := NewConnectPostgres(ctx, cfg.DB, log)
		if err != nil {
			return nil, fmt.Errorf("hosted environment: %w", err)
		}
		if err := db.Migrate(); err != nil {
			return nil, fmt.Errorf("hosted environment: applying migrations: %w", err)
		}

		storages := NewStorages(db, log)

		return &Environment{
			Name:     config.EnvironmentHosted,
			DB:       db,
			Storages: storages,
			KeyCache: keycache.NewSessionCache(storages.SessionRepository, log),
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownEnvironment, cfg.Environment)
	}
}
