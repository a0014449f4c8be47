// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lev Avdeev

package workers

import (
	"context"
	"time"

	"github.com/avdeevlv/go-pii-vault/internal/keycache"
	"github.com/avdeevlv/go-pii-vault/internal/logger"
)

// ExpiredSessionStore is the narrow persistence surface the sweeper needs
// from the session repository.
type ExpiredSessionStore interface {
	// DeleteExpired removes all sessions expired at the given moment and
	// returns how many rows were dropped.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// sessionSweeper periodically drops expired session rows and, when the key
// cache supports bulk expiry, evicts the matching cached data keys. Expired
// keys are already invisible to readers; the sweep only reclaims storage.
type sessionSweeper struct {
	sessions ExpiredSessionStore
	cache    keycache.Cache
	interval time.Duration
	logger   *logger.Logger
}

// NewSessionSweeper constructs a [Worker] that sweeps expired sessions every
// interval.
func NewSessionSweeper(sessions ExpiredSessionStore, cache keycache.Cache, interval time.Duration, logger *logger.Logger) Worker {
	return &sessionSweeper{
		sessions: sessions,
		cache:    cache,
		interval: interval,
		logger:   logger,
	}
}

// Run implements [Worker]. It spawns the sweep loop and returns immediately.
func (s *sessionSweeper) Run() {
	s.logger.Info().Dur("interval", s.interval).Msg("starting session sweeper")

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for range ticker.C {
			s.sweep(context.Background())
		}
	}()
}

func (s *sessionSweeper) sweep(ctx context.Context) {
	deleted, err := s.sessions.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.logger.Err(err).Msg("failed to delete expired sessions")
	} else if deleted > 0 {
		s.logger.Info().Int64("deleted", deleted).Msg("swept expired sessions")
	}

	if sweepable, ok := s.cache.(keycache.Sweepable); ok {
		if evicted := sweepable.EvictExpired(ctx); evicted > 0 {
			s.logger.Info().Int("evicted", evicted).Msg("evicted expired session keys")
		}
	}
}
