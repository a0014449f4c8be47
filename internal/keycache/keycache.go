// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lev Avdeev

// Package keycache holds unwrapped account data keys for the lifetime of an
// authenticated session. A cache entry is created at claim or login
// (immediately after generation or a successful unwrap) and destroyed at
// logout or session expiry. Keys are never persisted in plaintext beyond the
// session-scoped store backing the cache.
//
// A cache miss is a first-class, expected state: callers must treat "no key"
// as the trigger for the graceful degradation policy, never as an error.
package keycache

import "context"

// Cache is the session key cache contract.
//
// Concurrent Put/Get/Evict for different session identifiers must not
// interfere. For the same identifier, the last Put wins and Evict is final.
type Cache interface {
	// Put stores the unwrapped data key for the session, replacing any
	// previous value.
	Put(ctx context.Context, sessionID string, dataKey []byte) error

	// Get returns the data key for the session, or ok=false for an unknown
	// or expired session. Absence is a normal, handleable state.
	Get(ctx context.Context, sessionID string) (dataKey []byte, ok bool)

	// Evict removes the session's key. Evicting an absent session is a no-op.
	Evict(ctx context.Context, sessionID string) error
}

// Sweepable is implemented by caches that accumulate expired entries and
// support bulk removal. The session sweeper worker calls it periodically.
type Sweepable interface {
	// EvictExpired removes all expired entries and returns how many were
	// dropped.
	EvictExpired(ctx context.Context) int
}
