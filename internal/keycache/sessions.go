package keycache

import (
	"context"
	"encoding/base64"

	"github.com/avdeevlv/go-pii-vault/internal/logger"
)

// SessionKeyStore is the narrow persistence surface the store-backed cache
// needs from the session repository. The store package satisfies it; keeping
// the interface here avoids an import cycle and keeps the cache testable with
// an in-memory fake.
//
// Implementations must treat the backing table as session-scoped, ephemeral
// storage: a row's data key lives exactly as long as the session row itself.
type SessionKeyStore interface {
	// SaveDataKey stores the base64 data key on an active session row.
	SaveDataKey(ctx context.Context, sessionID, dataKey string) error

	// GetDataKey returns the base64 data key of an active (non-expired)
	// session, or the empty string when the session is unknown, expired, or
	// holds no key.
	GetDataKey(ctx context.Context, sessionID string) (string, error)

	// ClearDataKey removes the data key from a session row without deleting
	// the session itself.
	ClearDataKey(ctx context.Context, sessionID string) error
}

// sessionCache is the hosted-environment [Cache]: the unwrapped data key is
// kept on the session row itself, so multiple server processes share one
// cache and the key disappears together with the session record.
type sessionCache struct {
	sessions SessionKeyStore
	logger   *logger.Logger
}

// NewSessionCache constructs a [Cache] backed by the session store.
func NewSessionCache(sessions SessionKeyStore, logger *logger.Logger) Cache {
	return &sessionCache{
		sessions: sessions,
		logger:   logger,
	}
}

// Put implements [Cache].
func (c *sessionCache) Put(ctx context.Context, sessionID string, dataKey []byte) error {
	return c.sessions.SaveDataKey(ctx, sessionID, base64.StdEncoding.EncodeToString(dataKey))
}

// Get implements [Cache]. Store failures are logged and reported as a miss:
// callers degrade gracefully on a missing key, and surfacing an error here
// would turn every transient database hiccup into a failed request.
func (c *sessionCache) Get(ctx context.Context, sessionID string) ([]byte, bool) {
	log := logger.FromContext(ctx)

	encoded, err := c.sessions.GetDataKey(ctx, sessionID)
	if err != nil {
		log.Err(err).Str("session_id", sessionID).Msg("session key lookup failed")
		return nil, false
	}
	if encoded == "" {
		return nil, false
	}

	dataKey, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		log.Err(err).Str("session_id", sessionID).Msg("stored session key is not valid base64")
		return nil, false
	}

	return dataKey, true
}

// Evict implements [Cache].
func (c *sessionCache) Evict(ctx context.Context, sessionID string) error {
	return c.sessions.ClearDataKey(ctx, sessionID)
}
