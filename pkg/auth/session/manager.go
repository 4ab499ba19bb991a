package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/config"
	redisclient "github.com/aryansdevstudios/toppers-toolkit-backend/pkg/redis"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	AdminSessionKey(sessionID string) string
}

// Manager registers admin sessions server-side so logout can revoke a marker
// before it expires.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
	now   func() time.Time
}

// Checker exposes the read-only surface needed by middleware.
type Checker interface {
	HasSession(ctx context.Context, sessionID string) (bool, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.SessionConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Manager{
		store: client,
		keyer: client,
		ttl:   cfg.TTL,
		now:   time.Now,
	}, nil
}

// TTL is the lifetime of a registered session.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create registers a new session and returns its id.
func (m *Manager) Create(ctx context.Context) (string, error) {
	sessionID := NewSessionID()
	issued := m.now().UTC().Format(time.RFC3339)
	if err := m.store.Set(ctx, m.keyer.AdminSessionKey(sessionID), issued, m.ttl); err != nil {
		return "", fmt.Errorf("register session: %w", err)
	}
	return sessionID, nil
}

// Revoke deletes the session. Revoking an unknown session is not an error.
func (m *Manager) Revoke(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	return m.store.Del(ctx, m.keyer.AdminSessionKey(sessionID))
}

// HasSession reports whether the session is still registered.
func (m *Manager) HasSession(ctx context.Context, sessionID string) (bool, error) {
	if strings.TrimSpace(sessionID) == "" {
		return false, nil
	}
	if _, err := m.store.Get(ctx, m.keyer.AdminSessionKey(sessionID)); err != nil {
		if errors.Is(err, redislib.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// NewSessionID produces the identifier used as the JWT jti and Redis key.
func NewSessionID() string {
	return uuid.NewString()
}
