package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
	err  error
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = ttl
	return nil
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockStore) AdminSessionKey(sessionID string) string {
	return fmt.Sprintf("sess:%s", sessionID)
}

func newTestManager(store *mockStore) *Manager {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &Manager{
		store: store,
		keyer: store,
		ttl:   24 * time.Hour,
		now:   func() time.Time { return fixed },
	}
}

func TestManagerCreateAndRevoke(t *testing.T) {
	store := newMockStore()
	manager := newTestManager(store)
	ctx := context.Background()

	sessionID, err := manager.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	key := store.AdminSessionKey(sessionID)
	if got := store.data[key]; got != "2026-01-02T03:04:05Z" {
		t.Fatalf("expected issued timestamp stored, got %q", got)
	}
	if store.ttls[key] != 24*time.Hour {
		t.Fatalf("expected 24h ttl, got %v", store.ttls[key])
	}

	ok, err := manager.HasSession(ctx, sessionID)
	if err != nil || !ok {
		t.Fatalf("expected active session, ok=%v err=%v", ok, err)
	}

	if err := manager.Revoke(ctx, sessionID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	ok, err = manager.HasSession(ctx, sessionID)
	if err != nil || ok {
		t.Fatalf("expected revoked session, ok=%v err=%v", ok, err)
	}

	if err := manager.Revoke(ctx, sessionID); err != nil {
		t.Fatalf("second revoke should be a no-op: %v", err)
	}
}

func TestManagerHasSessionBlankID(t *testing.T) {
	manager := newTestManager(newMockStore())
	ok, err := manager.HasSession(context.Background(), "  ")
	if err != nil || ok {
		t.Fatalf("expected blank id to be inactive, ok=%v err=%v", ok, err)
	}
	if err := manager.Revoke(context.Background(), ""); err == nil {
		t.Fatal("expected error revoking blank id")
	}
}

func TestManagerPropagatesStoreErrors(t *testing.T) {
	store := newMockStore()
	store.err = errors.New("redis down")
	manager := newTestManager(store)

	if _, err := manager.Create(context.Background()); err == nil {
		t.Fatal("expected create to fail")
	}
	if _, err := manager.HasSession(context.Background(), "abc"); err == nil {
		t.Fatal("expected lookup to fail")
	}
}
