package cart

import (
	"context"
	"sync"
	"time"

	redisclient "github.com/aryansdevstudios/toppers-toolkit-backend/pkg/redis"
)

// Storage persists the serialized cart of one visitor token. Load reports
// found=false when nothing is stored.
type Storage interface {
	Load(ctx context.Context, token string) (payload string, found bool, err error)
	Save(ctx context.Context, token, payload string) error
	Delete(ctx context.Context, token string) error
}

type redisStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartKey(token string) string
}

// RedisStorage keeps carts in Redis with a sliding TTL refreshed on every write.
type RedisStorage struct {
	client redisStore
	ttl    time.Duration
}

func NewRedisStorage(client *redisclient.Client, ttl time.Duration) *RedisStorage {
	return &RedisStorage{client: client, ttl: ttl}
}

func (s *RedisStorage) Load(ctx context.Context, token string) (string, bool, error) {
	payload, err := s.client.Get(ctx, s.client.CartKey(token))
	if redisclient.IsNil(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return payload, true, nil
}

func (s *RedisStorage) Save(ctx context.Context, token, payload string) error {
	return s.client.Set(ctx, s.client.CartKey(token), payload, s.ttl)
}

func (s *RedisStorage) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.client.CartKey(token))
}

// MemoryStorage is a process-local Storage for tests and single-node dev runs.
type MemoryStorage struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: map[string]string{}}
}

func (s *MemoryStorage) Load(_ context.Context, token string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, ok := s.data[token]
	return payload, ok, nil
}

func (s *MemoryStorage) Save(_ context.Context, token, payload string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[token] = payload
	return nil
}

func (s *MemoryStorage) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, token)
	return nil
}
