package querycache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Store - бэкенд хранения кэша.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, col Collection, key string, entry Entry) error
	Invalidate(ctx context.Context, col Collection) error
}

// MemoryStore - in-process хранилище; ключи сгруппированы по коллекции,
// чтобы инвалидация не сканировала всю карту.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[Collection]map[string]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[Collection]map[string]Entry),
	}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col := collectionOfKey(key)
	if bucket, ok := s.entries[col]; ok {
		if entry, ok := bucket[key]; ok {
			return entry, true, nil
		}
	}
	return Entry{}, false, nil
}

func (s *MemoryStore) Set(ctx context.Context, col Collection, key string, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.entries[col]
	if !ok {
		bucket = make(map[string]Entry)
		s.entries[col] = bucket
	}
	bucket[key] = entry
	return nil
}

func (s *MemoryStore) Invalidate(ctx context.Context, col Collection) error {
	s.mu.Lock()
	delete(s.entries, col)
	s.mu.Unlock()
	return nil
}

// collectionOfKey восстанавливает коллекцию из префикса ключа Key().
func collectionOfKey(key string) Collection {
	if idx := strings.IndexByte(key, ':'); idx > 0 {
		return Collection(key[:idx])
	}
	return Collection(key)
}

const redisKeyPrefix = "edge:cache:"

// RedisStore хранит записи отдельными ключами с TTL вдвое больше срока
// устаревания, инвалидация - SCAN по префиксу коллекции.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return Entry{}, false, err
	}
	return entry, true, nil
}

func (s *RedisStore) Set(ctx context.Context, col Collection, key string, entry Entry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisKeyPrefix+key, raw, 2*staleTime(col)).Err()
}

func (s *RedisStore) Invalidate(ctx context.Context, col Collection) error {
	pattern := redisKeyPrefix + string(col) + ":*"
	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}
