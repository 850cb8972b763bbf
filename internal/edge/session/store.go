package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"
)

// Store - долговременное хранилище сессий. Весь набор сессий сохраняется
// одним именованным JSON-блобом: сессий у шлюза немного, а атомарная запись
// файла проще инкрементальной.
type Store interface {
	Save(ctx context.Context, blob []byte) error
	Load(ctx context.Context) ([]byte, error)
}

// FileStore пишет блоб в файл через временный файл + rename.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Save(ctx context.Context, blob []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o600); err != nil {
		return fmt.Errorf("write session blob: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename session blob: %w", err)
	}
	return nil
}

func (s *FileStore) Load(ctx context.Context) ([]byte, error) {
	blob, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session blob: %w", err)
	}
	return blob, nil
}

// RedisStore хранит блоб одним ключом в Redis.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = "edge:sessions"
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Save(ctx context.Context, blob []byte) error {
	return s.client.Set(ctx, s.key, blob, 0).Err()
}

func (s *RedisStore) Load(ctx context.Context) ([]byte, error) {
	blob, err := s.client.Get(ctx, s.key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return blob, nil
}

func marshalSessions(sessions map[string]*Session) ([]byte, error) {
	snaps := make([]snapshot, 0, len(sessions))
	for _, s := range sessions {
		snaps = append(snaps, s.toSnapshot())
	}
	return json.Marshal(snaps)
}

func unmarshalSessions(blob []byte) (map[string]*Session, error) {
	result := make(map[string]*Session)
	if len(blob) == 0 {
		return result, nil
	}
	var snaps []snapshot
	if err := json.Unmarshal(blob, &snaps); err != nil {
		return nil, fmt.Errorf("decode session blob: %w", err)
	}
	for _, snap := range snaps {
		if snap.ID == "" {
			continue
		}
		result[snap.ID] = fromSnapshot(snap)
	}
	return result, nil
}
