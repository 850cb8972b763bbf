// Package querycache кэширует читающие запросы edge-шлюза к backend'у.
// Инвалидация грубая, на уровне коллекции: любая запись в коллекцию
// сбрасывает все ее ключи.
package querycache

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"time"

	"artnuggets/internal/logger"

	"golang.org/x/sync/singleflight"
)

// Collection группирует ключи кэша по предметной области.
type Collection string

const (
	CollectionTaxonomy  Collection = "taxonomy"
	CollectionCourses   Collection = "courses"
	CollectionDashboard Collection = "dashboard"
	CollectionProgress  Collection = "progress"
	CollectionChats     Collection = "chats"
)

// staleTime - срок, после которого запись считается устаревшей и чтение
// идет в backend (через singleflight). Справочники меняются редко,
// прогресс - часто.
func staleTime(col Collection) time.Duration {
	switch col {
	case CollectionTaxonomy:
		return 5 * time.Minute
	case CollectionCourses, CollectionDashboard:
		return 2 * time.Minute
	case CollectionProgress, CollectionChats:
		return 1 * time.Minute
	default:
		return time.Minute
	}
}

// Entry - кэшированный ответ backend'а как есть, байтами JSON.
type Entry struct {
	Payload   []byte    `json:"payload"`
	FetchedAt time.Time `json:"fetched_at"`
}

// FetchFunc загружает свежее значение при промахе или устаревании.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Cache - кэш запросов с дедупликацией конкурентных загрузок.
type Cache struct {
	store Store
	group singleflight.Group
	now   func() time.Time
}

func New(store Store) *Cache {
	return &Cache{
		store: store,
		now:   time.Now,
	}
}

// Key строит ключ из пути и канонизированных query-параметров:
// параметры сортируются, чтобы ?a=1&b=2 и ?b=2&a=1 совпадали.
func Key(col Collection, path string, params url.Values) string {
	var sb strings.Builder
	sb.WriteString(string(col))
	sb.WriteByte(':')
	sb.WriteString(path)

	if len(params) > 0 {
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteByte('?')
		first := true
		for _, k := range keys {
			values := append([]string(nil), params[k]...)
			sort.Strings(values)
			for _, v := range values {
				if !first {
					sb.WriteByte('&')
				}
				first = false
				sb.WriteString(url.QueryEscape(k))
				sb.WriteByte('=')
				sb.WriteString(url.QueryEscape(v))
			}
		}
	}
	return sb.String()
}

// Fetch возвращает кэшированный ответ, пока он свеж; устаревший или
// отсутствующий ключ загружается через singleflight - на ключ летит
// не больше одного запроса к backend'у одновременно. Если загрузка
// упала, а устаревшая запись есть, отдаем ее.
func (c *Cache) Fetch(ctx context.Context, col Collection, key string, fetch FetchFunc) ([]byte, error) {
	entry, found, err := c.store.Get(ctx, key)
	if err != nil {
		logger.Warn("Cache store read failed", "key", key, "error", err)
		found = false
	}
	if found && c.now().Sub(entry.FetchedAt) < staleTime(col) {
		return entry.Payload, nil
	}

	payload, err, _ := c.group.Do(key, func() (interface{}, error) {
		fresh, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		newEntry := Entry{Payload: fresh, FetchedAt: c.now()}
		if err := c.store.Set(ctx, col, key, newEntry); err != nil {
			logger.Warn("Cache store write failed", "key", key, "error", err)
		}
		return fresh, nil
	})
	if err != nil {
		if found {
			logger.Warn("Refetch failed, serving stale entry", "key", key, "error", err)
			return entry.Payload, nil
		}
		return nil, err
	}
	return payload.([]byte), nil
}

// Invalidate сбрасывает всю коллекцию. Вызывается после любой записи,
// затрагивающей ее данные.
func (c *Cache) Invalidate(ctx context.Context, cols ...Collection) {
	for _, col := range cols {
		if err := c.store.Invalidate(ctx, col); err != nil {
			logger.Warn("Cache invalidation failed", "collection", string(col), "error", err)
		}
	}
}
