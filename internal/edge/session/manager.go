package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"

	"artnuggets/internal/logger"
)

// Manager владеет всеми сессиями шлюза, ключ - значение sid cookie.
// До завершения Hydrate любой lookup сообщает StateUnknown: нельзя
// принять решение "пользователь анонимен", пока блоб не прочитан.
type Manager struct {
	mu       sync.RWMutex
	store    Store
	sessions map[string]*Session
	hydrated bool
}

func NewManager(store Store) *Manager {
	return &Manager{
		store:    store,
		sessions: make(map[string]*Session),
	}
}

// Hydrate загружает сохраненные сессии из Store. Вызывается один раз
// при старте; до вызова Lookup возвращает StateUnknown.
func (m *Manager) Hydrate(ctx context.Context) error {
	blob, err := m.store.Load(ctx)
	if err != nil {
		return err
	}
	sessions, err := unmarshalSessions(blob)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.sessions = sessions
	m.hydrated = true
	m.mu.Unlock()

	logger.Info("Session store hydrated", "sessions", len(sessions))
	return nil
}

// Hydrated сообщает, завершилась ли гидрация.
func (m *Manager) Hydrated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hydrated
}

// Lookup возвращает сессию по sid и ее состояние. Для незнакомого sid
// после гидрации состояние Anonymous, до гидрации - Unknown.
func (m *Manager) Lookup(sid string) (*Session, State) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.hydrated {
		return nil, StateUnknown
	}
	if s, ok := m.sessions[sid]; ok && sid != "" {
		return s, s.State()
	}
	return nil, StateAnonymous
}

// GetOrCreate возвращает сессию по sid, создавая новую при необходимости.
// Пустой sid всегда порождает новую сессию со свежим идентификатором.
func (m *Manager) GetOrCreate(sid string) *Session {
	if sid != "" {
		m.mu.RLock()
		s, ok := m.sessions[sid]
		m.mu.RUnlock()
		if ok {
			return s
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if sid == "" {
		sid = newSessionID()
	}
	if s, ok := m.sessions[sid]; ok {
		return s
	}
	s := New(sid)
	m.sessions[sid] = s
	return s
}

// Drop удаляет сессию целиком (используется при logout).
func (m *Manager) Drop(sid string) {
	m.mu.Lock()
	delete(m.sessions, sid)
	m.mu.Unlock()
}

// Persist сбрасывает текущее множество сессий в Store.
func (m *Manager) Persist(ctx context.Context) error {
	m.mu.RLock()
	blob, err := marshalSessions(m.sessions)
	m.mu.RUnlock()
	if err != nil {
		return err
	}
	return m.store.Save(ctx, blob)
}

func newSessionID() string {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		panic("session: crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(buf)
}
