// Package session хранит состояние аутентификации пользователей edge-шлюза.
// Сессия - явный объект, привязанный к sid cookie; глобального состояния нет.
package session

import (
	"sync"
	"time"
)

// State - состояние сессии. Unknown означает "еще не знаем": до завершения
// гидрации хранилища нельзя утверждать, что пользователь анонимен.
type State int

const (
	StateUnknown State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// User - профиль, каким его отдает backend.
type User struct {
	ID                  string `json:"id"`
	Email               string `json:"email"`
	FullName            string `json:"full_name"`
	Role                string `json:"role"`
	OnboardingCompleted bool   `json:"onboarding_completed"`
}

// Tokens - пара токенов backend'а. Либо оба присутствуют, либо оба пусты.
type Tokens struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (t Tokens) IsZero() bool {
	return t.AccessToken == "" && t.RefreshToken == ""
}

// AuthResult - результат login/signup/refresh от backend'а.
type AuthResult struct {
	User   *User
	Tokens Tokens
}

// Session - одна пользовательская сессия. Все методы потокобезопасны.
type Session struct {
	mu     sync.RWMutex
	id     string
	state  State
	user   *User
	tokens Tokens
}

func New(id string) *Session {
	return &Session{
		id:    id,
		state: StateAnonymous,
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) Tokens() Tokens {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens
}

// Login переводит сессию в Authenticated. Токены принимаются только парой:
// половинчатое состояние (access без refresh) запрещено.
func (s *Session) Login(result AuthResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if result.Tokens.AccessToken == "" || result.Tokens.RefreshToken == "" {
		// Неполная пара не меняет состояние
		return
	}

	s.user = result.User
	s.tokens = result.Tokens
	s.state = StateAuthenticated
}

// Logout сбрасывает сессию в Anonymous. Идемпотентен.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.tokens = Tokens{}
	s.state = StateAnonymous
}

// UpdateTokens заменяет пару токенов после refresh, не трогая пользователя
// и состояние.
func (s *Session) UpdateTokens(tokens Tokens) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		return
	}
	s.tokens = tokens
}

// SetOnboardingCompleted обновляет флаг онбординга независимо от токенов.
func (s *Session) SetOnboardingCompleted(done bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user != nil {
		s.user.OnboardingCompleted = done
	}
}

// snapshot - сериализуемое представление для Store.
type snapshot struct {
	ID     string `json:"id"`
	State  int    `json:"state"`
	User   *User  `json:"user,omitempty"`
	Tokens Tokens `json:"tokens"`
}

func (s *Session) toSnapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		ID:     s.id,
		State:  int(s.state),
		User:   s.user,
		Tokens: s.tokens,
	}
}

func fromSnapshot(snap snapshot) *Session {
	state := State(snap.State)
	// Unknown не сохраняется: после рестарта сессия либо
	// аутентифицирована, либо анонимна
	if state == StateUnknown {
		state = StateAnonymous
	}
	return &Session{
		id:     snap.ID,
		state:  state,
		user:   snap.User,
		tokens: snap.Tokens,
	}
}
