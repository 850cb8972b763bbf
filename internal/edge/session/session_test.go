package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTokens() Tokens {
	return Tokens{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(15 * time.Minute),
	}
}

func TestSession_LoginTransition(t *testing.T) {
	sess := New("s1")
	assert.Equal(t, StateAnonymous, sess.State())

	sess.Login(AuthResult{
		User:   &User{ID: "u1", Email: "user@test.com"},
		Tokens: validTokens(),
	})

	assert.Equal(t, StateAuthenticated, sess.State())
	require.NotNil(t, sess.User())
	assert.Equal(t, "u1", sess.User().ID)
}

func TestSession_RejectsIncompleteTokenPair(t *testing.T) {
	sess := New("s1")

	// Access без refresh - запрещенное половинчатое состояние
	sess.Login(AuthResult{
		User:   &User{ID: "u1"},
		Tokens: Tokens{AccessToken: "only-access"},
	})

	assert.Equal(t, StateAnonymous, sess.State())
	assert.Nil(t, sess.User())
	assert.True(t, sess.Tokens().IsZero())
}

func TestSession_LogoutIdempotent(t *testing.T) {
	sess := New("s1")
	sess.Login(AuthResult{User: &User{ID: "u1"}, Tokens: validTokens()})

	sess.Logout()
	sess.Logout()

	assert.Equal(t, StateAnonymous, sess.State())
	assert.Nil(t, sess.User())
	assert.True(t, sess.Tokens().IsZero())
}

func TestSession_UpdateTokensKeepsUser(t *testing.T) {
	sess := New("s1")
	sess.Login(AuthResult{User: &User{ID: "u1"}, Tokens: validTokens()})

	sess.UpdateTokens(Tokens{
		AccessToken:  "rotated-access",
		RefreshToken: "rotated-refresh",
		ExpiresAt:    time.Now().Add(15 * time.Minute),
	})

	assert.Equal(t, StateAuthenticated, sess.State())
	assert.Equal(t, "u1", sess.User().ID)
	assert.Equal(t, "rotated-access", sess.Tokens().AccessToken)
}

func TestSession_UpdateTokensRejectsPartialPair(t *testing.T) {
	sess := New("s1")
	sess.Login(AuthResult{User: &User{ID: "u1"}, Tokens: validTokens()})

	sess.UpdateTokens(Tokens{AccessToken: "lonely"})

	assert.Equal(t, "access", sess.Tokens().AccessToken)
}

func TestSession_SetOnboardingCompleted(t *testing.T) {
	sess := New("s1")
	sess.Login(AuthResult{User: &User{ID: "u1"}, Tokens: validTokens()})

	sess.SetOnboardingCompleted(true)

	assert.True(t, sess.User().OnboardingCompleted)
}

func TestManager_UnknownBeforeHydration(t *testing.T) {
	manager := NewManager(NewFileStore(filepath.Join(t.TempDir(), "sessions.json")))

	_, state := manager.Lookup("whatever")
	assert.Equal(t, StateUnknown, state, "до гидрации нельзя считать посетителя анонимным")

	require.NoError(t, manager.Hydrate(context.Background()))

	_, state = manager.Lookup("whatever")
	assert.Equal(t, StateAnonymous, state)
}

func TestManager_PersistAndHydrateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")
	ctx := context.Background()

	manager := NewManager(NewFileStore(path))
	require.NoError(t, manager.Hydrate(ctx))

	sess := manager.GetOrCreate("")
	sess.Login(AuthResult{
		User:   &User{ID: "u1", Email: "user@test.com", Role: "regular"},
		Tokens: validTokens(),
	})
	require.NoError(t, manager.Persist(ctx))

	// Новый менеджер читает тот же файл
	restored := NewManager(NewFileStore(path))
	require.NoError(t, restored.Hydrate(ctx))

	got, state := restored.Lookup(sess.ID())
	require.Equal(t, StateAuthenticated, state)
	assert.Equal(t, "u1", got.User().ID)
	assert.Equal(t, "access", got.Tokens().AccessToken)
}

func TestManager_DropRemovesSession(t *testing.T) {
	manager := NewManager(NewFileStore(filepath.Join(t.TempDir(), "sessions.json")))
	require.NoError(t, manager.Hydrate(context.Background()))

	sess := manager.GetOrCreate("")
	manager.Drop(sess.ID())

	_, state := manager.Lookup(sess.ID())
	assert.Equal(t, StateAnonymous, state)
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "absent.json"))

	blob, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Nil(t, blob)
}
