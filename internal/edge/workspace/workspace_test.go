package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestOpenChat_NewTab(t *testing.T) {
	ws := New()

	tab := ws.OpenChat(nil)

	assert.NotEmpty(t, tab.ID)
	assert.Equal(t, "New Chat", tab.Title)
	assert.Nil(t, tab.ChatID)

	snap := ws.Snapshot()
	require.Len(t, snap.Tabs, 1)
	assert.Equal(t, tab.ID, snap.ActiveTabID)
}

func TestOpenChat_ExistingChatPendingTitle(t *testing.T) {
	ws := New()

	tab := ws.OpenChat(strPtr("chat-1"))

	// Заглушка до загрузки настоящего заголовка отличается от
	// заголовка новой несохраненной вкладки
	assert.Equal(t, "Chat", tab.Title)
	require.NotNil(t, tab.ChatID)
}

func TestOpenChat_DedupeByChatID(t *testing.T) {
	ws := New()

	first := ws.OpenChat(strPtr("chat-1"))
	ws.OpenChat(nil)
	second := ws.OpenChat(strPtr("chat-1"))

	// Повторное открытие того же чата фокусирует существующую вкладку
	assert.Equal(t, first.ID, second.ID)

	snap := ws.Snapshot()
	assert.Len(t, snap.Tabs, 2)
	assert.Equal(t, first.ID, snap.ActiveTabID)
}

func TestOpenChat_DifferentChatsGetOwnTabs(t *testing.T) {
	ws := New()

	a := ws.OpenChat(strPtr("chat-a"))
	b := ws.OpenChat(strPtr("chat-b"))

	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, ws.Snapshot().Tabs, 2)
}

func TestCloseTab_ActivatesPrevious(t *testing.T) {
	ws := New()

	t1 := ws.OpenChat(nil)
	t2 := ws.OpenChat(nil)
	t3 := ws.OpenChat(nil)
	assert.Equal(t, t3.ID, ws.Snapshot().ActiveTabID)

	ws.CloseTab(t3.ID)
	assert.Equal(t, t2.ID, ws.Snapshot().ActiveTabID)

	ws.CloseTab(t2.ID)
	assert.Equal(t, t1.ID, ws.Snapshot().ActiveTabID)
}

func TestCloseTab_FirstTabActivatesNewFirst(t *testing.T) {
	ws := New()

	t1 := ws.OpenChat(nil)
	t2 := ws.OpenChat(nil)
	ws.ActivateTab(t1.ID)

	ws.CloseTab(t1.ID)

	assert.Equal(t, t2.ID, ws.Snapshot().ActiveTabID)
}

func TestCloseTab_LastTabClearsActive(t *testing.T) {
	ws := New()

	tab := ws.OpenChat(nil)
	ws.CloseTab(tab.ID)

	snap := ws.Snapshot()
	assert.Empty(t, snap.Tabs)
	assert.Empty(t, snap.ActiveTabID)
}

func TestCloseTab_InactiveKeepsActive(t *testing.T) {
	ws := New()

	t1 := ws.OpenChat(nil)
	t2 := ws.OpenChat(nil)

	ws.CloseTab(t1.ID)

	assert.Equal(t, t2.ID, ws.Snapshot().ActiveTabID)
}

func TestOnAnalysisSaved_UnsavedToSaved(t *testing.T) {
	ws := New()

	tab := ws.OpenChat(nil)
	before := ws.RefreshTrigger()

	ws.OnAnalysisSaved(tab.ID, "chat-42", "Contract Analysis")

	got, ok := ws.Tab(tab.ID)
	require.True(t, ok)
	require.NotNil(t, got.ChatID)
	assert.Equal(t, "chat-42", *got.ChatID)
	assert.Equal(t, "Contract Analysis", got.Title)
	assert.Greater(t, ws.RefreshTrigger(), before)
}

func TestOnAnalysisSaved_AlreadySavedUntouched(t *testing.T) {
	ws := New()

	tab := ws.OpenChat(strPtr("chat-1"))
	before := ws.RefreshTrigger()

	ws.OnAnalysisSaved(tab.ID, "chat-other", "Hijack")

	got, _ := ws.Tab(tab.ID)
	assert.Equal(t, "chat-1", *got.ChatID)
	assert.Equal(t, before, ws.RefreshTrigger())
}

func TestOnAnalysisSaved_KeepsFallbackTitleWhenEmpty(t *testing.T) {
	ws := New()

	tab := ws.OpenChat(nil)
	ws.OnAnalysisSaved(tab.ID, "chat-1", "")

	got, _ := ws.Tab(tab.ID)
	assert.Equal(t, "New Chat", got.Title)
}

func TestOnAnalysisSaved_LaterOpenChatFocusesSameTab(t *testing.T) {
	ws := New()

	saved := ws.OpenChat(nil)
	other := ws.OpenChat(nil)
	ws.OnAnalysisSaved(saved.ID, "chat-42", "deal.pdf")

	reopened := ws.OpenChat(strPtr("chat-42"))

	assert.Equal(t, saved.ID, reopened.ID)
	assert.Equal(t, saved.ID, ws.Snapshot().ActiveTabID)
	assert.NotEqual(t, other.ID, reopened.ID)
	assert.Len(t, ws.Snapshot().Tabs, 2)
}

func TestDeliver_DropsAfterClose(t *testing.T) {
	ws := New()

	tab := ws.OpenChat(nil)
	ticket, ok := ws.TicketFor(tab.ID)
	require.True(t, ok)

	ws.CloseTab(tab.ID)

	delivered := ws.Deliver(ticket, Message{Role: "assistant", Content: "late"})
	assert.False(t, delivered)
}

func TestDeliver_InactiveTabMarkedUnread(t *testing.T) {
	ws := New()

	origin := ws.OpenChat(nil)
	ticket, _ := ws.TicketFor(origin.ID)

	// Пользователь переключился на другую вкладку, пока шел анализ
	other := ws.OpenChat(nil)

	delivered := ws.Deliver(ticket, Message{Role: "assistant", Content: "done"})
	require.True(t, delivered)

	got, _ := ws.Tab(origin.ID)
	assert.True(t, got.Unread)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "done", got.Messages[0].Content)

	// Активная вкладка сообщения не получила
	active, _ := ws.Tab(other.ID)
	assert.Empty(t, active.Messages)
}

func TestActivateTab_ClearsUnread(t *testing.T) {
	ws := New()

	origin := ws.OpenChat(nil)
	ticket, _ := ws.TicketFor(origin.ID)
	ws.OpenChat(nil)
	ws.Deliver(ticket, Message{Role: "assistant", Content: "x"})

	ws.ActivateTab(origin.ID)

	got, _ := ws.Tab(origin.ID)
	assert.False(t, got.Unread)
}

func TestOnChatDeleted_OrphansTab(t *testing.T) {
	ws := New()

	tab := ws.OpenChat(strPtr("chat-1"))
	ws.SetTitle(tab.ID, "My Contract")
	before := ws.RefreshTrigger()

	ws.OnChatDeleted("chat-1")

	got, ok := ws.Tab(tab.ID)
	require.True(t, ok, "вкладка остается открытой")
	assert.Nil(t, got.ChatID)
	assert.Equal(t, "My Contract", got.Title)
	assert.Greater(t, ws.RefreshTrigger(), before)
}
