package integration_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"artnuggets/internal/models"
	"artnuggets/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createChat(t *testing.T, ts *helpers.TestServer, userID, title string) *models.Chat {
	t.Helper()
	chat := &models.Chat{
		UserID:       userID,
		Title:        title,
		ContractText: "Stored contract text for follow-up questions.",
	}
	require.NoError(t, ts.DB.Create(chat).Error)

	messages := []models.ChatMessage{
		{ChatID: chat.ID, Role: models.MessageRoleUser, Content: "Uploaded: deal.pdf"},
		{ChatID: chat.ID, Role: models.MessageRoleAssistant, Content: "Initial analysis text."},
	}
	for i := range messages {
		require.NoError(t, ts.DB.Create(&messages[i]).Error)
	}
	return chat
}

func TestChatListAndDetail(t *testing.T) {
	ts := GetTestServer(t)

	token, user := helpers.CreateAndLoginRegular(t, ts, ts.DB)
	chat := createChat(t, ts, user.ID, "deal.pdf")

	res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/ai-chat/chats", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Contains(t, body, chat.ID)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/ai-chat/chats/"+chat.ID, token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var detail struct {
		ID          string `json:"id"`
		HasContract bool   `json:"has_contract"`
		Messages    []struct {
			Role string `json:"role"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &detail))
	assert.Equal(t, chat.ID, detail.ID)
	assert.True(t, detail.HasContract)
	require.Len(t, detail.Messages, 2)
	assert.Equal(t, "user", detail.Messages[0].Role)
	assert.Equal(t, "assistant", detail.Messages[1].Role)
}

func TestChatRename(t *testing.T) {
	ts := GetTestServer(t)

	token, user := helpers.CreateAndLoginRegular(t, ts, ts.DB)
	chat := createChat(t, ts, user.ID, "Contract Analysis")

	res, body := ts.SendRequest(t, http.MethodPatch, "/api/v1/ai-chat/chats/"+chat.ID, token, map[string]interface{}{
		"title": "Label negotiation",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var renamed struct {
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &renamed))
	assert.Equal(t, "Label negotiation", renamed.Title)
}

func TestChatDelete(t *testing.T) {
	ts := GetTestServer(t)

	token, user := helpers.CreateAndLoginRegular(t, ts, ts.DB)
	chat := createChat(t, ts, user.ID, "to delete")

	res, _ := ts.SendRequest(t, http.MethodDelete, "/api/v1/ai-chat/chats/"+chat.ID, token, nil)
	require.Equal(t, http.StatusNoContent, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/ai-chat/chats/"+chat.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	// Сообщения удалены вместе с чатом
	var count int64
	ts.DB.Model(&models.ChatMessage{}).Where("chat_id = ?", chat.ID).Count(&count)
	assert.Zero(t, count)
}

func TestChat_ForeignChatHidden(t *testing.T) {
	ts := GetTestServer(t)

	_, owner := helpers.CreateAndLoginRegular(t, ts, ts.DB)
	chat := createChat(t, ts, owner.ID, "private chat")

	intruderToken, _ := helpers.CreateAndLoginRegular(t, ts, ts.DB)

	// Чужой чат неотличим от несуществующего
	res, _ := ts.SendRequest(t, http.MethodGet, "/api/v1/ai-chat/chats/"+chat.ID, intruderToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodDelete, "/api/v1/ai-chat/chats/"+chat.ID, intruderToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
