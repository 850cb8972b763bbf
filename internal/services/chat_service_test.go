package services

import (
	"context"
	"testing"

	"artnuggets/internal/analyzer"
	"artnuggets/internal/models"
	"artnuggets/internal/repositories"
	"artnuggets/internal/services/dto"
	"artnuggets/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChatRepo - in-memory реализация ChatRepository для тестов сервиса.
type fakeChatRepo struct {
	chats    map[string]*models.Chat
	messages map[string][]models.ChatMessage
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		chats:    make(map[string]*models.Chat),
		messages: make(map[string][]models.ChatMessage),
	}
}

func (r *fakeChatRepo) Create(chat *models.Chat) error {
	if chat.ID == "" {
		chat.ID = uuid.NewString()
	}
	for i := range chat.Messages {
		if chat.Messages[i].ID == "" {
			chat.Messages[i].ID = uuid.NewString()
		}
		chat.Messages[i].ChatID = chat.ID
	}
	stored := *chat
	r.chats[chat.ID] = &stored
	r.messages[chat.ID] = append([]models.ChatMessage(nil), chat.Messages...)
	return nil
}

func (r *fakeChatRepo) FindByID(id string) (*models.Chat, error) {
	chat, ok := r.chats[id]
	if !ok {
		return nil, repositories.ErrChatNotFound
	}
	copied := *chat
	return &copied, nil
}

func (r *fakeChatRepo) FindByIDWithMessages(id string) (*models.Chat, error) {
	chat, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}
	chat.Messages = append([]models.ChatMessage(nil), r.messages[id]...)
	return chat, nil
}

func (r *fakeChatRepo) FindByUser(userID string) ([]models.Chat, error) {
	var result []models.Chat
	for _, chat := range r.chats {
		if chat.UserID == userID {
			result = append(result, *chat)
		}
	}
	return result, nil
}

func (r *fakeChatRepo) UpdateContractText(chatID, text string) error {
	chat, ok := r.chats[chatID]
	if !ok {
		return repositories.ErrChatNotFound
	}
	chat.ContractText = text
	return nil
}

func (r *fakeChatRepo) Rename(chatID, title string) error {
	chat, ok := r.chats[chatID]
	if !ok {
		return repositories.ErrChatNotFound
	}
	chat.Title = title
	return nil
}

func (r *fakeChatRepo) Delete(chatID string) error {
	if _, ok := r.chats[chatID]; !ok {
		return repositories.ErrChatNotFound
	}
	delete(r.chats, chatID)
	delete(r.messages, chatID)
	return nil
}

func (r *fakeChatRepo) AddMessage(message *models.ChatMessage) error {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	r.messages[message.ChatID] = append(r.messages[message.ChatID], *message)
	return nil
}

func (r *fakeChatRepo) FindMessages(chatID string) ([]models.ChatMessage, error) {
	return r.messages[chatID], nil
}

// fakeAnalyzer записывает, с чем его вызвали.
type fakeAnalyzer struct {
	lastContract string
	lastUserText string
	result       *analyzer.Result
	err          error
	calls        int
}

func (f *fakeAnalyzer) AnalyzeContract(ctx context.Context, contractText, userText string) (*analyzer.Result, error) {
	f.calls++
	f.lastContract = contractText
	f.lastUserText = userText
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeAnalyzer) Chat(ctx context.Context, messages []analyzer.Message) (*analyzer.Result, error) {
	return f.result, nil
}

func newChatFixture() (*fakeChatRepo, *fakeAnalyzer, ChatService) {
	repo := newFakeChatRepo()
	ai := &fakeAnalyzer{result: &analyzer.Result{Response: "Analysis done", Reasoning: "thoughts"}}
	return repo, ai, NewChatService(repo, ai)
}

func TestAnalyzeContract_FileOnlySavesNewChat(t *testing.T) {
	repo, ai, svc := newChatFixture()

	resp, err := svc.AnalyzeContract(context.Background(), "user-1", &dto.AnalyzeContractRequest{
		ContractText: "Full contract text extracted from the PDF.",
		FileName:     "deal.pdf",
		SaveToChat:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Full contract text extracted from the PDF.", ai.lastContract)
	assert.Empty(t, ai.lastUserText)
	require.NotEmpty(t, resp.ChatID)

	chat := repo.chats[resp.ChatID]
	require.NotNil(t, chat)
	// Чат называется по имени файла
	assert.Equal(t, "deal.pdf", chat.Title)
	assert.Equal(t, "Full contract text extracted from the PDF.", chat.ContractText)

	msgs := repo.messages[resp.ChatID]
	require.Len(t, msgs, 2)
	assert.Equal(t, "Uploaded: deal.pdf", msgs[0].Content)
	assert.Equal(t, "Analysis done", msgs[1].Content)
	assert.Equal(t, "thoughts", msgs[1].Reasoning)
}

func TestAnalyzeContract_TextOnlyTreatedAsContract(t *testing.T) {
	_, ai, svc := newChatFixture()

	_, err := svc.AnalyzeContract(context.Background(), "user-1", &dto.AnalyzeContractRequest{
		UserText: "Here is my contract pasted as text.",
	})
	require.NoError(t, err)

	assert.Equal(t, "Here is my contract pasted as text.", ai.lastContract)
	assert.Empty(t, ai.lastUserText)
}

func TestAnalyzeContract_FilePlusTextUsesTextAsQuestion(t *testing.T) {
	_, ai, svc := newChatFixture()

	_, err := svc.AnalyzeContract(context.Background(), "user-1", &dto.AnalyzeContractRequest{
		ContractText: "Contract body.",
		UserText:     "What about royalties?",
	})
	require.NoError(t, err)

	assert.Equal(t, "Contract body.", ai.lastContract)
	assert.Equal(t, "What about royalties?", ai.lastUserText)
}

func TestAnalyzeContract_FollowUpReusesStoredContract(t *testing.T) {
	repo, ai, svc := newChatFixture()

	chat := &models.Chat{UserID: "user-1", Title: "deal.pdf", ContractText: "Stored contract text."}
	require.NoError(t, repo.Create(chat))

	resp, err := svc.AnalyzeContract(context.Background(), "user-1", &dto.AnalyzeContractRequest{
		ChatID:   chat.ID,
		UserText: "Explain termination",
	})
	require.NoError(t, err)

	assert.Equal(t, "Stored contract text.", ai.lastContract)
	assert.Equal(t, "Explain termination", ai.lastUserText)
	assert.Equal(t, chat.ID, resp.ChatID)

	msgs := repo.messages[chat.ID]
	require.Len(t, msgs, 2)
	assert.Equal(t, "Explain termination", msgs[0].Content)
}

func TestAnalyzeContract_NewFileUpdatesChatContract(t *testing.T) {
	repo, _, svc := newChatFixture()

	chat := &models.Chat{UserID: "user-1", Title: "old.pdf", ContractText: "Old contract."}
	require.NoError(t, repo.Create(chat))

	_, err := svc.AnalyzeContract(context.Background(), "user-1", &dto.AnalyzeContractRequest{
		ChatID:       chat.ID,
		ContractText: "New contract text.",
		FileName:     "new.pdf",
	})
	require.NoError(t, err)

	assert.Equal(t, "New contract text.", repo.chats[chat.ID].ContractText)
}

func TestAnalyzeContract_EmptyInputRejected(t *testing.T) {
	_, ai, svc := newChatFixture()

	_, err := svc.AnalyzeContract(context.Background(), "user-1", &dto.AnalyzeContractRequest{})

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrNothingToAnalyze))
	assert.Zero(t, ai.calls)
}

func TestAnalyzeContract_ForeignChatHiddenAsNotFound(t *testing.T) {
	repo, _, svc := newChatFixture()

	chat := &models.Chat{UserID: "owner", Title: "private", ContractText: "secret"}
	require.NoError(t, repo.Create(chat))

	_, err := svc.AnalyzeContract(context.Background(), "intruder", &dto.AnalyzeContractRequest{
		ChatID:   chat.ID,
		UserText: "question",
	})

	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.HTTPCode)
}

func TestAnalyzeContract_DefaultTitleWithoutFile(t *testing.T) {
	repo, _, svc := newChatFixture()

	resp, err := svc.AnalyzeContract(context.Background(), "user-1", &dto.AnalyzeContractRequest{
		UserText:   "Pasted contract text goes here.",
		SaveToChat: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Contract Analysis", repo.chats[resp.ChatID].Title)
}

func TestGetChat_ForeignChatNotFound(t *testing.T) {
	repo, _, svc := newChatFixture()

	chat := &models.Chat{UserID: "owner", Title: "private"}
	require.NoError(t, repo.Create(chat))

	_, err := svc.GetChat(context.Background(), "intruder", chat.ID)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.HTTPCode)
}

func TestRenameAndDeleteChat(t *testing.T) {
	repo, _, svc := newChatFixture()

	chat := &models.Chat{UserID: "user-1", Title: "Contract Analysis"}
	require.NoError(t, repo.Create(chat))

	brief, err := svc.RenameChat(context.Background(), "user-1", chat.ID, "Label deal")
	require.NoError(t, err)
	assert.Equal(t, "Label deal", brief.Title)
	assert.Equal(t, "Label deal", repo.chats[chat.ID].Title)

	require.NoError(t, svc.DeleteChat(context.Background(), "user-1", chat.ID))
	_, exists := repo.chats[chat.ID]
	assert.False(t, exists)
}
