package workspace

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"artnuggets/internal/edge/apiclient"
	"artnuggets/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatAPI struct {
	analyzeCalls int32
	lastParams   apiclient.AnalyzeParams
	analyzeResp  *dto.AnalyzeContractResponse
	analyzeErr   error

	getChatResp *dto.ChatDetailResponse
	getChatErr  error

	deleteErr error
}

func (f *fakeChatAPI) Analyze(ctx context.Context, params apiclient.AnalyzeParams) (*dto.AnalyzeContractResponse, error) {
	atomic.AddInt32(&f.analyzeCalls, 1)
	f.lastParams = params
	if f.analyzeErr != nil {
		return nil, f.analyzeErr
	}
	return f.analyzeResp, nil
}

func (f *fakeChatAPI) GetChat(ctx context.Context, chatID string) (*dto.ChatDetailResponse, error) {
	if f.getChatErr != nil {
		return nil, f.getChatErr
	}
	return f.getChatResp, nil
}

func (f *fakeChatAPI) DeleteChat(ctx context.Context, chatID string) error {
	return f.deleteErr
}

func pdfUpload(name string, size int) *Upload {
	content := append([]byte("%PDF-1.4\n"), make([]byte, size)...)
	return &Upload{Name: name, ContentType: "application/pdf", Content: content}
}

func TestAnalyze_OversizedFileRejectedWithoutNetwork(t *testing.T) {
	api := &fakeChatAPI{}
	svc := NewService(New(), api)
	tab := svc.OpenChat(nil)

	err := svc.Analyze(context.Background(), tab.ID, pdfUpload("big.pdf", 11<<20), "")

	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Zero(t, api.analyzeCalls, "сетевого вызова быть не должно")
}

func TestAnalyze_NonPDFRejectedWithoutNetwork(t *testing.T) {
	api := &fakeChatAPI{}
	svc := NewService(New(), api)
	tab := svc.OpenChat(nil)

	upload := &Upload{Name: "notes.txt", ContentType: "text/plain", Content: []byte("hello")}
	err := svc.Analyze(context.Background(), tab.ID, upload, "")

	assert.ErrorIs(t, err, ErrNotPDF)
	assert.Zero(t, api.analyzeCalls)
}

func TestAnalyze_PDFExtensionWithWrongMagicRejected(t *testing.T) {
	api := &fakeChatAPI{}
	svc := NewService(New(), api)
	tab := svc.OpenChat(nil)

	upload := &Upload{Name: "fake.pdf", ContentType: "application/pdf", Content: []byte("MZ executable")}
	err := svc.Analyze(context.Background(), tab.ID, upload, "")

	assert.ErrorIs(t, err, ErrNotPDF)
	assert.Zero(t, api.analyzeCalls)
}

func TestAnalyze_EmptySubmissionRejected(t *testing.T) {
	api := &fakeChatAPI{}
	svc := NewService(New(), api)
	tab := svc.OpenChat(nil)

	err := svc.Analyze(context.Background(), tab.ID, nil, "   ")

	assert.ErrorIs(t, err, ErrEmptySubmission)
	assert.Zero(t, api.analyzeCalls)
}

func TestAnalyze_EmptySubmissionOnSavedChatReanalyzes(t *testing.T) {
	api := &fakeChatAPI{
		analyzeResp: &dto.AnalyzeContractResponse{ChatID: "chat-1", Response: "Fresh analysis"},
	}
	ws := New()
	svc := NewService(ws, api)
	// У сохраненного чата контракт хранится на backend'е, поэтому
	// пустой ввод означает повторный анализ, а не ошибку
	tab := ws.OpenChat(strPtr("chat-1"))

	err := svc.Analyze(context.Background(), tab.ID, nil, "")
	require.NoError(t, err)

	assert.EqualValues(t, 1, api.analyzeCalls)
	assert.Equal(t, "chat-1", api.lastParams.ChatID)
	assert.False(t, api.lastParams.SaveToChat)

	got, _ := ws.Tab(tab.ID)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "Contract analysis request", got.Messages[0].Content)
	assert.Equal(t, "Fresh analysis", got.Messages[1].Content)
}

func TestAnalyze_UnknownTab(t *testing.T) {
	svc := NewService(New(), &fakeChatAPI{})

	err := svc.Analyze(context.Background(), "missing", nil, "question")

	assert.ErrorIs(t, err, ErrTabNotFound)
}

func TestAnalyze_SavesNewChat(t *testing.T) {
	api := &fakeChatAPI{
		analyzeResp: &dto.AnalyzeContractResponse{
			ChatID:   "chat-99",
			Response: "Looks fine overall.",
		},
		getChatResp: &dto.ChatDetailResponse{ChatBrief: dto.ChatBrief{ID: "chat-99", Title: "contract.pdf"}},
	}
	ws := New()
	svc := NewService(ws, api)
	tab := svc.OpenChat(nil)
	before := ws.RefreshTrigger()

	err := svc.Analyze(context.Background(), tab.ID, pdfUpload("contract.pdf", 100), "Check this")
	require.NoError(t, err)

	// Несохраненная вкладка отправляет save_to_chat
	assert.True(t, api.lastParams.SaveToChat)
	assert.Empty(t, api.lastParams.ChatID)

	got, _ := ws.Tab(tab.ID)
	require.NotNil(t, got.ChatID)
	assert.Equal(t, "chat-99", *got.ChatID)
	assert.Equal(t, "contract.pdf", got.Title)
	assert.Greater(t, ws.RefreshTrigger(), before)

	require.Len(t, got.Messages, 2)
	assert.Equal(t, "Check this", got.Messages[0].Content)
	assert.Equal(t, "Looks fine overall.", got.Messages[1].Content)
}

func TestAnalyze_FollowUpUsesChatID(t *testing.T) {
	api := &fakeChatAPI{
		analyzeResp: &dto.AnalyzeContractResponse{ChatID: "chat-1", Response: "Answer"},
	}
	ws := New()
	svc := NewService(ws, api)
	tab := ws.OpenChat(strPtr("chat-1"))

	err := svc.Analyze(context.Background(), tab.ID, nil, "What about termination?")
	require.NoError(t, err)

	assert.False(t, api.lastParams.SaveToChat)
	assert.Equal(t, "chat-1", api.lastParams.ChatID)
}

func TestAnalyze_FailureKeepsOptimisticMessage(t *testing.T) {
	api := &fakeChatAPI{analyzeErr: errors.New("model quota exceeded")}
	ws := New()
	svc := NewService(ws, api)
	tab := svc.OpenChat(nil)

	err := svc.Analyze(context.Background(), tab.ID, nil, "My question")
	require.Error(t, err)

	got, _ := ws.Tab(tab.ID)
	require.Len(t, got.Messages, 2)
	// Оптимистичное сообщение пользователя не откатывается
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "My question", got.Messages[0].Content)
	// Ошибка приходит синтетическим ответом ассистента с текстом причины
	assert.Equal(t, "assistant", got.Messages[1].Role)
	assert.Contains(t, got.Messages[1].Content, "Analysis failed")
	assert.Contains(t, got.Messages[1].Content, "model quota exceeded")
}

func TestAnalyze_FailureMessageCarriesBackendBody(t *testing.T) {
	api := &fakeChatAPI{
		analyzeErr: &apiclient.APIError{StatusCode: 422, Body: "Contract text is too short to analyze"},
	}
	ws := New()
	svc := NewService(ws, api)
	tab := svc.OpenChat(nil)

	err := svc.Analyze(context.Background(), tab.ID, nil, "question")
	require.Error(t, err)

	got, _ := ws.Tab(tab.ID)
	require.Len(t, got.Messages, 2)
	// Тело ответа backend'а попадает в историю дословно
	assert.Equal(t, "Analysis failed: Contract text is too short to analyze", got.Messages[1].Content)
}

func TestAnalyze_ResponseRoutedToOriginTab(t *testing.T) {
	api := &fakeChatAPI{
		analyzeResp: &dto.AnalyzeContractResponse{ChatID: "chat-1", Response: "Done"},
	}
	ws := New()
	svc := NewService(ws, api)
	origin := ws.OpenChat(strPtr("chat-1"))

	// Пока анализ "идет", пользователь открыл другую вкладку
	other := ws.OpenChat(nil)

	err := svc.Analyze(context.Background(), origin.ID, nil, "question")
	require.NoError(t, err)

	got, _ := ws.Tab(origin.ID)
	assert.True(t, got.Unread)
	require.Len(t, got.Messages, 2)

	activeTab, _ := ws.Tab(other.ID)
	assert.Empty(t, activeTab.Messages)
}

func TestAnalyze_ParsesFormattedReasoning(t *testing.T) {
	formatted := "--- Model Reasoning ---\n\nthinking here\n\n" +
		"============================================================\n\nFinal verdict."
	api := &fakeChatAPI{
		analyzeResp: &dto.AnalyzeContractResponse{ChatID: "chat-1", Response: formatted},
	}
	ws := New()
	svc := NewService(ws, api)
	tab := ws.OpenChat(strPtr("chat-1"))

	err := svc.Analyze(context.Background(), tab.ID, nil, "question")
	require.NoError(t, err)

	got, _ := ws.Tab(tab.ID)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "Final verdict.", got.Messages[1].Content)
	assert.Equal(t, "thinking here", got.Messages[1].Reasoning)
}

func TestAnalyze_UploadOnlyUserMessage(t *testing.T) {
	api := &fakeChatAPI{
		analyzeResp: &dto.AnalyzeContractResponse{ChatID: "c", Response: "ok"},
		getChatResp: &dto.ChatDetailResponse{ChatBrief: dto.ChatBrief{ID: "c", Title: "doc.pdf"}},
	}
	ws := New()
	svc := NewService(ws, api)
	tab := svc.OpenChat(nil)

	err := svc.Analyze(context.Background(), tab.ID, pdfUpload("doc.pdf", 10), "")
	require.NoError(t, err)

	got, _ := ws.Tab(tab.ID)
	assert.Equal(t, "Uploaded: doc.pdf", got.Messages[0].Content)
}

func TestDeleteChat_OrphansOpenTab(t *testing.T) {
	api := &fakeChatAPI{}
	ws := New()
	svc := NewService(ws, api)
	tab := ws.OpenChat(strPtr("chat-1"))

	err := svc.DeleteChat(context.Background(), "chat-1")
	require.NoError(t, err)

	got, ok := ws.Tab(tab.ID)
	require.True(t, ok)
	assert.Nil(t, got.ChatID)
}

func TestDeleteChat_BackendErrorKeepsTab(t *testing.T) {
	api := &fakeChatAPI{deleteErr: errors.New("boom")}
	ws := New()
	svc := NewService(ws, api)
	tab := ws.OpenChat(strPtr("chat-1"))

	err := svc.DeleteChat(context.Background(), "chat-1")
	require.Error(t, err)

	got, _ := ws.Tab(tab.ID)
	require.NotNil(t, got.ChatID)
	assert.Equal(t, "chat-1", *got.ChatID)
}
