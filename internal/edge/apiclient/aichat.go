package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/url"

	"artnuggets/internal/services/dto"
)

// AIChatClient - типизированная обертка над вызовами AI-чата.
type AIChatClient struct {
	client *Client
}

func NewAIChatClient(client *Client) *AIChatClient {
	return &AIChatClient{client: client}
}

// AnalyzeParams - вход анализа контракта; файл уже прочитан в память
// и провалидирован вызывающей стороной.
type AnalyzeParams struct {
	FileName    string
	FileContent []byte
	UserText    string
	ChatID      string
	SaveToChat  bool
}

// Analyze отправляет контракт на анализ multipart-запросом.
func (c *AIChatClient) Analyze(ctx context.Context, params AnalyzeParams) (*dto.AnalyzeContractResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if params.FileContent != nil {
		part, err := writer.CreateFormFile("file", params.FileName)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(params.FileContent); err != nil {
			return nil, err
		}
	}
	if params.UserText != "" {
		if err := writer.WriteField("user_text", params.UserText); err != nil {
			return nil, err
		}
	}
	if params.ChatID != "" {
		if err := writer.WriteField("chat_id", params.ChatID); err != nil {
			return nil, err
		}
	}
	if params.SaveToChat {
		if err := writer.WriteField("save_to_chat", "true"); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	var response dto.AnalyzeContractResponse
	if err := c.client.PostMultipart(ctx, "/ai-chat/analyze-contract", buf.Bytes(), writer.FormDataContentType(), &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// ListChats возвращает чаты пользователя, новые сверху.
func (c *AIChatClient) ListChats(ctx context.Context) ([]dto.ChatBrief, error) {
	var response struct {
		Chats []dto.ChatBrief `json:"chats"`
		Total int             `json:"total"`
	}
	if err := c.client.Get(ctx, "/ai-chat/chats", &response); err != nil {
		return nil, err
	}
	return response.Chats, nil
}

// GetChat возвращает чат с историей сообщений.
func (c *AIChatClient) GetChat(ctx context.Context, chatID string) (*dto.ChatDetailResponse, error) {
	var detail dto.ChatDetailResponse
	if err := c.client.Get(ctx, "/ai-chat/chats/"+url.PathEscape(chatID), &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// RenameChat меняет заголовок чата.
func (c *AIChatClient) RenameChat(ctx context.Context, chatID, title string) (*dto.ChatBrief, error) {
	var brief dto.ChatBrief
	body := dto.RenameChatRequest{Title: title}
	if err := c.client.PatchJSON(ctx, "/ai-chat/chats/"+url.PathEscape(chatID), body, &brief); err != nil {
		return nil, err
	}
	return &brief, nil
}

// DeleteChat удаляет чат вместе с сообщениями.
func (c *AIChatClient) DeleteChat(ctx context.Context, chatID string) error {
	return c.client.Delete(ctx, fmt.Sprintf("/ai-chat/chats/%s", url.PathEscape(chatID)))
}
