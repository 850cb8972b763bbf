package services

import (
	"context"
	"strings"

	"artnuggets/internal/analyzer"
	"artnuggets/internal/models"
	"artnuggets/internal/repositories"
	"artnuggets/internal/services/dto"
	"artnuggets/pkg/apperrors"
)

const defaultChatTitle = "Contract Analysis"

type ChatService interface {
	ListChats(ctx context.Context, userID string) ([]dto.ChatBrief, error)
	GetChat(ctx context.Context, userID, chatID string) (*dto.ChatDetailResponse, error)
	RenameChat(ctx context.Context, userID, chatID, title string) (*dto.ChatBrief, error)
	DeleteChat(ctx context.Context, userID, chatID string) error
	AnalyzeContract(ctx context.Context, userID string, req *dto.AnalyzeContractRequest) (*dto.AnalyzeContractResponse, error)
}

type ChatServiceImpl struct {
	chatRepo repositories.ChatRepository
	ai       analyzer.Client
}

func NewChatService(chatRepo repositories.ChatRepository, ai analyzer.Client) ChatService {
	return &ChatServiceImpl{
		chatRepo: chatRepo,
		ai:       ai,
	}
}

func (s *ChatServiceImpl) ListChats(ctx context.Context, userID string) ([]dto.ChatBrief, error) {
	chats, err := s.chatRepo.FindByUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	briefs := make([]dto.ChatBrief, 0, len(chats))
	for i := range chats {
		briefs = append(briefs, chatBrief(&chats[i]))
	}
	return briefs, nil
}

func (s *ChatServiceImpl) GetChat(ctx context.Context, userID, chatID string) (*dto.ChatDetailResponse, error) {
	chat, err := s.ownedChatWithMessages(userID, chatID)
	if err != nil {
		return nil, err
	}

	detail := &dto.ChatDetailResponse{
		ChatBrief:   chatBrief(chat),
		HasContract: chat.ContractText != "",
	}
	for i := range chat.Messages {
		detail.Messages = append(detail.Messages, *buildMessageResponse(&chat.Messages[i]))
	}
	return detail, nil
}

func (s *ChatServiceImpl) RenameChat(ctx context.Context, userID, chatID, title string) (*dto.ChatBrief, error) {
	chat, err := s.ownedChat(userID, chatID)
	if err != nil {
		return nil, err
	}

	if err := s.chatRepo.Rename(chat.ID, title); err != nil {
		return nil, apperrors.InternalError(err)
	}
	chat.Title = title
	brief := chatBrief(chat)
	return &brief, nil
}

func (s *ChatServiceImpl) DeleteChat(ctx context.Context, userID, chatID string) error {
	chat, err := s.ownedChat(userID, chatID)
	if err != nil {
		return err
	}
	if err := s.chatRepo.Delete(chat.ID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// AnalyzeContract - центральная операция анализа. Комбинации входа:
//   - только файл: извлеченный текст и есть контракт
//   - только текст: текст трактуется как контракт
//   - файл + текст: текст становится вопросом к контракту
//   - chat_id без файла: follow-up вопрос к контракту, сохраненному в чате
func (s *ChatServiceImpl) AnalyzeContract(ctx context.Context, userID string, req *dto.AnalyzeContractRequest) (*dto.AnalyzeContractResponse, error) {
	contractText := ""
	additionalContext := ""
	extractedText := req.ContractText

	// Follow-up: без нового файла берем контракт из чата
	if req.ChatID != "" && extractedText == "" {
		chat, err := s.ownedChat(userID, req.ChatID)
		if err != nil {
			return nil, err
		}
		if chat.ContractText != "" {
			contractText = chat.ContractText
			additionalContext = req.UserText
		} else if req.UserText == "" {
			return nil, apperrors.NewBadRequestError("Please provide a question or upload a file")
		}
	}

	if extractedText != "" {
		contractText = extractedText
	}

	// Без PDF пользовательский текст сам становится контрактом
	if req.UserText != "" && additionalContext == "" {
		if contractText != "" {
			additionalContext = req.UserText
		} else {
			contractText = req.UserText
		}
	}

	if strings.TrimSpace(contractText) == "" {
		return nil, apperrors.ErrNothingToAnalyze
	}

	result, err := s.ai.AnalyzeContract(ctx, contractText, additionalContext)
	if err != nil {
		return nil, err
	}

	resp := &dto.AnalyzeContractResponse{
		Response:  result.Response,
		Reasoning: result.Reasoning,
	}

	userMessageContent := req.UserText
	if userMessageContent == "" {
		if req.FileName != "" {
			userMessageContent = "Uploaded: " + req.FileName
		} else {
			userMessageContent = "Contract analysis request"
		}
	}

	switch {
	case req.SaveToChat && req.ChatID == "":
		title := defaultChatTitle
		if req.FileName != "" {
			title = req.FileName
		}
		chat := &models.Chat{
			UserID:       userID,
			Title:        title,
			ContractText: contractText,
			Messages: []models.ChatMessage{
				{Role: models.MessageRoleUser, Content: userMessageContent},
				{Role: models.MessageRoleAssistant, Content: result.Response, Reasoning: result.Reasoning},
			},
		}
		if err := s.chatRepo.Create(chat); err != nil {
			return nil, apperrors.InternalError(err)
		}
		resp.ChatID = chat.ID
		if len(chat.Messages) == 2 {
			resp.UserMessage = buildMessageResponse(&chat.Messages[0])
			resp.AIMessage = buildMessageResponse(&chat.Messages[1])
		}

	case req.ChatID != "":
		chat, err := s.ownedChat(userID, req.ChatID)
		if err != nil {
			return nil, err
		}

		// Новый файл обновляет контракт чата
		if extractedText != "" {
			if err := s.chatRepo.UpdateContractText(chat.ID, extractedText); err != nil {
				return nil, apperrors.InternalError(err)
			}
		}

		userMsg := &models.ChatMessage{ChatID: chat.ID, Role: models.MessageRoleUser, Content: userMessageContent}
		if err := s.chatRepo.AddMessage(userMsg); err != nil {
			return nil, apperrors.InternalError(err)
		}
		aiMsg := &models.ChatMessage{ChatID: chat.ID, Role: models.MessageRoleAssistant, Content: result.Response, Reasoning: result.Reasoning}
		if err := s.chatRepo.AddMessage(aiMsg); err != nil {
			return nil, apperrors.InternalError(err)
		}

		resp.ChatID = chat.ID
		resp.UserMessage = buildMessageResponse(userMsg)
		resp.AIMessage = buildMessageResponse(aiMsg)
	}

	return resp, nil
}

func (s *ChatServiceImpl) ownedChat(userID, chatID string) (*models.Chat, error) {
	chat, err := s.chatRepo.FindByID(chatID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrChatNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if chat.UserID != userID {
		// Чужой чат не раскрываем, отвечаем как на отсутствующий
		return nil, apperrors.ErrNotFound(repositories.ErrChatNotFound)
	}
	return chat, nil
}

func (s *ChatServiceImpl) ownedChatWithMessages(userID, chatID string) (*models.Chat, error) {
	chat, err := s.chatRepo.FindByIDWithMessages(chatID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrChatNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if chat.UserID != userID {
		return nil, apperrors.ErrNotFound(repositories.ErrChatNotFound)
	}
	return chat, nil
}

func chatBrief(chat *models.Chat) dto.ChatBrief {
	return dto.ChatBrief{
		ID:        chat.ID,
		Title:     chat.Title,
		CreatedAt: chat.CreatedAt,
		UpdatedAt: chat.UpdatedAt,
	}
}
