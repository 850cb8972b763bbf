package workspace

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"artnuggets/internal/analyzer"
	"artnuggets/internal/edge/apiclient"
	"artnuggets/internal/logger"
	"artnuggets/internal/models"
	"artnuggets/internal/services/dto"
)

var (
	ErrTabNotFound     = errors.New("tab not found")
	ErrFileTooLarge    = errors.New("file exceeds 10MB limit")
	ErrNotPDF          = errors.New("only PDF files are supported")
	ErrEmptySubmission = errors.New("nothing to analyze: attach a file or enter text")
)

const (
	maxFileSize    = 10 << 20
	titleResolveTO = 5 * time.Second
)

var pdfMagic = []byte("%PDF-")

// ChatAPI - срез клиента AI-чата, нужный workspace'у.
type ChatAPI interface {
	Analyze(ctx context.Context, params apiclient.AnalyzeParams) (*dto.AnalyzeContractResponse, error)
	GetChat(ctx context.Context, chatID string) (*dto.ChatDetailResponse, error)
	DeleteChat(ctx context.Context, chatID string) error
}

// Upload - файл, принятый от клиента.
type Upload struct {
	Name        string
	ContentType string
	Content     []byte
}

// ValidateUpload проверяет файл до какого-либо сетевого вызова:
// размер и PDF по mime ИЛИ расширению, плюс магические байты.
func ValidateUpload(file *Upload) error {
	if file == nil {
		return nil
	}
	if len(file.Content) > maxFileSize {
		return ErrFileTooLarge
	}
	looksLikePDF := file.ContentType == "application/pdf" ||
		strings.HasSuffix(strings.ToLower(file.Name), ".pdf")
	if !looksLikePDF {
		return ErrNotPDF
	}
	if !bytes.HasPrefix(file.Content, pdfMagic) {
		return ErrNotPDF
	}
	return nil
}

// ParseAnalysis разбирает форматированный ответ анализа: заголовочный
// маркер рассуждений и разделитель из 60 символов '=' делят текст на
// Main и Reasoning; без маркеров весь текст - Main.
func ParseAnalysis(formatted string) (main, reasoning string) {
	return analyzer.SplitFormatted(formatted)
}

// Service связывает workspace с backend'ом AI-чата от имени одной сессии.
type Service struct {
	ws  *Workspace
	api ChatAPI
}

func NewService(ws *Workspace, api ChatAPI) *Service {
	return &Service{ws: ws, api: api}
}

func (s *Service) Workspace() *Workspace {
	return s.ws
}

// OpenChat открывает вкладку и асинхронно подтягивает настоящий
// заголовок чата; при ошибке загрузки вкладка остается с запасным.
func (s *Service) OpenChat(chatID *string) Tab {
	tab := s.ws.OpenChat(chatID)

	if tab.ChatID != nil && tab.Title == pendingTabTitle {
		tabID, id := tab.ID, *tab.ChatID
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), titleResolveTO)
			defer cancel()

			detail, err := s.api.GetChat(ctx, id)
			if err != nil || detail == nil {
				logger.Warn("Failed to resolve chat title", "chat_id", id, "error", err)
				return
			}
			s.ws.SetTitle(tabID, detail.Title)
		}()
	}
	return *tab
}

// Analyze отправляет контракт/вопрос из вкладки на анализ.
// Вся валидация происходит ДО сетевого вызова; оптимистичное сообщение
// пользователя остается в истории даже при ошибке анализа. Ответ
// доставляется строго во вкладку-источник по билету: закрытая за время
// запроса вкладка ответ не получает.
func (s *Service) Analyze(ctx context.Context, tabID string, file *Upload, userText string) error {
	ticket, ok := s.ws.TicketFor(tabID)
	if !ok {
		return ErrTabNotFound
	}

	if err := ValidateUpload(file); err != nil {
		return err
	}

	tab, _ := s.ws.Tab(tabID)

	// Пустой ввод допустим только как повторный анализ сохраненного
	// чата: там backend возьмет контракт из записи чата
	userText = strings.TrimSpace(userText)
	if file == nil && userText == "" && tab.ChatID == nil {
		return ErrEmptySubmission
	}

	userContent := userText
	if userContent == "" {
		if file != nil {
			userContent = "Uploaded: " + file.Name
		} else {
			userContent = "Contract analysis request"
		}
	}
	s.ws.AppendMessage(tabID, Message{
		Role:    string(models.MessageRoleUser),
		Content: userContent,
	})

	params := apiclient.AnalyzeParams{
		UserText: userText,
		// Первый анализ из несохраненной вкладки создает чат
		SaveToChat: tab.ChatID == nil,
	}
	if tab.ChatID != nil {
		params.ChatID = *tab.ChatID
	}
	if file != nil {
		params.FileName = file.Name
		params.FileContent = file.Content
	}

	response, err := s.api.Analyze(ctx, params)
	if err != nil {
		s.ws.Deliver(ticket, Message{
			Role:    string(models.MessageRoleAssistant),
			Content: analysisFailureMessage(err),
		})
		return err
	}

	main, reasoning := ParseAnalysis(response.Response)
	if reasoning == "" {
		reasoning = response.Reasoning
	}
	s.ws.Deliver(ticket, Message{
		Role:      string(models.MessageRoleAssistant),
		Content:   main,
		Reasoning: reasoning,
	})

	if params.SaveToChat && response.ChatID != "" {
		title := s.resolveTitle(ctx, response.ChatID)
		s.ws.OnAnalysisSaved(ticket.TabID, response.ChatID, title)
	}
	return nil
}

// DeleteChat удаляет чат на backend'е и отвязывает его вкладку.
func (s *Service) DeleteChat(ctx context.Context, chatID string) error {
	if err := s.api.DeleteChat(ctx, chatID); err != nil {
		return err
	}
	s.ws.OnChatDeleted(chatID)
	return nil
}

// analysisFailureMessage формирует текст синтетического ответа об ошибке:
// сообщение backend'а попадает в историю дословно, чтобы пользователь
// видел причину, а не обезличенное "попробуйте еще раз".
func analysisFailureMessage(err error) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Body) != "" {
		return "Analysis failed: " + strings.TrimSpace(apiErr.Body)
	}
	return "Analysis failed: " + err.Error()
}

func (s *Service) resolveTitle(ctx context.Context, chatID string) string {
	detail, err := s.api.GetChat(ctx, chatID)
	if err != nil || detail == nil {
		logger.Warn("Failed to resolve saved chat title", "chat_id", chatID, "error", err)
		return ""
	}
	return detail.Title
}
