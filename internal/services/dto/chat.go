package dto

import "time"

type ChatBrief struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ChatDetailResponse struct {
	ChatBrief
	HasContract bool              `json:"has_contract"`
	Messages    []MessageResponse `json:"messages"`
}

type MessageResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Reasoning string    `json:"reasoning,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type RenameChatRequest struct {
	Title string `json:"title" validate:"required,min=1,max=200"`
}

// AnalyzeContractRequest - нормализованные поля multipart-запроса.
// Файл обрабатывается отдельно на уровне хендлера.
type AnalyzeContractRequest struct {
	UserText   string
	ChatID     string
	SaveToChat bool

	// Извлеченный из PDF текст; пустой, если файла не было
	ContractText string
	FileName     string
}

// AnalyzeContractResponse повторяет формат ответа анализа:
// основной текст плюс отделенные рассуждения модели.
type AnalyzeContractResponse struct {
	ChatID      string           `json:"chat_id,omitempty"`
	Response    string           `json:"response"`
	Reasoning   string           `json:"reasoning,omitempty"`
	UserMessage *MessageResponse `json:"user_message,omitempty"`
	AIMessage   *MessageResponse `json:"ai_message,omitempty"`
}
