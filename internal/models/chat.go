package models

// Chat - диалог анализа контракта. ContractText хранит извлеченный из PDF
// текст, чтобы follow-up вопросы шли с тем же контекстом без повторной загрузки.
type Chat struct {
	BaseModel
	UserID       string `gorm:"type:uuid;not null;index" json:"user_id"`
	Title        string `gorm:"not null" json:"title"`
	ContractText string `gorm:"type:text" json:"-"`

	Messages []ChatMessage `gorm:"foreignKey:ChatID" json:"messages,omitempty"`
}

type ChatMessage struct {
	BaseModel
	ChatID  string      `gorm:"type:uuid;not null;index" json:"chat_id"`
	Role    MessageRole `gorm:"type:varchar(20);not null" json:"role"`
	Content string      `gorm:"type:text;not null" json:"content"`
	// Reasoning - цепочка рассуждений модели, отделенная от основного ответа.
	// Пустая строка, если модель не вернула reasoning.
	Reasoning string `gorm:"type:text" json:"reasoning,omitempty"`
}
