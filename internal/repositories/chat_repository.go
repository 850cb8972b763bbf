package repositories

import (
	"errors"

	"artnuggets/internal/models"

	"gorm.io/gorm"
)

var ErrChatNotFound = errors.New("chat not found")

type ChatRepository interface {
	Create(chat *models.Chat) error
	FindByID(id string) (*models.Chat, error)
	FindByIDWithMessages(id string) (*models.Chat, error)
	FindByUser(userID string) ([]models.Chat, error)
	UpdateContractText(chatID, text string) error
	Rename(chatID, title string) error
	Delete(chatID string) error

	AddMessage(message *models.ChatMessage) error
	FindMessages(chatID string) ([]models.ChatMessage, error)
}

type ChatRepositoryImpl struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &ChatRepositoryImpl{db: db}
}

func (r *ChatRepositoryImpl) Create(chat *models.Chat) error {
	return r.db.Create(chat).Error
}

func (r *ChatRepositoryImpl) FindByID(id string) (*models.Chat, error) {
	var chat models.Chat
	err := r.db.First(&chat, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	return &chat, nil
}

func (r *ChatRepositoryImpl) FindByIDWithMessages(id string) (*models.Chat, error) {
	var chat models.Chat
	err := r.db.Preload("Messages", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).First(&chat, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	return &chat, nil
}

func (r *ChatRepositoryImpl) FindByUser(userID string) ([]models.Chat, error) {
	var chats []models.Chat
	err := r.db.Where("user_id = ?", userID).
		Order("updated_at DESC").Find(&chats).Error
	return chats, err
}

func (r *ChatRepositoryImpl) UpdateContractText(chatID, text string) error {
	result := r.db.Model(&models.Chat{}).Where("id = ?", chatID).
		Update("contract_text", text)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrChatNotFound
	}
	return nil
}

func (r *ChatRepositoryImpl) Rename(chatID, title string) error {
	result := r.db.Model(&models.Chat{}).Where("id = ?", chatID).
		Update("title", title)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrChatNotFound
	}
	return nil
}

func (r *ChatRepositoryImpl) Delete(chatID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chat_id = ?", chatID).Delete(&models.ChatMessage{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", chatID).Delete(&models.Chat{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrChatNotFound
		}
		return nil
	})
}

func (r *ChatRepositoryImpl) AddMessage(message *models.ChatMessage) error {
	return r.db.Create(message).Error
}

func (r *ChatRepositoryImpl) FindMessages(chatID string) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := r.db.Where("chat_id = ?", chatID).
		Order("created_at ASC").Find(&messages).Error
	return messages, err
}
