package repository

import (
	"time"

	"gorm.io/gorm"

	"propman-be-svc/internal/models"
)

// ChatRepository defines the interface for chat message data operations
type ChatRepository interface {
	GetByID(id uint) (*models.ChatMessage, error)
	ListByProperty(propertyID, userID uint, page, limit int) ([]*models.ChatMessage, int64, error)
	Create(message *models.ChatMessage) error
	MarkRead(messageIDs []uint, recipientID uint) error
	Delete(id uint) error
}

// chatRepository implements ChatRepository
type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new instance of ChatRepository
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) GetByID(id uint) (*models.ChatMessage, error) {
	var message models.ChatMessage
	if err := r.db.First(&message, id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// ListByProperty retrieves the user's conversation on a property, newest
// first, with paging. A zero userID skips the participant filter.
func (r *chatRepository) ListByProperty(propertyID, userID uint, page, limit int) ([]*models.ChatMessage, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}

	base := r.db.Model(&models.ChatMessage{}).
		Where("property_id = ?", propertyID)
	if userID != 0 {
		base = base.Where("sender_id = ? OR recipient_id = ?", userID, userID)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []*models.ChatMessage
	err := base.
		Preload("Sender").Preload("Recipient").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

func (r *chatRepository) Create(message *models.ChatMessage) error {
	return r.db.Create(message).Error
}

// MarkRead stamps read_at on the given messages, but only those addressed
// to the recipient.
func (r *chatRepository) MarkRead(messageIDs []uint, recipientID uint) error {
	if len(messageIDs) == 0 {
		return nil
	}
	now := time.Now()
	return r.db.Model(&models.ChatMessage{}).
		Where("id IN ? AND recipient_id = ?", messageIDs, recipientID).
		Update("read_at", now).Error
}

func (r *chatRepository) Delete(id uint) error {
	return r.db.Delete(&models.ChatMessage{}, id).Error
}
