package repository

import (
	"time"

	"gorm.io/gorm"

	"propman-be-svc/internal/models"
)

// NotificationRepository defines the interface for notification data operations
type NotificationRepository interface {
	Create(notification *models.Notification) error
	ListByUser(userID uint, unreadOnly bool) ([]*models.Notification, error)
	MarkRead(notificationIDs []uint, userID uint) error
}

// notificationRepository implements NotificationRepository
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new instance of NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *notificationRepository) ListByUser(userID uint, unreadOnly bool) ([]*models.Notification, error) {
	query := r.db.Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read_at IS NULL")
	}

	var notifications []*models.Notification
	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepository) MarkRead(notificationIDs []uint, userID uint) error {
	if len(notificationIDs) == 0 {
		return nil
	}
	now := time.Now()
	return r.db.Model(&models.Notification{}).
		Where("id IN ? AND user_id = ?", notificationIDs, userID).
		Update("read_at", now).Error
}
