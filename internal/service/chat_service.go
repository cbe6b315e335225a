package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"propman-be-svc/internal/models"
	"propman-be-svc/internal/policy"
	"propman-be-svc/internal/repository"
	"propman-be-svc/pkg/apperrors"
	"propman-be-svc/pkg/logger"
)

// SendMessageRequest posts a message on a property thread
type SendMessageRequest struct {
	RecipientID uint   `json:"recipient_id" binding:"required"`
	Message     string `json:"message" binding:"required"`
	Type        string `json:"type" binding:"omitempty,oneof=text image file"`
}

// ChatService defines the interface for property chat logic
type ChatService interface {
	ListMessages(actor *models.User, propertyID uint, page, limit int) ([]*models.ChatMessage, int64, error)
	Send(actor *models.User, propertyID uint, req *SendMessageRequest) (*models.ChatMessage, error)
	MarkRead(actor *models.User, messageIDs []uint) error
	Delete(actor *models.User, id uint) error
}

// chatService implements ChatService
type chatService struct {
	chatRepo     repository.ChatRepository
	propertyRepo repository.PropertyRepository
	userRepo     repository.UserRepository
	notifier     NotificationService
	logger       *logger.Logger
}

// NewChatService creates a new chat service
func NewChatService(
	chatRepo repository.ChatRepository,
	propertyRepo repository.PropertyRepository,
	userRepo repository.UserRepository,
	notifier NotificationService,
	logger *logger.Logger,
) ChatService {
	return &chatService{
		chatRepo:     chatRepo,
		propertyRepo: propertyRepo,
		userRepo:     userRepo,
		notifier:     notifier,
		logger:       logger,
	}
}

// ListMessages returns the property thread newest first, restricted to
// messages the actor sent or received
func (s *chatService) ListMessages(actor *models.User, propertyID uint, page, limit int) ([]*models.ChatMessage, int64, error) {
	property, err := s.propertyRepo.GetByID(propertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, apperrors.WrapNotFound("property", propertyID)
		}
		return nil, 0, apperrors.WrapDatabaseError(err)
	}

	if !policy.CanChatOnProperty(actor, property) {
		return nil, 0, apperrors.WrapForbidden("view messages on", "property")
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	userFilter := actor.ID
	if actor.IsSuperuser() {
		userFilter = 0
	}
	return s.chatRepo.ListByProperty(propertyID, userFilter, page, limit)
}

// Send posts a message. Both parties must be connected to the property and
// the recipient gets a notification.
func (s *chatService) Send(actor *models.User, propertyID uint, req *SendMessageRequest) (*models.ChatMessage, error) {
	property, err := s.propertyRepo.GetByID(propertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WrapNotFound("property", propertyID)
		}
		return nil, apperrors.WrapDatabaseError(err)
	}

	if !policy.CanChatOnProperty(actor, property) {
		return nil, apperrors.WrapForbidden("send messages on", "property")
	}
	if req.RecipientID == actor.ID {
		return nil, apperrors.WrapValidation("cannot send a message to yourself")
	}

	recipient, err := s.userRepo.GetByID(req.RecipientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WrapNotFound("recipient", req.RecipientID)
		}
		return nil, apperrors.WrapDatabaseError(err)
	}
	if !policy.CanChatOnProperty(recipient, property) {
		return nil, apperrors.WrapValidation("recipient is not connected to this property")
	}

	messageType := req.Type
	if messageType == "" {
		messageType = models.MessageTypeText
	}

	message := &models.ChatMessage{
		PropertyID:  propertyID,
		SenderID:    actor.ID,
		RecipientID: req.RecipientID,
		Message:     req.Message,
		Type:        messageType,
	}

	if err := s.chatRepo.Create(message); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	if s.notifier != nil {
		body := fmt.Sprintf("%s sent you a message about %s.", actor.Name, property.Name)
		if err := s.notifier.Notify(context.Background(), recipient, models.NotificationNewMessage,
			"New message", body, map[string]interface{}{
				"property_id": propertyID,
				"message_id":  message.ID,
			}); err != nil {
			s.logger.WithError(err).Warn("Failed to send chat notification")
		}
	}

	return message, nil
}

// MarkRead stamps read_at on messages addressed to the actor
func (s *chatService) MarkRead(actor *models.User, messageIDs []uint) error {
	if len(messageIDs) == 0 {
		return nil
	}
	return s.chatRepo.MarkRead(messageIDs, actor.ID)
}

// Delete removes a message the actor sent
func (s *chatService) Delete(actor *models.User, id uint) error {
	message, err := s.chatRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.WrapNotFound("message", id)
		}
		return apperrors.WrapDatabaseError(err)
	}

	if !policy.CanDeleteChatMessage(actor, message) {
		return apperrors.WrapForbidden("delete", "message")
	}
	return s.chatRepo.Delete(id)
}
