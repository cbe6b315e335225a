package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"propman-be-svc/internal/models"
	"propman-be-svc/internal/repository"
	"propman-be-svc/pkg/logger"
)

// Mailer delivers a notification over email. The provider integration is
// behind this interface; LogMailer is the default implementation.
type Mailer interface {
	Send(to, subject, body string) error
}

// LogMailer writes outgoing mail to the application log instead of an SMTP
// provider.
type LogMailer struct {
	Logger *logger.Logger
}

func (m *LogMailer) Send(to, subject, body string) error {
	m.Logger.WithFields(map[string]interface{}{
		"to":      to,
		"subject": subject,
	}).Info("Email notification dispatched")
	return nil
}

// NotificationService is the single dispatch point for user notifications.
// Each event site calls it directly; there is no pub/sub layer.
type NotificationService interface {
	Notify(ctx context.Context, user *models.User, kind, subject, body string, payload map[string]interface{}) error
	ListForUser(userID uint, unreadOnly bool) ([]*models.Notification, error)
	MarkRead(notificationIDs []uint, userID uint) error
}

// notificationService implements NotificationService
type notificationService struct {
	notificationRepo repository.NotificationRepository
	mailer           Mailer
	redis            *redis.Client
	logger           *logger.Logger
}

// NewNotificationService creates a new notification service. The redis
// client may be nil; deduplication is then skipped.
func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	mailer Mailer,
	redisClient *redis.Client,
	logger *logger.Logger,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		mailer:           mailer,
		redis:            redisClient,
		logger:           logger,
	}
}

// Notify persists an in-app notification and sends it by mail. Repeated
// sends of the same notification to the same user within a day are dropped
// via a redis day-key, so daily jobs re-run on the same day stay quiet.
func (s *notificationService) Notify(ctx context.Context, user *models.User, kind, subject, body string, payload map[string]interface{}) error {
	if user == nil {
		return nil
	}

	if s.redis != nil {
		key := s.dedupeKey(user.ID, kind, subject)
		set, err := s.redis.SetNX(ctx, key, 1, 48*time.Hour).Result()
		if err != nil {
			// Dedupe is best effort; a redis outage must not block delivery
			s.logger.WithError(err).Warn("Notification dedupe check failed, sending anyway")
		} else if !set {
			s.logger.WithFields(map[string]interface{}{
				"user_id": user.ID,
				"kind":    kind,
			}).Debug("Duplicate notification suppressed")
			return nil
		}
	}

	notification := &models.Notification{
		UserID:  user.ID,
		Kind:    kind,
		Subject: subject,
		Body:    body,
	}
	if payload != nil {
		if raw, err := json.Marshal(payload); err == nil {
			encoded := string(raw)
			notification.Payload = &encoded
		}
	}

	if err := s.notificationRepo.Create(notification); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	if err := s.mailer.Send(user.Email, subject, body); err != nil {
		// The in-app copy exists; mail failure is logged, not fatal
		s.logger.WithError(err).WithField("user_id", user.ID).Error("Failed to send notification email")
	}

	return nil
}

func (s *notificationService) ListForUser(userID uint, unreadOnly bool) ([]*models.Notification, error) {
	return s.notificationRepo.ListByUser(userID, unreadOnly)
}

func (s *notificationService) MarkRead(notificationIDs []uint, userID uint) error {
	return s.notificationRepo.MarkRead(notificationIDs, userID)
}

func (s *notificationService) dedupeKey(userID uint, kind, subject string) string {
	sum := sha256.Sum256([]byte(subject))
	day := time.Now().Format("2006-01-02")
	return fmt.Sprintf("notify:%d:%s:%s:%s", userID, kind, hex.EncodeToString(sum[:8]), day)
}
