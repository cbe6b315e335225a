package jobs

import (
	"context"
	"fmt"
	"time"

	"propman-be-svc/internal/models"
	"propman-be-svc/internal/repository"
	"propman-be-svc/internal/schedule"
	"propman-be-svc/pkg/logger"
)

// reminderDays are the days-before-due marks that trigger a reminder
var reminderDays = []int{5, 1}

// ReminderJob sends upcoming-payment reminders to tenants on active
// rentals. A reminder fires only when the next due date is exactly five or
// one whole days away, so each cycle produces at most two reminders.
type ReminderJob struct {
	rentalRepo repository.RentalRepository
	notifier   Notifier
	logger     *logger.Logger
	now        func() time.Time
}

// NewReminderJob creates a new payment reminder job
func NewReminderJob(rentalRepo repository.RentalRepository, notifier Notifier, logger *logger.Logger) *ReminderJob {
	return &ReminderJob{
		rentalRepo: rentalRepo,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
	}
}

// Run walks all active rentals once
func (j *ReminderJob) Run(ctx context.Context) error {
	rentals, err := j.rentalRepo.ListActive()
	if err != nil {
		return fmt.Errorf("failed to list active rentals: %w", err)
	}

	now := j.now()
	sent := 0
	for _, rental := range rentals {
		if rental.Tenant == nil {
			continue
		}

		nextDue := schedule.NextDueDate(now, rental.PaymentDueDay)
		days := schedule.DaysUntil(now, nextDue)
		if !isReminderDay(days) {
			continue
		}

		body := fmt.Sprintf("Your rent of %s is due on %s (%d day(s) from now).",
			rental.RentAmount.StringFixed(2), nextDue.Format("2006-01-02"), days)
		if err := j.notifier.Notify(ctx, rental.Tenant, models.NotificationPaymentReminder,
			"Upcoming rent payment", body, map[string]interface{}{
				"rental_id": rental.ID,
				"due_date":  nextDue.Format("2006-01-02"),
			}); err != nil {
			j.logger.WithError(err).WithField("rental_id", rental.ID).Error("Failed to send payment reminder, skipping rental")
			continue
		}
		sent++
	}

	j.logger.WithFields(map[string]interface{}{
		"rentals":   len(rentals),
		"reminders": sent,
	}).Info("Payment reminder job finished")
	return nil
}

func isReminderDay(days int) bool {
	for _, d := range reminderDays {
		if days == d {
			return true
		}
	}
	return false
}
