package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"propman-be-svc/internal/models"
	"propman-be-svc/internal/repository"
	"propman-be-svc/internal/schedule"
	"propman-be-svc/pkg/logger"
)

// OverdueJob finds active rentals whose last completed payment is older
// than one billing period plus the grace window and files an overdue
// payment for the next cycle. Tenant and landlord are both notified.
type OverdueJob struct {
	rentalRepo  repository.RentalRepository
	paymentRepo repository.PaymentRepository
	notifier    Notifier
	graceDays   int
	logger      *logger.Logger
	now         func() time.Time
}

// NewOverdueJob creates a new overdue payment job
func NewOverdueJob(
	rentalRepo repository.RentalRepository,
	paymentRepo repository.PaymentRepository,
	notifier Notifier,
	graceDays int,
	logger *logger.Logger,
) *OverdueJob {
	return &OverdueJob{
		rentalRepo:  rentalRepo,
		paymentRepo: paymentRepo,
		notifier:    notifier,
		graceDays:   graceDays,
		logger:      logger,
		now:         time.Now,
	}
}

// Run walks all active rentals once
func (j *OverdueJob) Run(ctx context.Context) error {
	rentals, err := j.rentalRepo.ListActive()
	if err != nil {
		return fmt.Errorf("failed to list active rentals: %w", err)
	}

	now := j.now()
	flagged := 0
	for _, rental := range rentals {
		overdue, err := j.processRental(ctx, rental, now)
		if err != nil {
			j.logger.WithError(err).WithField("rental_id", rental.ID).Error("Overdue check failed, skipping rental")
			continue
		}
		if overdue {
			flagged++
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"rentals": len(rentals),
		"overdue": flagged,
	}).Info("Overdue payment job finished")
	return nil
}

// processRental reports whether the rental is overdue. The anchor is the
// payment date of the most recent completed payment, or the lease start
// when nothing was ever paid.
func (j *OverdueJob) processRental(ctx context.Context, rental *models.Rental, now time.Time) (bool, error) {
	anchor := rental.StartDate
	latest, err := j.paymentRepo.GetLatestCompleted(rental.ID)
	switch {
	case err == nil:
		if latest.PaymentDate != nil {
			anchor = *latest.PaymentDate
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// Nothing paid yet, measure from the lease start
	default:
		return false, err
	}

	threshold := rental.BillingPeriodDays() + j.graceDays
	elapsed := int(now.Sub(anchor).Hours() / 24)
	if elapsed <= threshold {
		return false, nil
	}

	// Next cycle after the anchor, landing on the rental's due day
	dueDate := schedule.WithDueDay(
		schedule.AddMonths(anchor, schedule.MonthsPerPeriod(rental.PaymentFrequency)),
		rental.PaymentDueDay,
	)

	payment := &models.Payment{
		RentalID: rental.ID,
		Amount:   rental.RentAmount,
		DueDate:  dueDate,
		Status:   models.PaymentStatusPending,
	}
	created, err := j.paymentRepo.CreateIfMissing(payment)
	if err != nil {
		return false, err
	}
	if created {
		j.logger.WithFields(map[string]interface{}{
			"rental_id": rental.ID,
			"due_date":  dueDate.Format("2006-01-02"),
		}).Info("Overdue payment filed")
	}

	j.notifyOverdue(ctx, rental, elapsed)
	return true, nil
}

// notifyOverdue tells the tenant and the landlord. Same-day duplicates are
// suppressed downstream, so a rerun stays quiet.
func (j *OverdueJob) notifyOverdue(ctx context.Context, rental *models.Rental, daysElapsed int) {
	propertyName := ""
	if rental.Property != nil {
		propertyName = rental.Property.Name
	}

	if rental.Tenant != nil {
		body := fmt.Sprintf("Your rent for %s is overdue. %d days have passed since your last payment.",
			propertyName, daysElapsed)
		if err := j.notifier.Notify(ctx, rental.Tenant, models.NotificationPaymentOverdue,
			"Rent payment overdue", body, map[string]interface{}{"rental_id": rental.ID}); err != nil {
			j.logger.WithError(err).WithField("rental_id", rental.ID).Warn("Failed to notify tenant of overdue payment")
		}
	}

	if rental.Property != nil && rental.Property.Landlord != nil {
		body := fmt.Sprintf("Rent for %s is overdue. The tenant has not paid for %d days.",
			propertyName, daysElapsed)
		if err := j.notifier.Notify(ctx, rental.Property.Landlord, models.NotificationPaymentOverdue,
			"Tenant payment overdue", body, map[string]interface{}{"rental_id": rental.ID}); err != nil {
			j.logger.WithError(err).WithField("rental_id", rental.ID).Warn("Failed to notify landlord of overdue payment")
		}
	}
}
