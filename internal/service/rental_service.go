package service

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"propman-be-svc/internal/models"
	"propman-be-svc/internal/policy"
	"propman-be-svc/internal/repository"
	"propman-be-svc/internal/schedule"
	"propman-be-svc/pkg/apperrors"
	"propman-be-svc/pkg/logger"
)

// CreateRentalRequest carries the fields for opening a new lease
type CreateRentalRequest struct {
	PropertyID       uint            `json:"property_id" binding:"required"`
	TenantID         uint            `json:"tenant_id" binding:"required"`
	StartDate        time.Time       `json:"start_date" binding:"required"`
	EndDate          time.Time       `json:"end_date" binding:"required"`
	RentAmount       decimal.Decimal `json:"rent_amount" binding:"required"`
	SecurityDeposit  decimal.Decimal `json:"security_deposit"`
	PaymentDueDay    int             `json:"payment_due_day" binding:"required,min=1,max=31"`
	PaymentFrequency string          `json:"payment_frequency" binding:"omitempty,oneof=monthly quarterly yearly"`
	LeaseDocumentURL *string         `json:"lease_document_url"`
}

// UpdateRentalRequest carries the mutable lease fields. Pointer fields
// distinguish "not sent" from zero values.
type UpdateRentalRequest struct {
	EndDate          *time.Time       `json:"end_date"`
	RentAmount       *decimal.Decimal `json:"rent_amount"`
	SecurityDeposit  *decimal.Decimal `json:"security_deposit"`
	PaymentDueDay    *int             `json:"payment_due_day" binding:"omitempty,min=1,max=31"`
	Status           *string          `json:"status" binding:"omitempty,oneof=pending active terminated expired"`
	LeaseDocumentURL *string          `json:"lease_document_url"`
}

// TerminateRentalRequest carries the optional early-termination details.
// When the date is omitted the lease ends now.
type TerminateRentalRequest struct {
	TerminationDate *time.Time `json:"termination_date"`
	Reason          *string    `json:"reason"`
}

// PaymentStatistics summarizes the payment state of one rental
type PaymentStatistics struct {
	TotalPaid    decimal.Decimal `json:"total_paid"`
	TotalPending decimal.Decimal `json:"total_pending"`
	PendingCount int             `json:"pending_count"`
	LastPayment  *time.Time      `json:"last_payment"`
	NextDueDate  *time.Time      `json:"next_due_date"`
}

// RentalService defines the interface for rental business logic
type RentalService interface {
	List(actor *models.User) ([]*models.Rental, error)
	Get(actor *models.User, id uint) (*models.Rental, *PaymentStatistics, error)
	Create(actor *models.User, req *CreateRentalRequest) (*models.Rental, error)
	Update(actor *models.User, id uint, req *UpdateRentalRequest) (*models.Rental, error)
	Terminate(actor *models.User, id uint, req *TerminateRentalRequest) (*models.Rental, error)
	Delete(actor *models.User, id uint) error
}

// rentalService implements RentalService
type rentalService struct {
	rentalRepo   repository.RentalRepository
	propertyRepo repository.PropertyRepository
	paymentRepo  repository.PaymentRepository
	userRepo     repository.UserRepository
	logger       *logger.Logger
	now          func() time.Time
}

// NewRentalService creates a new rental service
func NewRentalService(
	rentalRepo repository.RentalRepository,
	propertyRepo repository.PropertyRepository,
	paymentRepo repository.PaymentRepository,
	userRepo repository.UserRepository,
	logger *logger.Logger,
) RentalService {
	return &rentalService{
		rentalRepo:   rentalRepo,
		propertyRepo: propertyRepo,
		paymentRepo:  paymentRepo,
		userRepo:     userRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// List returns the rentals visible to the actor. Landlords see rentals on
// their properties, tenants their own leases, superusers everything.
func (s *rentalService) List(actor *models.User) ([]*models.Rental, error) {
	switch {
	case actor.IsSuperuser():
		return s.rentalRepo.List()
	case actor.IsLandlord():
		return s.rentalRepo.ListByLandlord(actor.ID)
	default:
		return s.rentalRepo.ListByTenant(actor.ID)
	}
}

// Get returns one rental with its payments and aggregate payment statistics
func (s *rentalService) Get(actor *models.User, id uint) (*models.Rental, *PaymentStatistics, error) {
	rental, err := s.rentalRepo.GetWithPayments(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.WrapNotFound("rental", id)
		}
		return nil, nil, apperrors.WrapDatabaseError(err)
	}

	if !policy.CanViewRental(actor, rental) {
		return nil, nil, apperrors.WrapForbidden("view", "rental")
	}

	return rental, s.buildStatistics(rental), nil
}

// Create opens a lease on an available property and generates its full
// payment schedule, one pending payment per billing cycle. The property is
// marked rented.
func (s *rentalService) Create(actor *models.User, req *CreateRentalRequest) (*models.Rental, error) {
	if !req.EndDate.After(req.StartDate) {
		return nil, apperrors.WrapValidation("end_date must be after start_date")
	}
	if req.RentAmount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.WrapValidation("rent_amount must be positive")
	}

	property, err := s.propertyRepo.GetByID(req.PropertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WrapNotFound("property", req.PropertyID)
		}
		return nil, apperrors.WrapDatabaseError(err)
	}

	if !policy.CanCreateRental(actor, property) {
		return nil, apperrors.WrapForbidden("create", "rental")
	}
	if !property.IsAvailable() {
		return nil, apperrors.New(apperrors.CodePropertyOccupied, "property is not available for rent", apperrors.ErrPropertyOccupied)
	}

	tenant, err := s.userRepo.GetByID(req.TenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WrapNotFound("tenant", req.TenantID)
		}
		return nil, apperrors.WrapDatabaseError(err)
	}
	if !tenant.IsTenant() {
		return nil, apperrors.WrapValidation("assigned user does not have the tenant role")
	}

	frequency := req.PaymentFrequency
	if frequency == "" {
		frequency = models.FrequencyMonthly
	}

	rental := &models.Rental{
		PropertyID:       req.PropertyID,
		TenantID:         req.TenantID,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		RentAmount:       req.RentAmount,
		SecurityDeposit:  req.SecurityDeposit,
		PaymentDueDay:    req.PaymentDueDay,
		PaymentFrequency: frequency,
		Status:           models.RentalStatusActive,
		LeaseDocumentURL: req.LeaseDocumentURL,
	}

	if err := s.rentalRepo.Create(rental); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	if err := s.generateSchedule(rental); err != nil {
		return nil, err
	}

	if err := s.propertyRepo.UpdateStatus(property.ID, models.PropertyStatusRented); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	s.logger.WithFields(map[string]interface{}{
		"rental_id":   rental.ID,
		"property_id": rental.PropertyID,
		"tenant_id":   rental.TenantID,
	}).Info("Rental created with payment schedule")

	return rental, nil
}

// Update applies lease changes. When the rent amount or due day changes,
// pending payments with a due date still in the future are rewritten in
// place; completed and past-due records are never touched.
func (s *rentalService) Update(actor *models.User, id uint, req *UpdateRentalRequest) (*models.Rental, error) {
	rental, err := s.rentalRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WrapNotFound("rental", id)
		}
		return nil, apperrors.WrapDatabaseError(err)
	}

	if !policy.CanUpdateRental(actor, rental) {
		return nil, apperrors.WrapForbidden("update", "rental")
	}

	recalculate := false
	if req.RentAmount != nil && !req.RentAmount.Equal(rental.RentAmount) {
		if req.RentAmount.LessThanOrEqual(decimal.Zero) {
			return nil, apperrors.WrapValidation("rent_amount must be positive")
		}
		rental.RentAmount = *req.RentAmount
		recalculate = true
	}
	if req.PaymentDueDay != nil && *req.PaymentDueDay != rental.PaymentDueDay {
		rental.PaymentDueDay = *req.PaymentDueDay
		recalculate = true
	}
	if req.EndDate != nil {
		if !req.EndDate.After(rental.StartDate) {
			return nil, apperrors.WrapValidation("end_date must be after start_date")
		}
		rental.EndDate = *req.EndDate
	}
	if req.SecurityDeposit != nil {
		rental.SecurityDeposit = *req.SecurityDeposit
	}
	if req.LeaseDocumentURL != nil {
		rental.LeaseDocumentURL = req.LeaseDocumentURL
	}

	statusChanged := false
	if req.Status != nil && *req.Status != rental.Status {
		rental.Status = *req.Status
		statusChanged = true
	}

	if err := s.rentalRepo.Update(rental); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	if recalculate {
		if err := s.recalculatePending(rental); err != nil {
			return nil, err
		}
	}

	if statusChanged && (rental.Status == models.RentalStatusTerminated || rental.Status == models.RentalStatusExpired) {
		if err := s.releaseProperty(rental.PropertyID); err != nil {
			return nil, err
		}
	}

	return rental, nil
}

// Terminate ends the lease early. The end date moves to the requested
// termination date (or now) and the property goes back to available.
func (s *rentalService) Terminate(actor *models.User, id uint, req *TerminateRentalRequest) (*models.Rental, error) {
	rental, err := s.rentalRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WrapNotFound("rental", id)
		}
		return nil, apperrors.WrapDatabaseError(err)
	}

	if !policy.CanTerminateRental(actor, rental) {
		return nil, apperrors.WrapForbidden("terminate", "rental")
	}
	if rental.Status == models.RentalStatusTerminated {
		return nil, apperrors.WrapConflict("rental is already terminated")
	}

	rental.Status = models.RentalStatusTerminated
	rental.EndDate = s.now()
	if req != nil {
		if req.TerminationDate != nil {
			rental.EndDate = *req.TerminationDate
		}
		if req.Reason != nil {
			rental.TerminationReason = req.Reason
		}
	}

	if err := s.rentalRepo.Update(rental); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}
	if err := s.releaseProperty(rental.PropertyID); err != nil {
		return nil, err
	}

	// Pending payments falling after the new end date no longer apply.
	stale, err := s.paymentRepo.ListFuturePending(rental.ID, rental.EndDate)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}
	for _, p := range stale {
		if err := s.paymentRepo.Delete(p.ID); err != nil {
			return nil, apperrors.WrapDatabaseError(err)
		}
	}

	s.logger.WithField("rental_id", rental.ID).Info("Rental terminated")
	return rental, nil
}

// Delete removes the rental and its payments. The property becomes
// available again when no other rentals reference it.
func (s *rentalService) Delete(actor *models.User, id uint) error {
	rental, err := s.rentalRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.WrapNotFound("rental", id)
		}
		return apperrors.WrapDatabaseError(err)
	}

	if !policy.CanDeleteRental(actor, rental) {
		return apperrors.WrapForbidden("delete", "rental")
	}

	if err := s.rentalRepo.Delete(id); err != nil {
		return apperrors.WrapDatabaseError(err)
	}

	count, err := s.propertyRepo.CountRentals(rental.PropertyID)
	if err != nil {
		return apperrors.WrapDatabaseError(err)
	}
	if count == 0 {
		return s.releaseProperty(rental.PropertyID)
	}
	return nil
}

// generateSchedule creates one pending payment per billing cycle from the
// start date (inclusive) to the end date (exclusive), each due on the
// rental's due day clamped to the month length.
func (s *rentalService) generateSchedule(rental *models.Rental) error {
	dueDates := schedule.DueDates(rental.StartDate, rental.EndDate, rental.PaymentDueDay, rental.PaymentFrequency)

	payments := make([]*models.Payment, 0, len(dueDates))
	for _, due := range dueDates {
		payments = append(payments, &models.Payment{
			RentalID: rental.ID,
			Amount:   rental.RentAmount,
			DueDate:  due,
			Status:   models.PaymentStatusPending,
		})
	}
	if len(payments) == 0 {
		return nil
	}

	if err := s.paymentRepo.CreateBatch(payments); err != nil {
		return apperrors.WrapDatabaseError(err)
	}
	return nil
}

// recalculatePending rewrites amount and due date on pending payments whose
// due date is strictly in the future
func (s *rentalService) recalculatePending(rental *models.Rental) error {
	pending, err := s.paymentRepo.ListFuturePending(rental.ID, s.now())
	if err != nil {
		return apperrors.WrapDatabaseError(err)
	}

	for _, payment := range pending {
		payment.Amount = rental.RentAmount
		payment.DueDate = schedule.WithDueDay(payment.DueDate, rental.PaymentDueDay)
		if err := s.paymentRepo.Update(payment); err != nil {
			return apperrors.WrapDatabaseError(err)
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"rental_id": rental.ID,
		"updated":   len(pending),
	}).Info("Pending payments recalculated")
	return nil
}

func (s *rentalService) releaseProperty(propertyID uint) error {
	if err := s.propertyRepo.UpdateStatus(propertyID, models.PropertyStatusAvailable); err != nil {
		return apperrors.WrapDatabaseError(err)
	}
	return nil
}

func (s *rentalService) buildStatistics(rental *models.Rental) *PaymentStatistics {
	stats := &PaymentStatistics{
		TotalPaid:    decimal.Zero,
		TotalPending: decimal.Zero,
	}

	for i := range rental.Payments {
		p := &rental.Payments[i]
		switch p.Status {
		case models.PaymentStatusCompleted:
			stats.TotalPaid = stats.TotalPaid.Add(p.Amount)
			if p.PaymentDate != nil && (stats.LastPayment == nil || p.PaymentDate.After(*stats.LastPayment)) {
				stats.LastPayment = p.PaymentDate
			}
		case models.PaymentStatusPending:
			stats.TotalPending = stats.TotalPending.Add(p.Amount)
			stats.PendingCount++
			if stats.NextDueDate == nil || p.DueDate.Before(*stats.NextDueDate) {
				due := p.DueDate
				stats.NextDueDate = &due
			}
		}
	}

	return stats
}
