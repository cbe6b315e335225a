package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"propman-be-svc/internal/models"
	"propman-be-svc/internal/policy"
	"propman-be-svc/internal/repository"
	"propman-be-svc/internal/stripe"
	"propman-be-svc/pkg/apperrors"
	"propman-be-svc/pkg/logger"
)

// CreatePaymentRequest records a payment against a rental cycle
type CreatePaymentRequest struct {
	RentalID      uint             `json:"rental_id" binding:"required"`
	Amount        *decimal.Decimal `json:"amount"`
	DueDate       time.Time        `json:"due_date" binding:"required"`
	PaymentMethod string           `json:"payment_method" binding:"required,oneof=credit_card bank_transfer cash check"`
	Notes         *string          `json:"notes"`
}

// UpdatePaymentRequest carries the mutable payment fields
type UpdatePaymentRequest struct {
	Status        *string    `json:"status" binding:"omitempty,oneof=pending completed failed refunded"`
	PaymentDate   *time.Time `json:"payment_date"`
	PaymentMethod *string    `json:"payment_method" binding:"omitempty,oneof=credit_card bank_transfer cash check"`
	TransactionID *string    `json:"transaction_id"`
	Notes         *string    `json:"notes"`
}

// PaymentResult is a created payment plus the Stripe client secret when a
// card flow was started
type PaymentResult struct {
	Payment      *models.Payment `json:"payment"`
	ClientSecret string          `json:"client_secret,omitempty"`
}

// PaymentService defines the interface for payment business logic
type PaymentService interface {
	List(actor *models.User) ([]*models.Payment, error)
	Get(actor *models.User, id uint) (*models.Payment, error)
	Create(actor *models.User, req *CreatePaymentRequest) (*PaymentResult, error)
	Update(actor *models.User, id uint, req *UpdatePaymentRequest) (*models.Payment, error)
	Delete(actor *models.User, id uint) error
	HandleWebhookEvent(ctx context.Context, event *stripe.Event) error
	ExportToExcel(actor *models.User) ([]byte, string, error)
}

// paymentService implements PaymentService
type paymentService struct {
	paymentRepo  repository.PaymentRepository
	rentalRepo   repository.RentalRepository
	stripeClient *stripe.Client
	notifier     NotificationService
	logger       *logger.Logger
	now          func() time.Time
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	rentalRepo repository.RentalRepository,
	stripeClient *stripe.Client,
	notifier NotificationService,
	logger *logger.Logger,
) PaymentService {
	return &paymentService{
		paymentRepo:  paymentRepo,
		rentalRepo:   rentalRepo,
		stripeClient: stripeClient,
		notifier:     notifier,
		logger:       logger,
		now:          time.Now,
	}
}

// List returns the payments visible to the actor
func (s *paymentService) List(actor *models.User) ([]*models.Payment, error) {
	switch {
	case actor.IsSuperuser():
		return s.paymentRepo.List()
	case actor.IsLandlord():
		return s.paymentRepo.ListByLandlord(actor.ID)
	default:
		return s.paymentRepo.ListByTenant(actor.ID)
	}
}

// Get returns one payment
func (s *paymentService) Get(actor *models.User, id uint) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WrapNotFound("payment", id)
		}
		return nil, apperrors.WrapDatabaseError(err)
	}

	if !policy.CanViewPayment(actor, payment) {
		return nil, apperrors.WrapForbidden("view", "payment")
	}
	return payment, nil
}

// Create records a payment for a billing cycle. Cash and check complete
// immediately; credit card opens a Stripe payment intent and stays pending
// until the webhook confirms it. At most one payment per (rental, due date)
// exists, concurrent duplicates are rejected as conflicts.
func (s *paymentService) Create(actor *models.User, req *CreatePaymentRequest) (*PaymentResult, error) {
	rental, err := s.rentalRepo.GetByID(req.RentalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WrapNotFound("rental", req.RentalID)
		}
		return nil, apperrors.WrapDatabaseError(err)
	}

	if !policy.CanCreatePayment(actor, rental) {
		return nil, apperrors.WrapForbidden("create", "payment")
	}
	if !rental.IsActive() {
		return nil, apperrors.New(apperrors.CodeRentalInactive, "payments require an active rental", apperrors.ErrRentalInactive)
	}

	amount := rental.RentAmount
	if req.Amount != nil {
		if req.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, apperrors.WrapValidation("amount must be positive")
		}
		amount = *req.Amount
	}

	method := req.PaymentMethod
	payment := &models.Payment{
		RentalID:      rental.ID,
		Amount:        amount,
		DueDate:       req.DueDate,
		Status:        models.PaymentStatusPending,
		PaymentMethod: &method,
		Notes:         req.Notes,
	}

	result := &PaymentResult{Payment: payment}

	switch method {
	case models.PaymentMethodCreditCard:
		if s.stripeClient == nil {
			return nil, apperrors.WrapValidation("card payments are not configured")
		}
		intent, err := s.stripeClient.CreatePaymentIntent(amount, "usd", map[string]string{
			"rental_id":   strconv.FormatUint(uint64(rental.ID), 10),
			"property_id": strconv.FormatUint(uint64(rental.PropertyID), 10),
		})
		if err != nil {
			return nil, apperrors.WrapExternalService("stripe", err)
		}
		payment.StripePaymentIntentID = &intent.ID
		result.ClientSecret = intent.ClientSecret
	default:
		// Offline methods are settled on the spot
		paidAt := s.now()
		payment.Status = models.PaymentStatusCompleted
		payment.PaymentDate = &paidAt
	}

	created, err := s.paymentRepo.CreateIfMissing(payment)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}
	if !created {
		return nil, apperrors.WrapConflict("a payment for this billing cycle already exists")
	}

	if payment.Status == models.PaymentStatusCompleted {
		s.notifyReceived(payment, rental)
	}

	s.logger.WithFields(map[string]interface{}{
		"payment_id": payment.ID,
		"rental_id":  rental.ID,
		"method":     method,
		"status":     payment.Status,
	}).Info("Payment recorded")

	return result, nil
}

// Update applies manual corrections to a payment record
func (s *paymentService) Update(actor *models.User, id uint, req *UpdatePaymentRequest) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WrapNotFound("payment", id)
		}
		return nil, apperrors.WrapDatabaseError(err)
	}

	if !policy.CanUpdatePayment(actor, payment) {
		return nil, apperrors.WrapForbidden("update", "payment")
	}

	if req.Status != nil {
		payment.Status = *req.Status
		if *req.Status == models.PaymentStatusCompleted && payment.PaymentDate == nil {
			paidAt := s.now()
			payment.PaymentDate = &paidAt
		}
	}
	if req.PaymentDate != nil {
		payment.PaymentDate = req.PaymentDate
	}
	if req.PaymentMethod != nil {
		payment.PaymentMethod = req.PaymentMethod
	}
	if req.TransactionID != nil {
		payment.TransactionID = req.TransactionID
	}
	if req.Notes != nil {
		payment.Notes = req.Notes
	}

	if err := s.paymentRepo.Update(payment); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}
	return payment, nil
}

// Delete removes a payment record. Superusers only.
func (s *paymentService) Delete(actor *models.User, id uint) error {
	payment, err := s.paymentRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.WrapNotFound("payment", id)
		}
		return apperrors.WrapDatabaseError(err)
	}

	if !policy.CanDeletePayment(actor, payment) {
		return apperrors.WrapForbidden("delete", "payment")
	}
	return s.paymentRepo.Delete(id)
}

// HandleWebhookEvent applies a verified Stripe event to the matching
// payment. Events for unknown intents are acknowledged and dropped so
// Stripe stops retrying them.
func (s *paymentService) HandleWebhookEvent(ctx context.Context, event *stripe.Event) error {
	intent := event.Data.Object
	if intent.ID == "" {
		return nil
	}

	payment, err := s.paymentRepo.GetByStripeIntentID(intent.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.WithField("intent_id", intent.ID).Warn("Webhook for unknown payment intent ignored")
			return nil
		}
		return apperrors.WrapDatabaseError(err)
	}
	if payment.IsTerminal() {
		// Stripe retries deliveries; a settled payment stays as is
		return nil
	}

	switch event.Type {
	case stripe.EventPaymentIntentSucceeded:
		paidAt := s.now()
		payment.Status = models.PaymentStatusCompleted
		payment.PaymentDate = &paidAt
		if intent.LatestCharge != "" {
			payment.TransactionID = &intent.LatestCharge
		}
	case stripe.EventPaymentIntentFailed:
		payment.Status = models.PaymentStatusFailed
	default:
		return nil
	}

	if err := s.paymentRepo.Update(payment); err != nil {
		return apperrors.WrapDatabaseError(err)
	}

	if payment.Status == models.PaymentStatusCompleted {
		if rental, err := s.rentalRepo.GetByID(payment.RentalID); err == nil {
			s.notifyReceived(payment, rental)
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"payment_id": payment.ID,
		"event_type": event.Type,
		"status":     payment.Status,
	}).Info("Stripe webhook processed")
	return nil
}

// ExportToExcel writes the actor's visible payments to an xlsx workbook
func (s *paymentService) ExportToExcel(actor *models.User) ([]byte, string, error) {
	if actor.IsTenant() {
		return nil, "", apperrors.WrapForbidden("export", "payments")
	}

	payments, err := s.List(actor)
	if err != nil {
		return nil, "", apperrors.WrapDatabaseError(err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Payments"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Rental ID", "Amount", "Due Date", "Payment Date", "Status", "Method", "Transaction ID"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, p := range payments {
		values := []interface{}{
			p.ID,
			p.RentalID,
			p.Amount.StringFixed(2),
			p.DueDate.Format("2006-01-02"),
			"",
			p.Status,
			"",
			"",
		}
		if p.PaymentDate != nil {
			values[4] = p.PaymentDate.Format("2006-01-02")
		}
		if p.PaymentMethod != nil {
			values[6] = *p.PaymentMethod
		}
		if p.TransactionID != nil {
			values[7] = *p.TransactionID
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to write workbook: %w", err)
	}

	filename := fmt.Sprintf("payments_%s.xlsx", s.now().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

func (s *paymentService) notifyReceived(payment *models.Payment, rental *models.Rental) {
	if s.notifier == nil || rental == nil || rental.Tenant == nil {
		return
	}
	subject := "Payment received"
	body := fmt.Sprintf("Your payment of %s due %s has been received.",
		payment.Amount.StringFixed(2), payment.DueDate.Format("2006-01-02"))
	if err := s.notifier.Notify(context.Background(), rental.Tenant, models.NotificationPaymentReceived, subject, body, map[string]interface{}{
		"payment_id": payment.ID,
		"rental_id":  rental.ID,
	}); err != nil {
		s.logger.WithError(err).Warn("Failed to send payment receipt notification")
	}
}
