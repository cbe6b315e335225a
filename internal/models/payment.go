package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment statuses
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// Payment methods
const (
	PaymentMethodCreditCard   = "credit_card"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodCash         = "cash"
	PaymentMethodCheck        = "check"
)

// Payment represents the payments table. The unique index on
// (rental_id, due_date) guarantees at most one record per billing cycle
// under concurrent writers.
type Payment struct {
	ID                    uint            `json:"id" gorm:"primarykey"`
	RentalID              uint            `json:"rental_id" gorm:"column:rental_id;uniqueIndex:idx_payments_rental_due"`
	Amount                decimal.Decimal `json:"amount" gorm:"column:amount;type:numeric(10,2)"`
	DueDate               time.Time       `json:"due_date" gorm:"column:due_date;uniqueIndex:idx_payments_rental_due"`
	PaymentDate           *time.Time      `json:"payment_date" gorm:"column:payment_date"`
	Status                string          `json:"status" gorm:"column:status;default:pending"`
	PaymentMethod         *string         `json:"payment_method" gorm:"column:payment_method"`
	TransactionID         *string         `json:"transaction_id" gorm:"column:transaction_id"`
	StripePaymentIntentID *string         `json:"stripe_payment_intent_id" gorm:"column:stripe_payment_intent_id;index"`
	Notes                 *string         `json:"notes" gorm:"column:notes"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`

	Rental *Rental `json:"rental,omitempty" gorm:"foreignKey:RentalID"`
}

// TableName sets the insert table name for Payment
func (Payment) TableName() string {
	return "payments"
}

// IsTerminal reports whether the payment reached a final status
func (p *Payment) IsTerminal() bool {
	return p.Status == PaymentStatusCompleted ||
		p.Status == PaymentStatusFailed ||
		p.Status == PaymentStatusRefunded
}
