package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rental statuses
const (
	RentalStatusPending    = "pending"
	RentalStatusActive     = "active"
	RentalStatusTerminated = "terminated"
	RentalStatusExpired    = "expired"
)

// Payment frequencies
const (
	FrequencyMonthly   = "monthly"
	FrequencyQuarterly = "quarterly"
	FrequencyYearly    = "yearly"
)

// Rental represents the rentals table
type Rental struct {
	ID               uint            `json:"id" gorm:"primarykey"`
	PropertyID       uint            `json:"property_id" gorm:"column:property_id;index"`
	TenantID         uint            `json:"tenant_id" gorm:"column:tenant_id;index"`
	StartDate        time.Time       `json:"start_date" gorm:"column:start_date"`
	EndDate          time.Time       `json:"end_date" gorm:"column:end_date"`
	RentAmount       decimal.Decimal `json:"rent_amount" gorm:"column:rent_amount;type:numeric(10,2)"`
	SecurityDeposit  decimal.Decimal `json:"security_deposit" gorm:"column:security_deposit;type:numeric(10,2)"`
	PaymentDueDay    int             `json:"payment_due_day" gorm:"column:payment_due_day;default:1"`
	PaymentFrequency string          `json:"payment_frequency" gorm:"column:payment_frequency;default:monthly"`
	Status           string          `json:"status" gorm:"column:status;default:pending"`
	LeaseDocumentURL  *string        `json:"lease_document_url" gorm:"column:lease_document_url"`
	TerminationReason *string        `json:"termination_reason,omitempty" gorm:"column:termination_reason"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	Tenant   *User     `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
	Payments []Payment `json:"payments,omitempty" gorm:"foreignKey:RentalID"`
}

// TableName sets the insert table name for Rental
func (Rental) TableName() string {
	return "rentals"
}

// IsActive reports whether payments are ongoing for this rental
func (r *Rental) IsActive() bool {
	return r.Status == RentalStatusActive
}

// BillingPeriodDays returns the nominal length of one billing cycle in days
func (r *Rental) BillingPeriodDays() int {
	switch r.PaymentFrequency {
	case FrequencyQuarterly:
		return 91
	case FrequencyYearly:
		return 365
	default:
		return 30
	}
}
