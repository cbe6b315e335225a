package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Property statuses
const (
	PropertyStatusAvailable   = "available"
	PropertyStatusRented      = "rented"
	PropertyStatusMaintenance = "maintenance"
	PropertyStatusInactive    = "inactive"
)

// Property types
const (
	PropertyTypeApartment  = "apartment"
	PropertyTypeHouse      = "house"
	PropertyTypeCondo      = "condo"
	PropertyTypeCommercial = "commercial"
)

// Property represents the properties table
type Property struct {
	ID                 uint            `json:"id" gorm:"primarykey"`
	LandlordID         uint            `json:"landlord_id" gorm:"column:landlord_id;index"`
	Name               string          `json:"name" gorm:"column:name"`
	Type               string          `json:"type" gorm:"column:type"`
	Address            string          `json:"address" gorm:"column:address"`
	City               string          `json:"city" gorm:"column:city"`
	State              string          `json:"state" gorm:"column:state"`
	ZipCode            string          `json:"zip_code" gorm:"column:zip_code"`
	Country            string          `json:"country" gorm:"column:country"`
	Description        string          `json:"description" gorm:"column:description"`
	MonthlyRent        decimal.Decimal `json:"monthly_rent" gorm:"column:monthly_rent;type:numeric(10,2)"`
	Status             string          `json:"status" gorm:"column:status;default:available"`
	Bedrooms           int             `json:"bedrooms" gorm:"column:bedrooms"`
	Bathrooms          int             `json:"bathrooms" gorm:"column:bathrooms"`
	SquareFeet         int             `json:"square_feet" gorm:"column:square_feet"`
	AvailableFrom      *time.Time      `json:"available_from" gorm:"column:available_from"`
	MinimumLeaseMonths int             `json:"minimum_lease_months" gorm:"column:minimum_lease_months"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`

	Landlord *User    `json:"landlord,omitempty" gorm:"foreignKey:LandlordID"`
	Rentals  []Rental `json:"rentals,omitempty" gorm:"foreignKey:PropertyID"`
}

// TableName sets the insert table name for Property
func (Property) TableName() string {
	return "properties"
}

// IsAvailable reports whether the property can take a new rental
func (p *Property) IsAvailable() bool {
	return p.Status == PropertyStatusAvailable
}
