package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Maintenance request priorities
const (
	PriorityLow       = "low"
	PriorityMedium    = "medium"
	PriorityHigh      = "high"
	PriorityEmergency = "emergency"
)

// Maintenance request statuses
const (
	MaintenanceStatusPending    = "pending"
	MaintenanceStatusApproved   = "approved"
	MaintenanceStatusInProgress = "in_progress"
	MaintenanceStatusCompleted  = "completed"
	MaintenanceStatusRejected   = "rejected"
)

// MaintenanceRequest represents the maintenance_requests table
type MaintenanceRequest struct {
	ID            uint             `json:"id" gorm:"primarykey"`
	PropertyID    uint             `json:"property_id" gorm:"column:property_id;index"`
	TenantID      uint             `json:"tenant_id" gorm:"column:tenant_id;index"`
	Title         string           `json:"title" gorm:"column:title"`
	Description   string           `json:"description" gorm:"column:description"`
	Priority      string           `json:"priority" gorm:"column:priority;default:medium"`
	Status        string           `json:"status" gorm:"column:status;default:pending"`
	AssignedTo    *uint            `json:"assigned_to" gorm:"column:assigned_to"`
	CompletedAt   *time.Time       `json:"completed_at" gorm:"column:completed_at"`
	EstimatedCost *decimal.Decimal `json:"estimated_cost" gorm:"column:estimated_cost;type:numeric(10,2)"`
	ActualCost    *decimal.Decimal `json:"actual_cost" gorm:"column:actual_cost;type:numeric(10,2)"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`

	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	Tenant   *User     `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
	Assignee *User     `json:"assignee,omitempty" gorm:"foreignKey:AssignedTo"`
}

// TableName sets the insert table name for MaintenanceRequest
func (MaintenanceRequest) TableName() string {
	return "maintenance_requests"
}
