package models

import (
	"time"
)

// Notification kinds
const (
	NotificationPaymentReminder     = "payment_reminder"
	NotificationPaymentOverdue      = "payment_overdue"
	NotificationPaymentReceived     = "payment_received"
	NotificationMaintenanceFollowUp = "maintenance_follow_up"
	NotificationMaintenanceStatus   = "maintenance_status"
	NotificationNewMessage          = "new_message"
)

// Notification represents the notifications table (in-app inbox)
type Notification struct {
	ID        uint       `json:"id" gorm:"primarykey"`
	UserID    uint       `json:"user_id" gorm:"column:user_id;index"`
	Kind      string     `json:"kind" gorm:"column:kind"`
	Subject   string     `json:"subject" gorm:"column:subject"`
	Body      string     `json:"body" gorm:"column:body"`
	Payload   *string    `json:"payload" gorm:"column:payload"`
	ReadAt    *time.Time `json:"read_at" gorm:"column:read_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName sets the insert table name for Notification
func (Notification) TableName() string {
	return "notifications"
}
