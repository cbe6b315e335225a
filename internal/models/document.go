package models

import (
	"time"
)

// Document types
const (
	DocumentTypeLease       = "lease"
	DocumentTypeContract    = "contract"
	DocumentTypeInvoice     = "invoice"
	DocumentTypeReceipt     = "receipt"
	DocumentTypeMaintenance = "maintenance"
	DocumentTypeOther       = "other"
)

// Document statuses
const (
	DocumentStatusPending  = "pending"
	DocumentStatusApproved = "approved"
	DocumentStatusRejected = "rejected"
)

// Document represents the documents table
type Document struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	PropertyID  uint      `json:"property_id" gorm:"column:property_id;index"`
	UserID      uint      `json:"user_id" gorm:"column:user_id;index"`
	Title       string    `json:"title" gorm:"column:title"`
	Type        string    `json:"type" gorm:"column:type"`
	FilePath    string    `json:"file_path" gorm:"column:file_path"`
	FileSize    int64     `json:"file_size" gorm:"column:file_size"`
	MimeType    string    `json:"mime_type" gorm:"column:mime_type"`
	Status      string    `json:"status" gorm:"column:status;default:pending"`
	Description *string   `json:"description" gorm:"column:description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	User     *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName sets the insert table name for Document
func (Document) TableName() string {
	return "documents"
}
