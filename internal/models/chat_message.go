package models

import (
	"time"
)

// Chat message types
const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
	MessageTypeFile  = "file"
)

// ChatMessage represents the chat_messages table
type ChatMessage struct {
	ID          uint       `json:"id" gorm:"primarykey"`
	PropertyID  uint       `json:"property_id" gorm:"column:property_id;index"`
	SenderID    uint       `json:"sender_id" gorm:"column:sender_id;index"`
	RecipientID uint       `json:"recipient_id" gorm:"column:recipient_id;index"`
	Message     string     `json:"message" gorm:"column:message"`
	Type        string     `json:"type" gorm:"column:type;default:text"`
	ReadAt      *time.Time `json:"read_at" gorm:"column:read_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Property  *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	Sender    *User     `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	Recipient *User     `json:"recipient,omitempty" gorm:"foreignKey:RecipientID"`
}

// TableName sets the insert table name for ChatMessage
func (ChatMessage) TableName() string {
	return "chat_messages"
}
