package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message supports threads via ParentMessageID and per-recipient state rows.
type Message struct {
	MessageID       uuid.UUID  `gorm:"column:message_id;type:uuid;primaryKey" json:"message_id"`
	Subject         string     `gorm:"column:subject" json:"subject"`
	MessageBody     string     `gorm:"column:message_body" json:"message_body"`
	SenderID        uuid.UUID  `gorm:"column:sender_id;type:uuid;not null" json:"sender_id"`
	ParentMessageID *uuid.UUID `gorm:"column:parent_message_id;type:uuid" json:"parent_message_id,omitempty"`
	ThreadID        *uuid.UUID `gorm:"column:thread_id;type:uuid;index" json:"thread_id,omitempty"`
	IsDraft         bool       `gorm:"column:is_draft;not null;default:false" json:"is_draft"`
	IsScheduled     bool       `gorm:"column:is_scheduled;not null;default:false" json:"is_scheduled"`
	ScheduledAt     *time.Time `gorm:"column:scheduled_at" json:"scheduled_at,omitempty"`

	Sender     *User              `gorm:"foreignKey:SenderID;references:UserID" json:"sender,omitempty"`
	Recipients []MessageRecipient `gorm:"foreignKey:MessageID;references:MessageID" json:"recipients,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Message) TableName() string { return "messages" }

func (m *Message) BeforeCreate(*gorm.DB) error {
	if m.MessageID == uuid.Nil {
		m.MessageID = uuid.New()
	}
	return nil
}

type MessageRecipient struct {
	MessageRecipientID uuid.UUID  `gorm:"column:message_recipient_id;type:uuid;primaryKey" json:"message_recipient_id"`
	MessageID          uuid.UUID  `gorm:"column:message_id;type:uuid;not null;uniqueIndex:idx_message_recipient" json:"message_id"`
	RecipientID        uuid.UUID  `gorm:"column:recipient_id;type:uuid;not null;uniqueIndex:idx_message_recipient" json:"recipient_id"`
	IsRead             bool       `gorm:"column:is_read;not null;default:false" json:"is_read"`
	ReadAt             *time.Time `gorm:"column:read_at" json:"read_at,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (MessageRecipient) TableName() string { return "message_recipients" }

func (m *MessageRecipient) BeforeCreate(*gorm.DB) error {
	if m.MessageRecipientID == uuid.Nil {
		m.MessageRecipientID = uuid.New()
	}
	return nil
}
