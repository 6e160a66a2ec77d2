package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oakline/oakline-backend/pkg/enums"
)

// CalendarEvent carries a human-readable EVT number assigned before insert.
type CalendarEvent struct {
	CalendarEventID uuid.UUID            `gorm:"column:calendar_event_id;type:uuid;primaryKey" json:"calendar_event_id"`
	EventID         string               `gorm:"column:event_id;not null;uniqueIndex" json:"event_id"`
	Title           string               `gorm:"column:title;not null" json:"title"`
	Description     string               `gorm:"column:description" json:"description"`
	EventType       enums.EventType      `gorm:"column:event_type;not null" json:"event_type"`
	Status          enums.CalendarStatus `gorm:"column:status;not null" json:"status"`
	EventStartDate  *time.Time           `gorm:"column:event_start_date" json:"event_start_date,omitempty"`
	EventEndDate    *time.Time           `gorm:"column:event_end_date" json:"event_end_date,omitempty"`
	OrganizerID     uuid.UUID            `gorm:"column:organizer_id;type:uuid;not null" json:"organizer_id"`

	Organizer *User `gorm:"foreignKey:OrganizerID;references:UserID" json:"organizer,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (CalendarEvent) TableName() string { return "calendar_events" }

func (c *CalendarEvent) BeforeCreate(*gorm.DB) error {
	if c.CalendarEventID == uuid.Nil {
		c.CalendarEventID = uuid.New()
	}
	return nil
}

func (c *CalendarEvent) EnsureNumber(now time.Time) {
	if c.EventID == "" {
		c.EventID = HumanNumber(PrefixEvent, now)
	}
}
