package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oakline/oakline-backend/pkg/enums"
)

// MaintenanceRequest carries a human-readable TSK number assigned before
// insert. Priority runs 1 (low) to 3 (high).
type MaintenanceRequest struct {
	TaskID              uuid.UUID               `gorm:"column:task_id;type:uuid;primaryKey" json:"task_id"`
	TaskNumber          string                  `gorm:"column:task_number;not null;uniqueIndex" json:"task_number"`
	Title               string                  `gorm:"column:title;not null" json:"title"`
	Description         string                  `gorm:"column:description" json:"description"`
	Status              enums.MaintenanceStatus `gorm:"column:status;not null" json:"status"`
	Priority            int                     `gorm:"column:priority;not null;default:1" json:"priority"`
	RequestedBy         uuid.UUID               `gorm:"column:requested_by;type:uuid;not null" json:"requested_by"`
	PropertyUnitAssocID *uuid.UUID              `gorm:"column:property_unit_assoc_id;type:uuid" json:"property_unit_assoc_id,omitempty"`
	ScheduledDate       *time.Time              `gorm:"column:scheduled_date" json:"scheduled_date,omitempty"`
	CompletedDate       *time.Time              `gorm:"column:completed_date" json:"completed_date,omitempty"`
	IsEmergency         bool                    `gorm:"column:is_emergency;not null;default:false" json:"is_emergency"`

	Requester *User `gorm:"foreignKey:RequestedBy;references:UserID" json:"requester,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (MaintenanceRequest) TableName() string { return "maintenance_requests" }

func (m *MaintenanceRequest) BeforeCreate(*gorm.DB) error {
	if m.TaskID == uuid.Nil {
		m.TaskID = uuid.New()
	}
	return nil
}

func (m *MaintenanceRequest) EnsureNumber(now time.Time) {
	if m.TaskNumber == "" {
		m.TaskNumber = HumanNumber(PrefixTask, now)
	}
}
