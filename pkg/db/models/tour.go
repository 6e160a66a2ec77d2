package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oakline/oakline-backend/pkg/enums"
)

// Tour is a prospect booking to view a property or unit.
type Tour struct {
	TourBookingID       uuid.UUID        `gorm:"column:tour_booking_id;type:uuid;primaryKey" json:"tour_booking_id"`
	Name                string           `gorm:"column:name;not null" json:"name"`
	Email               string           `gorm:"column:email;not null" json:"email"`
	PhoneNumber         string           `gorm:"column:phone_number" json:"phone_number"`
	TourType            enums.TourType   `gorm:"column:tour_type;not null" json:"tour_type"`
	Status              enums.TourStatus `gorm:"column:status;not null" json:"status"`
	TourDate            *time.Time       `gorm:"column:tour_date" json:"tour_date,omitempty"`
	PropertyUnitAssocID uuid.UUID        `gorm:"column:property_unit_assoc_id;type:uuid;not null" json:"property_unit_assoc_id"`
	UserID              *uuid.UUID       `gorm:"column:user_id;type:uuid" json:"user_id,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Tour) TableName() string { return "tour_bookings" }

func (t *Tour) BeforeCreate(*gorm.DB) error {
	if t.TourBookingID == uuid.Nil {
		t.TourBookingID = uuid.New()
	}
	return nil
}
