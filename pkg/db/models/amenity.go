package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oakline/oakline-backend/pkg/enums"
)

// Amenity is reference data matched by its full attribute set.
type Amenity struct {
	AmenityID        uuid.UUID `gorm:"column:amenity_id;type:uuid;primaryKey" json:"amenity_id"`
	AmenityName      string    `gorm:"column:amenity_name;not null;uniqueIndex:idx_amenity_attrs" json:"amenity_name"`
	AmenityShortName string    `gorm:"column:amenity_short_name;uniqueIndex:idx_amenity_attrs" json:"amenity_short_name"`
	AmenityValueType string    `gorm:"column:amenity_value_type;uniqueIndex:idx_amenity_attrs" json:"amenity_value_type"`
	Description      string    `gorm:"column:description;uniqueIndex:idx_amenity_attrs" json:"description"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Amenity) TableName() string { return "amenities" }

func (a *Amenity) BeforeCreate(*gorm.DB) error {
	if a.AmenityID == uuid.Nil {
		a.AmenityID = uuid.New()
	}
	return nil
}

// EntityAmenity links an amenity to an entity. Nested media attach to this
// junction row, not to the base amenity.
type EntityAmenity struct {
	EntityAmenityID uuid.UUID        `gorm:"column:entity_amenity_id;type:uuid;primaryKey" json:"entity_amenity_id"`
	EntityType      enums.EntityType `gorm:"column:entity_type;not null;uniqueIndex:idx_entity_amenity" json:"entity_type"`
	EntityAssocID   uuid.UUID        `gorm:"column:entity_assoc_id;type:uuid;not null;uniqueIndex:idx_entity_amenity" json:"entity_assoc_id"`
	AmenityID       uuid.UUID        `gorm:"column:amenity_id;type:uuid;not null;uniqueIndex:idx_entity_amenity" json:"amenity_id"`

	Amenity *Amenity `gorm:"foreignKey:AmenityID;references:AmenityID" json:"amenity,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (EntityAmenity) TableName() string { return "entity_amenities" }

func (e *EntityAmenity) BeforeCreate(*gorm.DB) error {
	if e.EntityAmenityID == uuid.Nil {
		e.EntityAmenityID = uuid.New()
	}
	return nil
}
