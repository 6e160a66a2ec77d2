package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oakline/oakline-backend/pkg/enums"
)

// Media stores uploaded content metadata. The content URL points at the
// external media store once the upload has completed.
type Media struct {
	MediaID     uuid.UUID `gorm:"column:media_id;type:uuid;primaryKey" json:"media_id"`
	MediaName   string    `gorm:"column:media_name;not null" json:"media_name"`
	MediaType   string    `gorm:"column:media_type" json:"media_type"`
	ContentURL  string    `gorm:"column:content_url;not null" json:"content_url"`
	Caption     string    `gorm:"column:caption" json:"caption,omitempty"`
	IsThumbnail bool      `gorm:"column:is_thumbnail;not null;default:false" json:"is_thumbnail"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Media) TableName() string { return "media" }

func (m *Media) BeforeCreate(*gorm.DB) error {
	if m.MediaID == uuid.Nil {
		m.MediaID = uuid.New()
	}
	return nil
}

// EntityMedia attaches media to any entity kind.
type EntityMedia struct {
	EntityMediaID uuid.UUID        `gorm:"column:entity_media_id;type:uuid;primaryKey" json:"entity_media_id"`
	EntityType    enums.EntityType `gorm:"column:entity_type;not null;uniqueIndex:idx_entity_media" json:"entity_type"`
	MediaAssocID  uuid.UUID        `gorm:"column:media_assoc_id;type:uuid;not null;uniqueIndex:idx_entity_media" json:"media_assoc_id"`
	MediaID       uuid.UUID        `gorm:"column:media_id;type:uuid;not null;uniqueIndex:idx_entity_media" json:"media_id"`

	Media *Media `gorm:"foreignKey:MediaID;references:MediaID" json:"media,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (EntityMedia) TableName() string { return "entity_media" }

func (e *EntityMedia) BeforeCreate(*gorm.DB) error {
	if e.EntityMediaID == uuid.Nil {
		e.EntityMediaID = uuid.New()
	}
	return nil
}
