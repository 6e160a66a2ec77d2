package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oakline/oakline-backend/pkg/enums"
)

// Country is reference data resolved by name, created when missing.
type Country struct {
	CountryID   uuid.UUID `gorm:"column:country_id;type:uuid;primaryKey" json:"country_id"`
	CountryName string    `gorm:"column:country_name;not null;uniqueIndex" json:"country_name"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Country) TableName() string { return "country" }

func (c *Country) BeforeCreate(*gorm.DB) error {
	if c.CountryID == uuid.Nil {
		c.CountryID = uuid.New()
	}
	return nil
}

// Region belongs to a country; unique by (country, name).
type Region struct {
	RegionID   uuid.UUID `gorm:"column:region_id;type:uuid;primaryKey" json:"region_id"`
	CountryID  uuid.UUID `gorm:"column:country_id;type:uuid;not null;uniqueIndex:idx_region_country_name" json:"country_id"`
	RegionName string    `gorm:"column:region_name;not null;uniqueIndex:idx_region_country_name" json:"region_name"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Region) TableName() string { return "region" }

func (r *Region) BeforeCreate(*gorm.DB) error {
	if r.RegionID == uuid.Nil {
		r.RegionID = uuid.New()
	}
	return nil
}

// City belongs to a region; unique by (region, name).
type City struct {
	CityID    uuid.UUID `gorm:"column:city_id;type:uuid;primaryKey" json:"city_id"`
	RegionID  uuid.UUID `gorm:"column:region_id;type:uuid;not null;uniqueIndex:idx_city_region_name" json:"region_id"`
	CityName  string    `gorm:"column:city_name;not null;uniqueIndex:idx_city_region_name" json:"city_name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (City) TableName() string { return "city" }

func (c *City) BeforeCreate(*gorm.DB) error {
	if c.CityID == uuid.Nil {
		c.CityID = uuid.New()
	}
	return nil
}

// Address is shared by any entity through entity_address junctions. The
// city/region/country chain is resolved top-down before the row is written.
type Address struct {
	AddressID         uuid.UUID         `gorm:"column:address_id;type:uuid;primaryKey" json:"address_id"`
	AddressType       enums.AddressType `gorm:"column:address_type;type:address_type;not null" json:"address_type"`
	PrimaryAddress    bool              `gorm:"column:primary_address;not null;default:false" json:"primary_address"`
	Address1          string            `gorm:"column:address_1;not null" json:"address_1"`
	Address2          string            `gorm:"column:address_2" json:"address_2,omitempty"`
	AddressPostalCode string            `gorm:"column:address_postalcode" json:"address_postalcode"`
	CityID            uuid.UUID         `gorm:"column:city_id;type:uuid;not null" json:"city_id"`
	RegionID          uuid.UUID         `gorm:"column:region_id;type:uuid;not null" json:"region_id"`
	CountryID         uuid.UUID         `gorm:"column:country_id;type:uuid;not null" json:"country_id"`

	City    *City    `gorm:"foreignKey:CityID;references:CityID" json:"city,omitempty"`
	Region  *Region  `gorm:"foreignKey:RegionID;references:RegionID" json:"region,omitempty"`
	Country *Country `gorm:"foreignKey:CountryID;references:CountryID" json:"country,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Address) TableName() string { return "addresses" }

func (a *Address) BeforeCreate(*gorm.DB) error {
	if a.AddressID == uuid.Nil {
		a.AddressID = uuid.New()
	}
	return nil
}

// EntityAddress links an address to any entity kind. The
// (entity_type, entity_id, address_id) triple is unique per association.
type EntityAddress struct {
	EntityAddressID      uuid.UUID        `gorm:"column:entity_address_id;type:uuid;primaryKey" json:"entity_address_id"`
	EntityType           enums.EntityType `gorm:"column:entity_type;not null;uniqueIndex:idx_entity_address" json:"entity_type"`
	EntityID             uuid.UUID        `gorm:"column:entity_id;type:uuid;not null;uniqueIndex:idx_entity_address" json:"entity_id"`
	AddressID            uuid.UUID        `gorm:"column:address_id;type:uuid;not null;uniqueIndex:idx_entity_address" json:"address_id"`
	EmergencyAddress     bool             `gorm:"column:emergency_address;not null;default:false" json:"emergency_address"`
	EmergencyAddressHash string           `gorm:"column:emergency_address_hash" json:"emergency_address_hash,omitempty"`

	Address *Address `gorm:"foreignKey:AddressID;references:AddressID" json:"address,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (EntityAddress) TableName() string { return "entity_address" }

func (e *EntityAddress) BeforeCreate(*gorm.DB) error {
	if e.EntityAddressID == uuid.Nil {
		e.EntityAddressID = uuid.New()
	}
	return nil
}
