package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/oakline/oakline-backend/pkg/enums"
)

// PropertyUnitAssoc is the shared surrogate both properties and units hang
// off; side aspects and contracts reference it instead of the concrete row.
type PropertyUnitAssoc struct {
	PropertyUnitAssocID uuid.UUID       `gorm:"column:property_unit_assoc_id;type:uuid;primaryKey" json:"property_unit_assoc_id"`
	PropertyUnitType    enums.AssocType `gorm:"column:property_unit_type;not null" json:"property_unit_type"`
	CreatedAt           time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (PropertyUnitAssoc) TableName() string { return "property_unit_assoc" }

func (p *PropertyUnitAssoc) BeforeCreate(*gorm.DB) error {
	if p.PropertyUnitAssocID == uuid.Nil {
		p.PropertyUnitAssocID = uuid.New()
	}
	return nil
}

type Property struct {
	PropertyUnitAssocID uuid.UUID            `gorm:"column:property_unit_assoc_id;type:uuid;primaryKey" json:"property_unit_assoc_id"`
	Name                string               `gorm:"column:name;not null" json:"name"`
	PropertyType        enums.PropertyType   `gorm:"column:property_type;not null" json:"property_type"`
	PropertyStatus      enums.PropertyStatus `gorm:"column:property_status;not null" json:"property_status"`
	Amount              decimal.Decimal      `gorm:"column:amount;type:numeric(10,2)" json:"amount"`
	SecurityDeposit     decimal.Decimal      `gorm:"column:security_deposit;type:numeric(10,2)" json:"security_deposit"`
	Commission          decimal.Decimal      `gorm:"column:commission;type:numeric(10,2)" json:"commission"`
	FloorSpace          int                  `gorm:"column:floor_space" json:"floor_space"`
	NumUnits            int                  `gorm:"column:num_units" json:"num_units"`
	NumBathrooms        int                  `gorm:"column:num_bathrooms" json:"num_bathrooms"`
	NumGarages          int                  `gorm:"column:num_garages" json:"num_garages"`
	HasBalconies        bool                 `gorm:"column:has_balconies;not null;default:false" json:"has_balconies"`
	HasParkingSpace     bool                 `gorm:"column:has_parking_space;not null;default:false" json:"has_parking_space"`
	PetsAllowed         bool                 `gorm:"column:pets_allowed;not null;default:false" json:"pets_allowed"`
	Description         string               `gorm:"column:description" json:"description"`
	Features            pq.StringArray       `gorm:"column:features;type:text[]" json:"features"`

	Units []Units `gorm:"foreignKey:PropertyID;references:PropertyUnitAssocID" json:"units,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Property) TableName() string { return "property" }

type Units struct {
	PropertyUnitAssocID         uuid.UUID            `gorm:"column:property_unit_assoc_id;type:uuid;primaryKey" json:"property_unit_assoc_id"`
	PropertyID                  uuid.UUID            `gorm:"column:property_id;type:uuid;not null;uniqueIndex:idx_unit_number" json:"property_id"`
	PropertyUnitCode            string               `gorm:"column:property_unit_code" json:"property_unit_code"`
	PropertyUnitFloorSpace      int                  `gorm:"column:property_unit_floor_space" json:"property_unit_floor_space"`
	PropertyUnitAmount          decimal.Decimal      `gorm:"column:property_unit_amount;type:numeric(10,2)" json:"property_unit_amount"`
	PropertyUnitSecurityDeposit decimal.Decimal      `gorm:"column:property_unit_security_deposit;type:numeric(10,2)" json:"property_unit_security_deposit"`
	PropertyUnitCommission      decimal.Decimal      `gorm:"column:property_unit_commission;type:numeric(10,2)" json:"property_unit_commission"`
	PropertyFloorID             int                  `gorm:"column:property_floor_id;uniqueIndex:idx_unit_number" json:"property_floor_id"`
	PropertyStatus              enums.PropertyStatus `gorm:"column:property_status;not null" json:"property_status"`
	HasBalcony                  bool                 `gorm:"column:has_balcony;not null;default:false" json:"has_balcony"`
	HasParkingSpace             bool                 `gorm:"column:has_parking_space;not null;default:false" json:"has_parking_space"`
	PetsAllowed                 bool                 `gorm:"column:pets_allowed;not null;default:false" json:"pets_allowed"`
	Description                 string               `gorm:"column:description" json:"description"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Units) TableName() string { return "units" }

// PropertyAssignment links a staff user to a property they look after.
type PropertyAssignment struct {
	PropertyAssignmentID uuid.UUID  `gorm:"column:property_assignment_id;type:uuid;primaryKey" json:"property_assignment_id"`
	PropertyUnitAssocID  uuid.UUID  `gorm:"column:property_unit_assoc_id;type:uuid;not null;uniqueIndex:idx_property_assignment" json:"property_unit_assoc_id"`
	UserID               uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_property_assignment" json:"user_id"`
	AssignmentType       string     `gorm:"column:assignment_type" json:"assignment_type"`
	DateFrom             *time.Time `gorm:"column:date_from" json:"date_from,omitempty"`
	DateTo               *time.Time `gorm:"column:date_to" json:"date_to,omitempty"`
	Notes                string     `gorm:"column:notes" json:"notes"`

	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (PropertyAssignment) TableName() string { return "property_assignment" }

func (p *PropertyAssignment) BeforeCreate(*gorm.DB) error {
	if p.PropertyAssignmentID == uuid.Nil {
		p.PropertyAssignmentID = uuid.New()
	}
	return nil
}
