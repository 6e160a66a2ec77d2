package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/oakline/oakline-backend/pkg/enums"
)

// Utility is reference data billed against entities.
type Utility struct {
	UtilityID   uuid.UUID `gorm:"column:utility_id;type:uuid;primaryKey" json:"utility_id"`
	Name        string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"column:description" json:"description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Utility) TableName() string { return "utilities" }

func (u *Utility) BeforeCreate(*gorm.DB) error {
	if u.UtilityID == uuid.Nil {
		u.UtilityID = uuid.New()
	}
	return nil
}

// PaymentType is reference data resolved by name (e.g. monthly, annually).
type PaymentType struct {
	PaymentTypeID   uuid.UUID `gorm:"column:payment_type_id;type:uuid;primaryKey" json:"payment_type_id"`
	PaymentTypeName string    `gorm:"column:payment_type_name;not null;uniqueIndex" json:"payment_type_name"`
	Description     string    `gorm:"column:description" json:"description"`
	NumInvoices     int       `gorm:"column:num_invoices;not null;default:0" json:"num_invoices"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (PaymentType) TableName() string { return "payment_types" }

func (p *PaymentType) BeforeCreate(*gorm.DB) error {
	if p.PaymentTypeID == uuid.Nil {
		p.PaymentTypeID = uuid.New()
	}
	return nil
}

// EntityBillable merges on the (entity_type, entity_assoc_id, billable_type,
// billable_assoc_id) 4-tuple.
type EntityBillable struct {
	EntityBillableID uuid.UUID          `gorm:"column:entity_billable_id;type:uuid;primaryKey" json:"entity_billable_id"`
	EntityType       enums.EntityType   `gorm:"column:entity_type;not null;uniqueIndex:idx_entity_billable" json:"entity_type"`
	EntityAssocID    uuid.UUID          `gorm:"column:entity_assoc_id;type:uuid;not null;uniqueIndex:idx_entity_billable" json:"entity_assoc_id"`
	BillableType     enums.BillableType `gorm:"column:billable_type;not null;uniqueIndex:idx_entity_billable" json:"billable_type"`
	BillableAssocID  uuid.UUID          `gorm:"column:billable_assoc_id;type:uuid;not null;uniqueIndex:idx_entity_billable" json:"billable_assoc_id"`
	PaymentTypeID    uuid.UUID          `gorm:"column:payment_type_id;type:uuid;not null" json:"payment_type_id"`
	BillableAmount   decimal.Decimal    `gorm:"column:billable_amount;type:numeric(10,2)" json:"billable_amount"`
	ApplyToUnits     bool               `gorm:"column:apply_to_units;not null;default:false" json:"apply_to_units"`

	PaymentType *PaymentType `gorm:"foreignKey:PaymentTypeID;references:PaymentTypeID" json:"payment_type,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (EntityBillable) TableName() string { return "entity_billable" }

func (e *EntityBillable) BeforeCreate(*gorm.DB) error {
	if e.EntityBillableID == uuid.Nil {
		e.EntityBillableID = uuid.New()
	}
	return nil
}
