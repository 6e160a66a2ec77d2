package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/oakline/oakline-backend/pkg/enums"
)

// ContractType is reference data resolved by name (e.g. lease, sale).
type ContractType struct {
	ContractTypeID   uuid.UUID       `gorm:"column:contract_type_id;type:uuid;primaryKey" json:"contract_type_id"`
	ContractTypeName string          `gorm:"column:contract_type_name;not null;uniqueIndex" json:"contract_type_name"`
	FeePercentage    decimal.Decimal `gorm:"column:fee_percentage;type:numeric(5,2)" json:"fee_percentage"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ContractType) TableName() string { return "contract_types" }

func (c *ContractType) BeforeCreate(*gorm.DB) error {
	if c.ContractTypeID == uuid.Nil {
		c.ContractTypeID = uuid.New()
	}
	return nil
}

// Contract carries a human-readable CTR number assigned before insert.
type Contract struct {
	ContractID      uuid.UUID            `gorm:"column:contract_id;type:uuid;primaryKey" json:"contract_id"`
	ContractNumber  string               `gorm:"column:contract_number;not null;uniqueIndex" json:"contract_number"`
	ContractTypeID  uuid.UUID            `gorm:"column:contract_type_id;type:uuid;not null" json:"contract_type_id"`
	PaymentTypeID   uuid.UUID            `gorm:"column:payment_type_id;type:uuid;not null" json:"payment_type_id"`
	ContractStatus  enums.ContractStatus `gorm:"column:contract_status;not null" json:"contract_status"`
	ContractDetails string               `gorm:"column:contract_details" json:"contract_details"`
	PaymentAmount   decimal.Decimal      `gorm:"column:payment_amount;type:numeric(10,2)" json:"payment_amount"`
	FeePercentage   decimal.Decimal      `gorm:"column:fee_percentage;type:numeric(5,2)" json:"fee_percentage"`
	FeeAmount       decimal.Decimal      `gorm:"column:fee_amount;type:numeric(10,2)" json:"fee_amount"`
	DateSigned      *time.Time           `gorm:"column:date_signed" json:"date_signed,omitempty"`
	StartDate       *time.Time           `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate         *time.Time           `gorm:"column:end_date" json:"end_date,omitempty"`

	ContractType *ContractType `gorm:"foreignKey:ContractTypeID;references:ContractTypeID" json:"contract_type,omitempty"`
	PaymentType  *PaymentType  `gorm:"foreignKey:PaymentTypeID;references:PaymentTypeID" json:"payment_type,omitempty"`

	UnderContracts []UnderContract `gorm:"foreignKey:ContractID;references:ContractID" json:"under_contracts,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Contract) TableName() string { return "contracts" }

func (c *Contract) BeforeCreate(*gorm.DB) error {
	if c.ContractID == uuid.Nil {
		c.ContractID = uuid.New()
	}
	return nil
}

func (c *Contract) EnsureNumber(now time.Time) {
	if c.ContractNumber == "" {
		c.ContractNumber = HumanNumber(PrefixContract, now)
	}
}

// UnderContract assigns a contract to a property-unit association, a client
// and an employee. Merges by under_contract_id.
type UnderContract struct {
	UnderContractID     uuid.UUID            `gorm:"column:under_contract_id;type:uuid;primaryKey" json:"under_contract_id"`
	ContractID          uuid.UUID            `gorm:"column:contract_id;type:uuid;not null" json:"contract_id"`
	PropertyUnitAssocID uuid.UUID            `gorm:"column:property_unit_assoc_id;type:uuid;not null" json:"property_unit_assoc_id"`
	ClientID            uuid.UUID            `gorm:"column:client_id;type:uuid;not null" json:"client_id"`
	EmployeeID          uuid.UUID            `gorm:"column:employee_id;type:uuid;not null" json:"employee_id"`
	ContractStatus      enums.ContractStatus `gorm:"column:contract_status;not null" json:"contract_status"`
	StartDate           *time.Time           `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate             *time.Time           `gorm:"column:end_date" json:"end_date,omitempty"`
	NextPaymentDue      *time.Time           `gorm:"column:next_payment_due" json:"next_payment_due,omitempty"`

	Client   *User `gorm:"foreignKey:ClientID;references:UserID" json:"client,omitempty"`
	Employee *User `gorm:"foreignKey:EmployeeID;references:UserID" json:"employee,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (UnderContract) TableName() string { return "under_contract" }

func (u *UnderContract) BeforeCreate(*gorm.DB) error {
	if u.UnderContractID == uuid.Nil {
		u.UnderContractID = uuid.New()
	}
	return nil
}

// ContractInvoice links invoices raised against a contract.
type ContractInvoice struct {
	ContractInvoiceID uuid.UUID `gorm:"column:contract_invoice_id;type:uuid;primaryKey" json:"contract_invoice_id"`
	ContractID        uuid.UUID `gorm:"column:contract_id;type:uuid;not null;uniqueIndex:idx_contract_invoice" json:"contract_id"`
	InvoiceNumber     string    `gorm:"column:invoice_number;not null;uniqueIndex:idx_contract_invoice" json:"invoice_number"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ContractInvoice) TableName() string { return "contract_invoice" }

func (c *ContractInvoice) BeforeCreate(*gorm.DB) error {
	if c.ContractInvoiceID == uuid.Nil {
		c.ContractInvoiceID = uuid.New()
	}
	return nil
}
