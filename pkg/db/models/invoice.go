package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/oakline/oakline-backend/pkg/enums"
)

// Invoice carries a human-readable INV number assigned before insert. Items
// hang off the invoice number, not the uuid.
type Invoice struct {
	InvoiceID      uuid.UUID           `gorm:"column:invoice_id;type:uuid;primaryKey" json:"invoice_id"`
	InvoiceNumber  string              `gorm:"column:invoice_number;not null;uniqueIndex" json:"invoice_number"`
	IssuedBy       *uuid.UUID          `gorm:"column:issued_by;type:uuid" json:"issued_by,omitempty"`
	IssuedTo       *uuid.UUID          `gorm:"column:issued_to;type:uuid" json:"issued_to,omitempty"`
	InvoiceDetails string              `gorm:"column:invoice_details" json:"invoice_details"`
	InvoiceAmount  decimal.Decimal     `gorm:"column:invoice_amount;type:numeric(10,2)" json:"invoice_amount"`
	InvoiceType    string              `gorm:"column:invoice_type" json:"invoice_type"`
	BillingDate    *time.Time          `gorm:"column:billing_date" json:"billing_date,omitempty"`
	DatePaid       *time.Time          `gorm:"column:date_paid" json:"date_paid,omitempty"`
	Status         enums.PaymentStatus `gorm:"column:status;not null" json:"status"`
	TransactionID  *uuid.UUID          `gorm:"column:transaction_id;type:uuid" json:"transaction_id,omitempty"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceNumber;references:InvoiceNumber" json:"invoice_items,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Invoice) TableName() string { return "invoices" }

func (i *Invoice) BeforeCreate(*gorm.DB) error {
	if i.InvoiceID == uuid.Nil {
		i.InvoiceID = uuid.New()
	}
	return nil
}

func (i *Invoice) EnsureNumber(now time.Time) {
	if i.InvoiceNumber == "" {
		i.InvoiceNumber = HumanNumber(PrefixInvoice, now)
	}
}

// InvoiceItem merges by invoice_item_id; total_price is derived from
// quantity and unit_price.
type InvoiceItem struct {
	InvoiceItemID uuid.UUID       `gorm:"column:invoice_item_id;type:uuid;primaryKey" json:"invoice_item_id"`
	InvoiceNumber string          `gorm:"column:invoice_number;not null;index" json:"invoice_number"`
	Description   string          `gorm:"column:description" json:"description"`
	Quantity      int             `gorm:"column:quantity;not null;default:1" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2)" json:"unit_price"`
	TotalPrice    decimal.Decimal `gorm:"column:total_price;type:numeric(10,2)" json:"total_price"`
	ReferenceID   *uuid.UUID      `gorm:"column:reference_id;type:uuid" json:"reference_id,omitempty"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (InvoiceItem) TableName() string { return "invoice_items" }

func (i *InvoiceItem) BeforeCreate(*gorm.DB) error {
	if i.InvoiceItemID == uuid.Nil {
		i.InvoiceItemID = uuid.New()
	}
	return nil
}
