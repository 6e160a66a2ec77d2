package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/oakline/oakline-backend/pkg/enums"
)

// TransactionType is reference data (e.g. card, bank_transfer, cash).
type TransactionType struct {
	TransactionTypeID   uuid.UUID `gorm:"column:transaction_type_id;type:uuid;primaryKey" json:"transaction_type_id"`
	TransactionTypeName string    `gorm:"column:transaction_type_name;not null;uniqueIndex" json:"transaction_type_name"`
	Description         string    `gorm:"column:description" json:"description"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (TransactionType) TableName() string { return "transaction_types" }

func (t *TransactionType) BeforeCreate(*gorm.DB) error {
	if t.TransactionTypeID == uuid.Nil {
		t.TransactionTypeID = uuid.New()
	}
	return nil
}

// Transaction carries a human-readable TRX number assigned before insert.
type Transaction struct {
	TransactionID      uuid.UUID           `gorm:"column:transaction_id;type:uuid;primaryKey" json:"transaction_id"`
	TransactionNumber  string              `gorm:"column:transaction_number;not null;uniqueIndex" json:"transaction_number"`
	TransactionTypeID  uuid.UUID           `gorm:"column:transaction_type_id;type:uuid;not null" json:"transaction_type_id"`
	ClientOffered      uuid.UUID           `gorm:"column:client_offered;type:uuid;not null" json:"client_offered"`
	ClientRequested    uuid.UUID           `gorm:"column:client_requested;type:uuid;not null" json:"client_requested"`
	Amount             decimal.Decimal     `gorm:"column:amount;type:numeric(10,2)" json:"amount"`
	TransactionStatus  enums.PaymentStatus `gorm:"column:transaction_status;not null" json:"transaction_status"`
	TransactionDetails string              `gorm:"column:transaction_details" json:"transaction_details"`
	InvoiceNumber      *string             `gorm:"column:invoice_number" json:"invoice_number,omitempty"`
	TransactionDate    *time.Time          `gorm:"column:transaction_date" json:"transaction_date,omitempty"`

	TransactionType *TransactionType `gorm:"foreignKey:TransactionTypeID;references:TransactionTypeID" json:"transaction_type,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Transaction) TableName() string { return "transactions" }

func (t *Transaction) BeforeCreate(*gorm.DB) error {
	if t.TransactionID == uuid.Nil {
		t.TransactionID = uuid.New()
	}
	return nil
}

func (t *Transaction) EnsureNumber(now time.Time) {
	if t.TransactionNumber == "" {
		t.TransactionNumber = HumanNumber(PrefixTransaction, now)
	}
}
