package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Company struct {
	CompanyID   uuid.UUID `gorm:"column:company_id;type:uuid;primaryKey" json:"company_id"`
	CompanyName string    `gorm:"column:company_name;not null;uniqueIndex" json:"company_name"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Company) TableName() string { return "company" }

func (c *Company) BeforeCreate(*gorm.DB) error {
	if c.CompanyID == uuid.Nil {
		c.CompanyID = uuid.New()
	}
	return nil
}

type UserCompany struct {
	UserCompanyID uuid.UUID `gorm:"column:user_company_id;type:uuid;primaryKey" json:"user_company_id"`
	UserID        uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_user_company" json:"user_id"`
	CompanyID     uuid.UUID `gorm:"column:company_id;type:uuid;not null;uniqueIndex:idx_user_company" json:"company_id"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (UserCompany) TableName() string { return "users_company" }

func (u *UserCompany) BeforeCreate(*gorm.DB) error {
	if u.UserCompanyID == uuid.Nil {
		u.UserCompanyID = uuid.New()
	}
	return nil
}
