package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oakline/oakline-backend/pkg/enums"
)

// User represents the canonical identity entity. Employer and emergency
// details live on the user row; addresses and rental history attach through
// polymorphic junctions.
type User struct {
	UserID               uuid.UUID    `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	FirstName            string       `gorm:"column:first_name;not null" json:"first_name"`
	LastName             string       `gorm:"column:last_name;not null" json:"last_name"`
	Email                string       `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PhoneNumber          string       `gorm:"column:phone_number" json:"phone_number"`
	PasswordHash         string       `gorm:"column:password_hash" json:"-"`
	IdentificationNumber string       `gorm:"column:identification_number" json:"identification_number"`
	Gender               enums.Gender `gorm:"column:gender;type:gender" json:"gender"`
	DateOfBirth          *time.Time   `gorm:"column:date_of_birth" json:"date_of_birth,omitempty"`

	VerificationToken string     `gorm:"column:verification_token" json:"-"`
	IsVerified        bool       `gorm:"column:is_verified;not null;default:false" json:"is_verified"`
	SubscriptionToken string     `gorm:"column:subscription_token" json:"-"`
	IsSubscribed      bool       `gorm:"column:is_subscribed;not null;default:false" json:"is_subscribed"`
	LastLoginAt       *time.Time `gorm:"column:last_login_at" json:"last_login_at,omitempty"`

	EmployerName       string `gorm:"column:employer_name" json:"employer_name,omitempty"`
	OccupationStatus   string `gorm:"column:occupation_status" json:"occupation_status,omitempty"`
	OccupationLocation string `gorm:"column:occupation_location" json:"occupation_location,omitempty"`

	EmergencyContactName     string     `gorm:"column:emergency_contact_name" json:"emergency_contact_name,omitempty"`
	EmergencyContactEmail    string     `gorm:"column:emergency_contact_email" json:"emergency_contact_email,omitempty"`
	EmergencyContactRelation string     `gorm:"column:emergency_contact_relation" json:"emergency_contact_relation,omitempty"`
	EmergencyContactNumber   string     `gorm:"column:emergency_contact_number" json:"emergency_contact_number,omitempty"`
	EmergencyAddressHash     *uuid.UUID `gorm:"column:emergency_address_hash;type:uuid" json:"emergency_address_hash,omitempty"`

	Roles []Role `gorm:"many2many:user_roles;foreignKey:UserID;joinForeignKey:UserID;References:RoleID;joinReferences:RoleID" json:"roles,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}

// PastRentalHistory records a tenancy before the user joined the platform.
// AddressHash doubles as the entity id for the history's own address junction.
type PastRentalHistory struct {
	RentalHistoryID    uuid.UUID  `gorm:"column:rental_history_id;type:uuid;primaryKey" json:"rental_history_id"`
	AddressHash        uuid.UUID  `gorm:"column:address_hash;type:uuid;uniqueIndex" json:"address_hash"`
	UserID             uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	StartDate          *time.Time `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate            *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	PropertyOwnerName  string     `gorm:"column:property_owner_name" json:"property_owner_name"`
	PropertyOwnerEmail string     `gorm:"column:property_owner_email" json:"property_owner_email"`
	PropertyOwnerPhone string     `gorm:"column:property_owner_mobile" json:"property_owner_mobile"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (PastRentalHistory) TableName() string { return "past_rental_history" }

func (p *PastRentalHistory) BeforeCreate(*gorm.DB) error {
	if p.RentalHistoryID == uuid.Nil {
		p.RentalHistoryID = uuid.New()
	}
	return nil
}
