package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role groups permissions and attaches to users through user_roles.
type Role struct {
	RoleID      uuid.UUID    `gorm:"column:role_id;type:uuid;primaryKey" json:"role_id"`
	Name        string       `gorm:"column:name;not null" json:"name"`
	Alias       string       `gorm:"column:alias;not null;uniqueIndex" json:"alias"`
	Description string       `gorm:"column:description" json:"description"`
	Permissions []Permission `gorm:"many2many:role_permissions;foreignKey:RoleID;joinForeignKey:RoleID;References:PermissionID;joinReferences:PermissionID" json:"permissions,omitempty"`
	CreatedAt   time.Time    `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Role) TableName() string { return "roles" }

func (r *Role) BeforeCreate(*gorm.DB) error {
	if r.RoleID == uuid.Nil {
		r.RoleID = uuid.New()
	}
	return nil
}

// Permission is a named capability granted through roles.
type Permission struct {
	PermissionID uuid.UUID `gorm:"column:permission_id;type:uuid;primaryKey" json:"permission_id"`
	Name         string    `gorm:"column:name;not null" json:"name"`
	Alias        string    `gorm:"column:alias;not null;uniqueIndex" json:"alias"`
	Description  string    `gorm:"column:description" json:"description"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Permission) TableName() string { return "permissions" }

func (p *Permission) BeforeCreate(*gorm.DB) error {
	if p.PermissionID == uuid.Nil {
		p.PermissionID = uuid.New()
	}
	return nil
}
