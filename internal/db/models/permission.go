package models

import (
	"time"

	"gorm.io/gorm"
)

// PermissionType classifies what a permission allows on its module.
type PermissionType string

const (
	// PermissionTypeRead allows reading.
	PermissionTypeRead PermissionType = "read"
	// PermissionTypeWrite allows creating and updating.
	PermissionTypeWrite PermissionType = "write"
	// PermissionTypeDelete allows deleting.
	PermissionTypeDelete PermissionType = "delete"
	// PermissionTypeAction allows a non CRUD action (e.g. publish).
	PermissionTypeAction PermissionType = "action"
)

// Permission is a granular access right. Permissions are granted to roles.
type Permission struct {
	// ID is the server generated identifier.
	ID string `gorm:"primaryKey;size:36" json:"id"`
	// Code is the unique permission identifier in module.type format (e.g. "menus.write").
	Code string `gorm:"uniqueIndex;size:50;not null" json:"code"`
	// Name is the display name.
	Name string `gorm:"size:100;not null" json:"name"`
	// Module is the resource this permission applies to (e.g. "menus").
	Module string `gorm:"size:50;not null;index" json:"module"`
	// Type is the kind of access granted.
	Type        PermissionType `gorm:"size:20;not null" json:"type"`
	Description string         `gorm:"size:500" json:"description"`
	Status      bool           `gorm:"not null" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the Permission model.
func (Permission) TableName() string {
	return "permissions"
}

// BeforeCreate assigns the id.
func (p *Permission) BeforeCreate(_ *gorm.DB) error {
	ensureID(&p.ID)

	return nil
}
