package models

import (
	"time"

	"gorm.io/gorm"
)

// Role groups permissions and visible menus. Users carry exactly one role.
type Role struct {
	// ID is the server generated identifier.
	ID string `gorm:"primaryKey;size:36" json:"id"`
	// Code is the unique short identifier (e.g. "super_admin").
	Code string `gorm:"uniqueIndex;size:50;not null" json:"code"`
	// Name is the display name.
	Name string `gorm:"size:100;not null" json:"name"`
	// Description provides a human-readable description of the role's purpose.
	Description string `gorm:"size:500" json:"description"`
	// IsSystem protects the role from deletion.
	IsSystem bool `gorm:"not null;default:false" json:"is_system"`
	// Level ranks roles, higher is more privileged. Only used for sorting.
	Level  int  `gorm:"not null;default:0" json:"level"`
	Status bool `gorm:"not null" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}

// BeforeCreate assigns the id.
func (r *Role) BeforeCreate(_ *gorm.DB) error {
	ensureID(&r.ID)

	return nil
}
