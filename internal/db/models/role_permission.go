package models

import (
	"time"

	"gorm.io/gorm"
)

// RolePermission grants a permission to a role.
// Rows are never updated, the whole set of a role is replaced at once.
type RolePermission struct {
	ID           string    `gorm:"primaryKey;size:36"`
	RoleID       string    `gorm:"size:36;not null;index"`
	PermissionID string    `gorm:"size:36;not null;index"`
	CreatedAt    time.Time
	// Role and Permission declare the cascading foreign keys.
	Role       *Role       `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
	Permission *Permission `gorm:"foreignKey:PermissionID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for the RolePermission model.
func (RolePermission) TableName() string {
	return "role_permissions"
}

// BeforeCreate assigns the id.
func (rp *RolePermission) BeforeCreate(_ *gorm.DB) error {
	ensureID(&rp.ID)

	return nil
}
