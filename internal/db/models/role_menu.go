package models

import (
	"time"

	"gorm.io/gorm"
)

// RoleMenu makes a menu visible to a role.
// Rows are never updated, the whole set of a role is replaced at once.
type RoleMenu struct {
	ID        string    `gorm:"primaryKey;size:36"`
	RoleID    string    `gorm:"size:36;not null;index"`
	MenuID    string    `gorm:"size:36;not null;index"`
	CreatedAt time.Time
	Role      *Role `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
	Menu      *Menu `gorm:"foreignKey:MenuID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for the RoleMenu model.
func (RoleMenu) TableName() string {
	return "role_menus"
}

// BeforeCreate assigns the id.
func (rm *RoleMenu) BeforeCreate(_ *gorm.DB) error {
	ensureID(&rm.ID)

	return nil
}
