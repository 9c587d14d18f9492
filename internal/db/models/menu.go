package models

import (
	"time"

	"gorm.io/gorm"
)

// Menu is a navigation entry of the admin panel. Menus form a forest through ParentID.
type Menu struct {
	// ID is the server generated identifier.
	ID string `gorm:"primaryKey;size:36" json:"id"`
	// Name is the display name.
	Name string `gorm:"size:100;not null" json:"name"`
	// Icon is an optional icon token understood by the frontend.
	Icon *string `gorm:"size:255" json:"icon"`
	// Path is the optional frontend route.
	Path *string `gorm:"size:255" json:"path"`
	// ParentID references the parent menu, nil for a root.
	ParentID *string `gorm:"size:36;index" json:"parent_id"`
	// Order sorts siblings ascending. It is not unique.
	Order int `gorm:"column:sort_order;not null;default:0" json:"order"`
	// Status marks the menu as active. Inactive menus are hidden from the tree view.
	Status bool `gorm:"not null" json:"status"`
	// CreatedAt doubles as the tie-break for equal Order values.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the Menu model.
func (Menu) TableName() string {
	return "menus"
}

// BeforeCreate assigns the id.
func (m *Menu) BeforeCreate(_ *gorm.DB) error {
	ensureID(&m.ID)

	return nil
}

// IsRoot reports whether the menu has no parent.
func (m *Menu) IsRoot() bool {
	return m.ParentID == nil || *m.ParentID == ""
}
