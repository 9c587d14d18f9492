package models

import (
	"time"

	"gorm.io/gorm"
)

// Scenario is a conversation practice template.
type Scenario struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Category    string     `gorm:"size:50;not null;index" json:"category"`
	Difficulty  int        `gorm:"not null" json:"difficulty"`
	Published   bool       `gorm:"not null;default:false;index" json:"published"`
	PublishedAt *time.Time `json:"published_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the Scenario model.
func (Scenario) TableName() string {
	return "scenarios"
}

// BeforeCreate assigns the id.
func (s *Scenario) BeforeCreate(_ *gorm.DB) error {
	ensureID(&s.ID)

	return nil
}
