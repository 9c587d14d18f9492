package models

import (
	"time"

	"gorm.io/gorm"
)

// ScenarioCategory groups scenarios. Scenario.Category holds its code.
type ScenarioCategory struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Code        string    `gorm:"uniqueIndex;size:50;not null" json:"code"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"size:500" json:"description"`
	Order       int       `gorm:"column:sort_order;not null;default:0" json:"order"`
	Status      bool      `gorm:"not null" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the ScenarioCategory model.
func (ScenarioCategory) TableName() string {
	return "scenario_categories"
}

// BeforeCreate assigns the id.
func (c *ScenarioCategory) BeforeCreate(_ *gorm.DB) error {
	ensureID(&c.ID)

	return nil
}
