package models

import (
	"time"

	"gorm.io/gorm"
)

// CustomerDevice is a device a customer signed in from.
type CustomerDevice struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	CustomerID  string    `gorm:"size:36;not null;index" json:"customer_id"`
	Platform    string    `gorm:"size:20;not null" json:"platform"`
	DeviceID    string    `gorm:"size:255;not null" json:"device_id"`
	FirstUsedAt time.Time `gorm:"not null" json:"first_used_at"`
	LastUsedAt  time.Time `gorm:"not null" json:"last_used_at"`
}

// TableName specifies the database table name for the CustomerDevice model.
func (CustomerDevice) TableName() string {
	return "customer_devices"
}

// BeforeCreate assigns the id.
func (d *CustomerDevice) BeforeCreate(_ *gorm.DB) error {
	ensureID(&d.ID)

	return nil
}

// Practice is one finished practice session of a customer.
type Practice struct {
	ID         string  `gorm:"primaryKey;size:36" json:"id"`
	CustomerID string  `gorm:"size:36;not null;index" json:"customer_id"`
	ScenarioID *string `gorm:"size:36;index" json:"scenario_id"`
	// Scenario keeps the title at practice time, the scenario may be gone since.
	Scenario        string    `gorm:"size:200;not null" json:"scenario"`
	Score           int       `gorm:"not null" json:"score"`
	DurationSeconds int       `gorm:"not null;default:0" json:"duration_seconds"`
	CompletedAt     time.Time `gorm:"not null;index" json:"completed_at"`
}

// TableName specifies the database table name for the Practice model.
func (Practice) TableName() string {
	return "practices"
}

// BeforeCreate assigns the id.
func (p *Practice) BeforeCreate(_ *gorm.DB) error {
	ensureID(&p.ID)

	return nil
}
