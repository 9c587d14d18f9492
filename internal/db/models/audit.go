package models

import (
	"time"

	"gorm.io/gorm"
)

// AuditLog records a mutating admin request.
type AuditLog struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;index" json:"user_id"`
	Method    string    `gorm:"size:10;not null" json:"method"`
	Path      string    `gorm:"size:255;not null" json:"path"`
	Status    int       `gorm:"not null" json:"status"`
	IP        string    `gorm:"size:45" json:"ip"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the database table name for the AuditLog model.
func (AuditLog) TableName() string {
	return "audit_logs"
}

// BeforeCreate assigns the id.
func (a *AuditLog) BeforeCreate(_ *gorm.DB) error {
	ensureID(&a.ID)

	return nil
}

// LoginLog records a login attempt, successful or not.
type LoginLog struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;index" json:"user_id"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	Success   bool      `gorm:"not null" json:"success"`
	Reason    string    `gorm:"size:100" json:"reason"`
	IP        string    `gorm:"size:45" json:"ip"`
	UserAgent string    `gorm:"size:255" json:"user_agent"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the database table name for the LoginLog model.
func (LoginLog) TableName() string {
	return "login_logs"
}

// BeforeCreate assigns the id.
func (l *LoginLog) BeforeCreate(_ *gorm.DB) error {
	ensureID(&l.ID)

	return nil
}
