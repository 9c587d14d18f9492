package models

import (
	"time"

	"gorm.io/gorm"
)

// SubscriptionPlan is a purchasable tier.
type SubscriptionPlan struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`
	Code         string `gorm:"uniqueIndex;size:50;not null" json:"code"`
	Name         string `gorm:"size:100;not null" json:"name"`
	Tier         string `gorm:"size:20;not null" json:"tier"`
	PriceCents   int64  `gorm:"not null" json:"price_cents"`
	Currency     string `gorm:"size:3;not null" json:"currency"`
	DurationDays int    `gorm:"not null" json:"duration_days"`
	Active       bool   `gorm:"not null" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the SubscriptionPlan model.
func (SubscriptionPlan) TableName() string {
	return "subscription_plans"
}

// BeforeCreate assigns the id.
func (p *SubscriptionPlan) BeforeCreate(_ *gorm.DB) error {
	ensureID(&p.ID)

	return nil
}

// SubscriptionOrder is a customer's purchase of a plan.
type SubscriptionOrder struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	CustomerID  string     `gorm:"size:36;not null;index" json:"customer_id"`
	PlanID      string     `gorm:"size:36;not null;index" json:"plan_id"`
	Tier        string     `gorm:"size:20;not null" json:"tier"`
	Status      string     `gorm:"size:20;not null;index" json:"status"`
	AmountCents int64      `gorm:"not null" json:"amount_cents"`
	Currency    string     `gorm:"size:3;not null" json:"currency"`
	StartedAt   time.Time  `json:"started_at"`
	ExpiresAt   *time.Time `json:"expires_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the SubscriptionOrder model.
func (SubscriptionOrder) TableName() string {
	return "subscription_orders"
}

// BeforeCreate assigns the id.
func (o *SubscriptionOrder) BeforeCreate(_ *gorm.DB) error {
	ensureID(&o.ID)

	return nil
}
