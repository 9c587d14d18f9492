// Package subscription manages subscription plans and reads subscription orders.
package subscription

import (
	"errors"

	"gorm.io/gorm"

	"github.com/NiceSpeak/nicespeak-admin/internal/apperr"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/controller/paging"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/models"
)

const whereID = "id = ?"

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// PlanInput holds the writable fields of a plan.
type PlanInput struct {
	Code         string
	Name         string
	Tier         string
	PriceCents   int64
	Currency     string
	DurationDays int
	// Active is left unchanged on update when nil, and defaults to true on create.
	Active *bool
}

// OrderFilter narrows ListOrders.
type OrderFilter struct {
	CustomerID string
	Status     string
	Tier       string
}

// ListPlans returns all plans ordered by price. activeOnly hides withdrawn plans.
func ListPlans(db *gorm.DB, activeOnly bool) ([]models.SubscriptionPlan, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	tx := db.Model(&models.SubscriptionPlan{})
	if activeOnly {
		tx = tx.Where("active = ?", true)
	}

	plans := make([]models.SubscriptionPlan, 0)
	if err := tx.Order("price_cents ASC, code ASC").Find(&plans).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	return plans, nil
}

// GetPlan retrieves a plan by id.
func GetPlan(db *gorm.DB, id string) (*models.SubscriptionPlan, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var p models.SubscriptionPlan
	if err := db.Where(whereID, id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("plan")
		}

		return nil, apperr.Storage(err)
	}

	return &p, nil
}

// CreatePlan inserts a plan. A taken code is rejected with CodeExists.
func CreatePlan(db *gorm.DB, in PlanInput) (*models.SubscriptionPlan, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	plan := models.SubscriptionPlan{
		Code:         in.Code,
		Name:         in.Name,
		Tier:         in.Tier,
		PriceCents:   in.PriceCents,
		Currency:     in.Currency,
		DurationDays: in.DurationDays,
		Active:       in.Active == nil || *in.Active,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := ensureCodeFree(tx, in.Code, ""); err != nil {
			return err
		}

		return apperr.Storage(tx.Create(&plan).Error)
	})
	if err != nil {
		return nil, err
	}

	return &plan, nil
}

// UpdatePlan overwrites a plan. Plans are never deleted, orders keep referencing them.
func UpdatePlan(db *gorm.DB, id string, in PlanInput) (*models.SubscriptionPlan, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var plan *models.SubscriptionPlan

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		if plan, err = GetPlan(tx, id); err != nil {
			return err
		}

		if in.Code != plan.Code {
			if err = ensureCodeFree(tx, in.Code, id); err != nil {
				return err
			}
		}

		plan.Code = in.Code
		plan.Name = in.Name
		plan.Tier = in.Tier
		plan.PriceCents = in.PriceCents
		plan.Currency = in.Currency
		plan.DurationDays = in.DurationDays

		if in.Active != nil {
			plan.Active = *in.Active
		}

		return apperr.Storage(tx.Save(plan).Error)
	})
	if err != nil {
		return nil, err
	}

	return plan, nil
}

// ListOrders returns one page of orders, newest first.
func ListOrders(db *gorm.DB, q paging.Query, f OrderFilter) (*paging.Page[models.SubscriptionOrder], error) {
	if db == nil {
		return nil, ErrDBNil
	}

	tx := db.Model(&models.SubscriptionOrder{})

	if f.CustomerID != "" {
		tx = tx.Where("customer_id = ?", f.CustomerID)
	}

	if f.Status != "" {
		tx = tx.Where("status = ?", f.Status)
	}

	if f.Tier != "" {
		tx = tx.Where("tier = ?", f.Tier)
	}

	return paging.Find[models.SubscriptionOrder](tx, q, "created_at DESC, id ASC")
}

// GetOrder retrieves an order by id.
func GetOrder(db *gorm.DB, id string) (*models.SubscriptionOrder, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var o models.SubscriptionOrder
	if err := db.Where(whereID, id).First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order")
		}

		return nil, apperr.Storage(err)
	}

	return &o, nil
}

func ensureCodeFree(tx *gorm.DB, code, exceptID string) error {
	q := tx.Model(&models.SubscriptionPlan{}).Where("code = ?", code)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return apperr.Storage(err)
	}

	if count > 0 {
		return apperr.New(apperr.KindCodeExists, "plan code already exists").With("field", "code").With("value", code)
	}

	return nil
}
