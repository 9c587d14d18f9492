// Package customer reads the NiceSpeak app customers.
package customer

import (
	"errors"

	"gorm.io/gorm"

	"github.com/NiceSpeak/nicespeak-admin/internal/apperr"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/controller/paging"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/models"
)

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// Filter narrows List.
type Filter struct {
	Keyword string
	Tier    string
	Status  string
	Banned  *bool
}

// List returns one page of customers, newest registration first.
func List(db *gorm.DB, q paging.Query, f Filter) (*paging.Page[models.Customer], error) {
	if db == nil {
		return nil, ErrDBNil
	}

	tx := paging.Keyword(db.Model(&models.Customer{}), f.Keyword, "email", "name")

	if f.Tier != "" {
		tx = tx.Where("subscription_tier = ?", f.Tier)
	}

	if f.Status != "" {
		tx = tx.Where("subscription_status = ?", f.Status)
	}

	if f.Banned != nil {
		tx = tx.Where("is_banned = ?", *f.Banned)
	}

	return paging.Find[models.Customer](tx, q, "created_at DESC, id ASC")
}

// Get retrieves a customer by id.
func Get(db *gorm.DB, id string) (*models.Customer, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var c models.Customer
	if err := db.Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("customer")
		}

		return nil, apperr.Storage(err)
	}

	return &c, nil
}

// Subscriptions returns the subscription orders of a customer, newest first.
func Subscriptions(db *gorm.DB, id string) ([]models.SubscriptionOrder, error) {
	if _, err := Get(db, id); err != nil {
		return nil, err
	}

	orders := make([]models.SubscriptionOrder, 0)
	if err := db.Where("customer_id = ?", id).Order("started_at DESC, id ASC").Find(&orders).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	return orders, nil
}

// Devices returns the devices of a customer, most recently used first.
func Devices(db *gorm.DB, id string) ([]models.CustomerDevice, error) {
	if _, err := Get(db, id); err != nil {
		return nil, err
	}

	devices := make([]models.CustomerDevice, 0)
	if err := db.Where("customer_id = ?", id).Order("last_used_at DESC, id ASC").Find(&devices).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	return devices, nil
}

// Practices returns one page of the practice sessions of a customer, latest first.
func Practices(db *gorm.DB, id string, q paging.Query) (*paging.Page[models.Practice], error) {
	if _, err := Get(db, id); err != nil {
		return nil, err
	}

	tx := db.Model(&models.Practice{}).Where("customer_id = ?", id)

	return paging.Find[models.Practice](tx, q, "completed_at DESC, id ASC")
}
