// Package category stores the scenario categories.
package category

import (
	"errors"

	"gorm.io/gorm"

	"github.com/NiceSpeak/nicespeak-admin/internal/apperr"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/models"
)

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// Input holds the writable fields of a category.
type Input struct {
	Code        string
	Name        string
	Description string
	Order       int
	// Status defaults to active when nil.
	Status *bool
}

// List returns the categories by order. activeOnly drops disabled ones.
func List(db *gorm.DB, activeOnly bool) ([]models.ScenarioCategory, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	tx := db.Model(&models.ScenarioCategory{})
	if activeOnly {
		tx = tx.Where("status = ?", true)
	}

	categories := make([]models.ScenarioCategory, 0)
	if err := tx.Order("sort_order ASC, created_at ASC, id ASC").Find(&categories).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	return categories, nil
}

// Create inserts a category. The code must be unused.
func Create(db *gorm.DB, in Input) (*models.ScenarioCategory, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	category := models.ScenarioCategory{
		Code:        in.Code,
		Name:        in.Name,
		Description: in.Description,
		Order:       in.Order,
		Status:      in.Status == nil || *in.Status,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.ScenarioCategory{}).Where("code = ?", in.Code).Count(&count).Error; err != nil {
			return apperr.Storage(err)
		}

		if count > 0 {
			return apperr.New(apperr.KindCodeExists, "category code already exists").
				With("field", "code").With("value", in.Code)
		}

		return apperr.Storage(tx.Create(&category).Error)
	})
	if err != nil {
		return nil, err
	}

	return &category, nil
}
