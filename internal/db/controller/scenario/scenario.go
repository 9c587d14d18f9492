// Package scenario manages conversation practice scenarios.
package scenario

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/NiceSpeak/nicespeak-admin/internal/apperr"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/controller/paging"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/models"
)

const whereID = "id = ?"

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// Input holds the writable fields of a scenario.
type Input struct {
	Title       string
	Description string
	Category    string
	Difficulty  int
}

// Filter narrows List.
type Filter struct {
	Keyword   string
	Category  string
	Published *bool
}

// List returns one page of scenarios, newest first.
func List(db *gorm.DB, q paging.Query, f Filter) (*paging.Page[models.Scenario], error) {
	if db == nil {
		return nil, ErrDBNil
	}

	tx := paging.Keyword(db.Model(&models.Scenario{}), f.Keyword, "title", "description")

	if f.Category != "" {
		tx = tx.Where("category = ?", f.Category)
	}

	if f.Published != nil {
		tx = tx.Where("published = ?", *f.Published)
	}

	return paging.Find[models.Scenario](tx, q, "created_at DESC, id ASC")
}

// Get retrieves a scenario by id.
func Get(db *gorm.DB, id string) (*models.Scenario, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var s models.Scenario
	if err := db.Where(whereID, id).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("scenario")
		}

		return nil, apperr.Storage(err)
	}

	return &s, nil
}

// Create inserts an unpublished scenario.
func Create(db *gorm.DB, in Input) (*models.Scenario, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	s := models.Scenario{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Difficulty:  in.Difficulty,
	}

	if err := db.Create(&s).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	return &s, nil
}

// Update overwrites the content fields of a scenario. Publication is left unchanged.
func Update(db *gorm.DB, id string, in Input) (*models.Scenario, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var s *models.Scenario

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		if s, err = Get(tx, id); err != nil {
			return err
		}

		s.Title = in.Title
		s.Description = in.Description
		s.Category = in.Category
		s.Difficulty = in.Difficulty

		return apperr.Storage(tx.Save(s).Error)
	})
	if err != nil {
		return nil, err
	}

	return s, nil
}

// SetPublished publishes or withdraws a scenario. PublishedAt keeps the time of the latest publication.
func SetPublished(db *gorm.DB, id string, published bool) (*models.Scenario, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var s *models.Scenario

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		if s, err = Get(tx, id); err != nil {
			return err
		}

		if s.Published == published {
			return nil
		}

		updates := map[string]any{"published": published}
		if published {
			now := time.Now().UTC()
			updates["published_at"] = now
			s.PublishedAt = &now
		}

		s.Published = published

		return apperr.Storage(tx.Model(&models.Scenario{}).Where(whereID, id).Updates(updates).Error)
	})
	if err != nil {
		return nil, err
	}

	return s, nil
}

// Delete removes a scenario.
func Delete(db *gorm.DB, id string) error {
	if db == nil {
		return ErrDBNil
	}

	res := db.Where(whereID, id).Delete(&models.Scenario{})
	if res.Error != nil {
		return apperr.Storage(res.Error)
	}

	if res.RowsAffected == 0 {
		return apperr.NotFound("scenario")
	}

	return nil
}
