// Package audit records and lists the operation log and the login log.
package audit

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/NiceSpeak/nicespeak-admin/internal/apperr"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/controller/paging"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/models"
)

const newestFirst = "created_at DESC, id DESC"

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// Filter narrows the log listings.
type Filter struct {
	UserID string
	From   *time.Time
	To     *time.Time
}

// Record stores one operation log entry.
func Record(db *gorm.DB, entry *models.AuditLog) error {
	if db == nil {
		return ErrDBNil
	}

	return apperr.Storage(db.Create(entry).Error)
}

// RecordLogin stores one login attempt.
func RecordLogin(db *gorm.DB, entry *models.LoginLog) error {
	if db == nil {
		return ErrDBNil
	}

	return apperr.Storage(db.Create(entry).Error)
}

// List returns one page of the operation log, newest first.
func List(db *gorm.DB, q paging.Query, f Filter) (*paging.Page[models.AuditLog], error) {
	if db == nil {
		return nil, ErrDBNil
	}

	return paging.Find[models.AuditLog](f.apply(db.Model(&models.AuditLog{})), q, newestFirst)
}

// ListLogins returns one page of the login log, newest first.
func ListLogins(db *gorm.DB, q paging.Query, f Filter) (*paging.Page[models.LoginLog], error) {
	if db == nil {
		return nil, ErrDBNil
	}

	return paging.Find[models.LoginLog](f.apply(db.Model(&models.LoginLog{})), q, newestFirst)
}

func (f Filter) apply(tx *gorm.DB) *gorm.DB {
	if f.UserID != "" {
		tx = tx.Where("user_id = ?", f.UserID)
	}

	if f.From != nil {
		tx = tx.Where("created_at >= ?", *f.From)
	}

	if f.To != nil {
		tx = tx.Where("created_at < ?", *f.To)
	}

	return tx
}
