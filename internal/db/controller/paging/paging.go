// Package paging counts and pages list queries.
package paging

import (
	"strings"

	"gorm.io/gorm"

	"github.com/NiceSpeak/nicespeak-admin/internal/apperr"
)

const (
	// DefaultLimit is used when the requested page size is out of range.
	DefaultLimit = 20
	// MaxLimit caps the page size.
	MaxLimit = 100
)

// Query selects one page. Page is 1-based.
type Query struct {
	Page  int
	Limit int
}

// Normalize clamps page and limit to valid values.
func (q Query) Normalize() Query {
	if q.Page < 1 {
		q.Page = 1
	}

	if q.Limit < 1 || q.Limit > MaxLimit {
		q.Limit = DefaultLimit
	}

	return q
}

// Offset returns the number of rows skipped before the page.
func (q Query) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Page is one page of a list together with the total row count.
type Page[T any] struct {
	Items []T
	Total int64
	Query Query
}

// Find counts the rows matched by tx and loads the requested page in the given order.
// Items is never nil.
func Find[T any](tx *gorm.DB, q Query, order string) (*Page[T], error) {
	q = q.Normalize()

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	items := make([]T, 0, q.Limit)
	if err := tx.Order(order).Limit(q.Limit).Offset(q.Offset()).Find(&items).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	return &Page[T]{Items: items, Total: total, Query: q}, nil
}

// Keyword filters tx to rows where any of the columns contains keyword, case-insensitively.
// An empty keyword leaves tx unchanged.
func Keyword(tx *gorm.DB, keyword string, columns ...string) *gorm.DB {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" || len(columns) == 0 {
		return tx
	}

	like := "%" + strings.ToLower(keyword) + "%"

	conds := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))

	for _, col := range columns {
		conds = append(conds, "LOWER("+col+") LIKE ?")
		args = append(args, like)
	}

	return tx.Where(strings.Join(conds, " OR "), args...)
}
