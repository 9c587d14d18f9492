// Package association replaces the rows of a many-to-many join table for one owner.
package association

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/NiceSpeak/nicespeak-admin/internal/apperr"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/models"
)

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// Spec describes a join table whose rows are of type T.
type Spec[T any] struct {
	// TargetTable holds the referenced rows, checked for existence before writing.
	TargetTable string
	// OwnerColumn and TargetColumn are the columns of the join table.
	OwnerColumn  string
	TargetColumn string
	// New builds a join row.
	New func(ownerID, targetID string) T
}

// RolePermissions links roles to permissions.
var RolePermissions = Spec[models.RolePermission]{ //nolint:gochecknoglobals
	TargetTable:  models.Permission{}.TableName(),
	OwnerColumn:  "role_id",
	TargetColumn: "permission_id",
	New: func(ownerID, targetID string) models.RolePermission {
		return models.RolePermission{RoleID: ownerID, PermissionID: targetID}
	},
}

// RoleMenus links roles to visible menus.
var RoleMenus = Spec[models.RoleMenu]{ //nolint:gochecknoglobals
	TargetTable:  models.Menu{}.TableName(),
	OwnerColumn:  "role_id",
	TargetColumn: "menu_id",
	New: func(ownerID, targetID string) models.RoleMenu {
		return models.RoleMenu{RoleID: ownerID, MenuID: targetID}
	},
}

// Replace makes targetIDs the complete target set of ownerID.
// Duplicates are dropped keeping the first occurrence. If any target does not exist an
// UnknownTarget error listing the missing ids is returned and nothing is written.
// The delete and the insert share one transaction, a savepoint when db already is one.
// The caller checks that the owner exists.
func Replace[T any](db *gorm.DB, spec Spec[T], ownerID string, targetIDs []string) ([]string, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	ids := Dedupe(targetIDs)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := checkTargets(tx, spec.TargetTable, ids); err != nil {
			return err
		}

		if err := tx.Where(spec.OwnerColumn+" = ?", ownerID).Delete(new(T)).Error; err != nil {
			return apperr.Storage(err)
		}

		if len(ids) == 0 {
			return nil
		}

		rows := make([]T, 0, len(ids))
		for _, id := range ids {
			rows = append(rows, spec.New(ownerID, id))
		}

		return apperr.Storage(tx.Omit(clause.Associations).Create(&rows).Error)
	})
	if err != nil {
		return nil, err
	}

	return ids, nil
}

// Targets returns the target ids currently linked to ownerID.
func Targets[T any](db *gorm.DB, spec Spec[T], ownerID string) ([]string, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	ids := make([]string, 0)

	err := db.Model(new(T)).
		Where(spec.OwnerColumn+" = ?", ownerID).
		Order(spec.TargetColumn).
		Pluck(spec.TargetColumn, &ids).Error
	if err != nil {
		return nil, apperr.Storage(err)
	}

	return ids, nil
}

// RemoveOwner deletes every row of ownerID.
func RemoveOwner[T any](db *gorm.DB, spec Spec[T], ownerID string) error {
	if db == nil {
		return ErrDBNil
	}

	return apperr.Storage(db.Where(spec.OwnerColumn+" = ?", ownerID).Delete(new(T)).Error)
}

// RemoveTarget deletes every row pointing at targetID, whatever the owner.
func RemoveTarget[T any](db *gorm.DB, spec Spec[T], targetID string) error {
	if db == nil {
		return ErrDBNil
	}

	return apperr.Storage(db.Where(spec.TargetColumn+" = ?", targetID).Delete(new(T)).Error)
}

// Dedupe drops repeated ids keeping the first occurrence. It never returns nil.
func Dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}

func checkTargets(tx *gorm.DB, table string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	var found []string
	if err := tx.Table(table).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return apperr.Storage(err)
	}

	if len(found) == len(ids) {
		return nil
	}

	present := make(map[string]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}

	missing := make([]string, 0, len(ids)-len(found))

	for _, id := range ids {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}

	return apperr.New(apperr.KindUnknownTarget, "unknown "+table+" id").With("missing_ids", missing)
}
