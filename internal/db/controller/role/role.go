// Package role manages roles and their permission and menu grants.
package role

import (
	"errors"

	"gorm.io/gorm"

	"github.com/NiceSpeak/nicespeak-admin/internal/apperr"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/controller/association"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/controller/paging"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/models"
)

const (
	whereID   = "id = ?"
	whereCode = "code = ?"
)

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// Input holds the writable fields of a role.
type Input struct {
	Code        string
	Name        string
	Description string
	Level       int
	// Status is left unchanged on update when nil, and defaults to active on create.
	Status *bool
}

// Detail is a role together with its granted permissions.
type Detail struct {
	models.Role
	Permissions []models.Permission `json:"permissions"`
}

// List returns one page of roles, most privileged first. The keyword matches code, name and description.
func List(db *gorm.DB, q paging.Query, keyword string) (*paging.Page[models.Role], error) {
	if db == nil {
		return nil, ErrDBNil
	}

	tx := paging.Keyword(db.Model(&models.Role{}), keyword, "code", "name", "description")

	return paging.Find[models.Role](tx, q, "level DESC, code ASC")
}

// Get retrieves a role by id.
func Get(db *gorm.DB, id string) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var role models.Role
	if err := db.Where(whereID, id).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("role")
		}

		return nil, apperr.Storage(err)
	}

	return &role, nil
}

// GetByCode retrieves a role by its unique code.
func GetByCode(db *gorm.DB, code string) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var role models.Role
	if err := db.Where(whereCode, code).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("role")
		}

		return nil, apperr.Storage(err)
	}

	return &role, nil
}

// GetDetail retrieves a role with its permissions.
func GetDetail(db *gorm.DB, id string) (*Detail, error) {
	role, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	perms, err := Permissions(db, id)
	if err != nil {
		return nil, err
	}

	return &Detail{Role: *role, Permissions: perms}, nil
}

// Create inserts a role and its initial permission set in one transaction.
// A taken code is rejected with CodeExists and nothing is written.
func Create(db *gorm.DB, in Input, permissionIDs []string) (*Detail, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	role := models.Role{
		Code:        in.Code,
		Name:        in.Name,
		Description: in.Description,
		Level:       in.Level,
		Status:      in.Status == nil || *in.Status,
	}

	var detail *Detail

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := ensureCodeFree(tx, in.Code, ""); err != nil {
			return err
		}

		if err := tx.Create(&role).Error; err != nil {
			return apperr.Storage(err)
		}

		if len(permissionIDs) > 0 {
			if _, err := association.Replace(tx, association.RolePermissions, role.ID, permissionIDs); err != nil {
				return err
			}
		}

		var err error
		detail, err = GetDetail(tx, role.ID)

		return err
	})
	if err != nil {
		return nil, err
	}

	return detail, nil
}

// Update overwrites the fields of a role, an empty code keeps the current one. The permission
// set is replaced only when permissionIDs is non-nil, an empty slice clears it.
func Update(db *gorm.DB, id string, in Input, permissionIDs []string) (*Detail, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var detail *Detail

	err := db.Transaction(func(tx *gorm.DB) error {
		role, err := Get(tx, id)
		if err != nil {
			return err
		}

		if in.Code != "" && in.Code != role.Code {
			if err = ensureCodeFree(tx, in.Code, id); err != nil {
				return err
			}

			role.Code = in.Code
		}

		role.Name = in.Name
		role.Description = in.Description
		role.Level = in.Level

		if in.Status != nil {
			role.Status = *in.Status
		}

		if err = tx.Save(role).Error; err != nil {
			return apperr.Storage(err)
		}

		if permissionIDs != nil {
			if _, err = association.Replace(tx, association.RolePermissions, id, permissionIDs); err != nil {
				return err
			}
		}

		detail, err = GetDetail(tx, id)

		return err
	})
	if err != nil {
		return nil, err
	}

	return detail, nil
}

// Delete removes a role together with its permission and menu rows.
// System roles are rejected with SystemRoleProtected, roles still referenced by users with RoleInUse.
func Delete(db *gorm.DB, id string) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		role, err := Get(tx, id)
		if err != nil {
			return err
		}

		if role.IsSystem {
			return apperr.New(apperr.KindSystemRoleProtected, "system role cannot be deleted").With("role_code", role.Code)
		}

		var users int64
		if err = tx.Model(&models.User{}).Where("role_id = ?", id).Count(&users).Error; err != nil {
			return apperr.Storage(err)
		}

		if users > 0 {
			return apperr.New(apperr.KindRoleInUse, "role is assigned to users").With("users_count", users)
		}

		if err = association.RemoveOwner(tx, association.RolePermissions, id); err != nil {
			return err
		}

		if err = association.RemoveOwner(tx, association.RoleMenus, id); err != nil {
			return err
		}

		return apperr.Storage(tx.Where(whereID, id).Delete(&models.Role{}).Error)
	})
}

// Permissions returns the permissions granted to a role ordered by module and code.
func Permissions(db *gorm.DB, id string) ([]models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	perms := make([]models.Permission, 0)

	err := db.Model(&models.Permission{}).
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.role_id = ?", id).
		Order("permissions.module ASC, permissions.code ASC").
		Find(&perms).Error
	if err != nil {
		return nil, apperr.Storage(err)
	}

	return perms, nil
}

// PermissionCodes returns the codes of the active permissions granted to an active role.
func PermissionCodes(db *gorm.DB, id string) ([]string, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	codes := make([]string, 0)

	err := db.Model(&models.Permission{}).
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN roles ON roles.id = role_permissions.role_id").
		Where("role_permissions.role_id = ? AND roles.status = ? AND permissions.status = ?", id, true, true).
		Order("permissions.code ASC").
		Pluck("permissions.code", &codes).Error
	if err != nil {
		return nil, apperr.Storage(err)
	}

	return codes, nil
}

// ReplacePermissions makes permissionIDs the complete permission set of a role.
func ReplacePermissions(db *gorm.DB, id string, permissionIDs []string) ([]string, error) {
	return replace(db, association.RolePermissions, id, permissionIDs)
}

// MenuIDs returns the ids of the menus visible to a role.
func MenuIDs(db *gorm.DB, id string) ([]string, error) {
	if _, err := Get(db, id); err != nil {
		return nil, err
	}

	return association.Targets(db, association.RoleMenus, id)
}

// ReplaceMenus makes menuIDs the complete set of menus visible to a role.
func ReplaceMenus(db *gorm.DB, id string, menuIDs []string) ([]string, error) {
	return replace(db, association.RoleMenus, id, menuIDs)
}

func replace[T any](db *gorm.DB, spec association.Spec[T], id string, targetIDs []string) ([]string, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var ids []string

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := Get(tx, id); err != nil {
			return err
		}

		var err error
		ids, err = association.Replace(tx, spec, id, targetIDs)

		return err
	})
	if err != nil {
		return nil, err
	}

	return ids, nil
}

// ensureCodeFree rejects a code used by another role than exceptID.
func ensureCodeFree(tx *gorm.DB, code, exceptID string) error {
	q := tx.Model(&models.Role{}).Where(whereCode, code)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return apperr.Storage(err)
	}

	if count > 0 {
		return apperr.New(apperr.KindCodeExists, "role code already exists").With("field", "code").With("value", code)
	}

	return nil
}
