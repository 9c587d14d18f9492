// Package permission manages the permission catalogue.
package permission

import (
	"errors"

	"gorm.io/gorm"

	"github.com/NiceSpeak/nicespeak-admin/internal/apperr"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/controller/association"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/controller/paging"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/models"
)

const (
	whereID      = "id = ?"
	catalogOrder = "module ASC, type ASC, name ASC"
)

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// moduleNames maps a module onto its display name.
var moduleNames = map[string]string{ //nolint:gochecknoglobals
	"users":         "User Management",
	"customers":     "Customer Management",
	"scenarios":     "Scenario Management",
	"subscriptions": "Subscription Management",
	"analytics":     "Analytics",
	"settings":      "System Settings",
	"audit":         "Audit Logs",
	"roles":         "Role Management",
	"permissions":   "Permission Management",
	"menus":         "Menu Management",
}

var typeNames = map[models.PermissionType]string{ //nolint:gochecknoglobals
	models.PermissionTypeRead:   "Read",
	models.PermissionTypeWrite:  "Write",
	models.PermissionTypeDelete: "Delete",
	models.PermissionTypeAction: "Action",
}

// Filter narrows List. Empty fields match everything.
type Filter struct {
	Module  string
	Type    string
	Keyword string
}

// Input holds the writable fields of a permission. Code is only used on create.
type Input struct {
	Code        string
	Name        string
	Module      string
	Type        models.PermissionType
	Description string
	Status      *bool
}

// Group is the permissions of one module.
type Group struct {
	Module      string              `json:"module"`
	DisplayName string              `json:"display_name"`
	Permissions []models.Permission `json:"permissions"`
}

// ModuleName returns the display name of module, the module itself when unknown.
func ModuleName(module string) string {
	if name, ok := moduleNames[module]; ok {
		return name
	}

	return module
}

// TypeName returns the display name of a permission type.
func TypeName(t models.PermissionType) string {
	if name, ok := typeNames[t]; ok {
		return name
	}

	return string(t)
}

// List returns the permissions matching f, ordered by module, type and name.
func List(db *gorm.DB, f Filter) ([]models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	tx := db.Model(&models.Permission{})
	if f.Module != "" {
		tx = tx.Where("module = ?", f.Module)
	}

	if f.Type != "" {
		tx = tx.Where("type = ?", f.Type)
	}

	tx = paging.Keyword(tx, f.Keyword, "name", "code")

	perms := make([]models.Permission, 0)
	if err := tx.Order(catalogOrder).Find(&perms).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	return perms, nil
}

// Grouped returns every permission grouped by module, groups in module order.
func Grouped(db *gorm.DB) ([]Group, int, error) {
	perms, err := List(db, Filter{})
	if err != nil {
		return nil, 0, err
	}

	groups := make([]Group, 0)

	for _, p := range perms {
		if len(groups) == 0 || groups[len(groups)-1].Module != p.Module {
			groups = append(groups, Group{
				Module:      p.Module,
				DisplayName: ModuleName(p.Module),
				Permissions: make([]models.Permission, 0),
			})
		}

		last := &groups[len(groups)-1]
		last.Permissions = append(last.Permissions, p)
	}

	return groups, len(perms), nil
}

// Get retrieves a permission by id.
func Get(db *gorm.DB, id string) (*models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var perm models.Permission
	if err := db.Where(whereID, id).First(&perm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("permission")
		}

		return nil, apperr.Storage(err)
	}

	return &perm, nil
}

// Create inserts a permission. A taken code is rejected with CodeExists.
func Create(db *gorm.DB, in Input) (*models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	perm := models.Permission{
		Code:        in.Code,
		Name:        in.Name,
		Module:      in.Module,
		Type:        in.Type,
		Description: in.Description,
		Status:      in.Status == nil || *in.Status,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Permission{}).Where("code = ?", in.Code).Count(&count).Error; err != nil {
			return apperr.Storage(err)
		}

		if count > 0 {
			return apperr.New(apperr.KindCodeExists, "permission code already exists").With("field", "code").With("value", in.Code)
		}

		return apperr.Storage(tx.Create(&perm).Error)
	})
	if err != nil {
		return nil, err
	}

	return &perm, nil
}

// Update overwrites name, module, type and description. The code never changes.
func Update(db *gorm.DB, id string, in Input) (*models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var perm *models.Permission

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		if perm, err = Get(tx, id); err != nil {
			return err
		}

		perm.Name = in.Name
		perm.Module = in.Module
		perm.Type = in.Type
		perm.Description = in.Description

		if in.Status != nil {
			perm.Status = *in.Status
		}

		return apperr.Storage(tx.Save(perm).Error)
	})
	if err != nil {
		return nil, err
	}

	return perm, nil
}

// Delete removes a permission and revokes it from every role.
func Delete(db *gorm.DB, id string) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := Get(tx, id); err != nil {
			return err
		}

		if err := association.RemoveTarget(tx, association.RolePermissions, id); err != nil {
			return err
		}

		return apperr.Storage(tx.Where(whereID, id).Delete(&models.Permission{}).Error)
	})
}
