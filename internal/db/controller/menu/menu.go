// Package menu stores menu nodes and builds the menu tree.
package menu

import (
	"errors"

	"gorm.io/gorm"

	"github.com/NiceSpeak/nicespeak-admin/internal/apperr"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/controller/association"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/models"
)

const (
	whereID = "id = ?"

	// creationOrder lists siblings by order and keeps ties in creation order.
	creationOrder = "sort_order ASC, created_at ASC, id ASC"
)

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// Input holds the writable fields of a menu.
type Input struct {
	Name     string
	Icon     *string
	Path     *string
	ParentID *string
	Order    int
	// Status is left unchanged on update when nil, and defaults to active on create.
	Status *bool
}

// OrderItem assigns a new sibling order to a menu.
type OrderItem struct {
	ID    string `json:"id"    validate:"required"`
	Order int    `json:"order"`
}

// List returns all menus, inactive and orphaned ones included.
func List(db *gorm.DB) ([]models.Menu, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	menus := make([]models.Menu, 0)
	if err := db.Order(creationOrder).Find(&menus).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	return menus, nil
}

// Tree returns the forest of active menus.
func Tree(db *gorm.DB) ([]*Node, error) {
	menus, err := List(db)
	if err != nil {
		return nil, err
	}

	return BuildTree(menus, true), nil
}

// ListByIDs returns the menus with the given ids in creation order.
func ListByIDs(db *gorm.DB, ids []string) ([]models.Menu, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	menus := make([]models.Menu, 0, len(ids))
	if len(ids) == 0 {
		return menus, nil
	}

	if err := db.Where("id IN ?", ids).Order(creationOrder).Find(&menus).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	return menus, nil
}

// Get retrieves a menu by id.
func Get(db *gorm.DB, id string) (*models.Menu, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var menu models.Menu
	if err := db.Where(whereID, id).First(&menu).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("menu")
		}

		return nil, apperr.Storage(err)
	}

	return &menu, nil
}

// Create inserts a new menu. A supplied parent must exist.
func Create(db *gorm.DB, in Input) (*models.Menu, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	menu := models.Menu{
		Name:     in.Name,
		Icon:     in.Icon,
		Path:     in.Path,
		ParentID: normalizeParent(in.ParentID),
		Order:    in.Order,
		Status:   in.Status == nil || *in.Status,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if !menu.IsRoot() {
			if err := ensureParent(tx, *menu.ParentID); err != nil {
				return err
			}
		}

		return apperr.Storage(tx.Create(&menu).Error)
	})
	if err != nil {
		return nil, err
	}

	return &menu, nil
}

// Update overwrites name, icon, path, parent and order of a menu, and its status when given.
// The new parent must exist and must not be the menu itself or one of its descendants.
func Update(db *gorm.DB, id string, in Input) (*models.Menu, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var menu *models.Menu

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error

		if menu, err = Get(tx, id); err != nil {
			return err
		}

		parentID := normalizeParent(in.ParentID)
		if parentID != nil {
			if err = ensureAcyclic(tx, id, *parentID); err != nil {
				return err
			}
		}

		menu.Name = in.Name
		menu.Icon = in.Icon
		menu.Path = in.Path
		menu.ParentID = parentID
		menu.Order = in.Order

		if in.Status != nil {
			menu.Status = *in.Status
		}

		return apperr.Storage(tx.Save(menu).Error)
	})
	if err != nil {
		return nil, err
	}

	return menu, nil
}

// Delete removes a menu without children together with its role-menu rows.
// A menu with children is rejected with HasChildren carrying children_count.
func Delete(db *gorm.DB, id string) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := Get(tx, id); err != nil {
			return err
		}

		var children int64
		if err := tx.Model(&models.Menu{}).Where("parent_id = ?", id).Count(&children).Error; err != nil {
			return apperr.Storage(err)
		}

		if children > 0 {
			return apperr.New(apperr.KindHasChildren, "menu has children").With("children_count", children)
		}

		if err := association.RemoveTarget(tx, association.RoleMenus, id); err != nil {
			return err
		}

		return apperr.Storage(tx.Where(whereID, id).Delete(&models.Menu{}).Error)
	})
}

// Reorder applies a batch of sibling orders atomically.
// Every id must exist, otherwise nothing is applied and NotFound lists the missing ids.
// Rows whose order already matches are not touched.
func Reorder(db *gorm.DB, items []OrderItem) error {
	if db == nil {
		return ErrDBNil
	}

	if len(items) == 0 {
		return nil
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	ids = association.Dedupe(ids)

	return db.Transaction(func(tx *gorm.DB) error {
		var current []models.Menu
		if err := tx.Select("id", "sort_order").Where("id IN ?", ids).Find(&current).Error; err != nil {
			return apperr.Storage(err)
		}

		orders := make(map[string]int, len(current))
		for _, m := range current {
			orders[m.ID] = m.Order
		}

		if missing := missingIDs(ids, orders); len(missing) > 0 {
			return apperr.NotFound("menu").With("missing_ids", missing)
		}

		for _, item := range items {
			if orders[item.ID] == item.Order {
				continue
			}

			err := tx.Model(&models.Menu{}).Where(whereID, item.ID).Update("sort_order", item.Order).Error
			if err != nil {
				return apperr.Storage(err)
			}

			orders[item.ID] = item.Order
		}

		return nil
	})
}

// ensureParent checks that parentID references an existing menu.
func ensureParent(tx *gorm.DB, parentID string) error {
	var count int64
	if err := tx.Model(&models.Menu{}).Where(whereID, parentID).Count(&count).Error; err != nil {
		return apperr.Storage(err)
	}

	if count == 0 {
		return apperr.New(apperr.KindParentNotFound, "parent menu not found").With("parent_id", parentID)
	}

	return nil
}

// ensureAcyclic walks the ancestor chain of parentID and rejects it when it reaches id.
func ensureAcyclic(tx *gorm.DB, id, parentID string) error {
	if parentID == id {
		return apperr.New(apperr.KindCircularReference, "menu cannot be its own parent")
	}

	var rows []models.Menu
	if err := tx.Select("id", "parent_id").Find(&rows).Error; err != nil {
		return apperr.Storage(err)
	}

	parents := make(map[string]*string, len(rows))
	for _, r := range rows {
		parents[r.ID] = r.ParentID
	}

	if _, ok := parents[parentID]; !ok {
		return apperr.New(apperr.KindParentNotFound, "parent menu not found").With("parent_id", parentID)
	}

	// a pre-existing loop above parentID that does not contain id ends the walk
	seen := make(map[string]struct{}, len(rows))

	for cur := parentID; cur != ""; {
		if cur == id {
			return apperr.New(apperr.KindCircularReference, "menu cannot be moved below its own descendant")
		}

		if _, ok := seen[cur]; ok {
			return nil
		}

		seen[cur] = struct{}{}

		next, ok := parents[cur]
		if !ok || next == nil {
			return nil
		}

		cur = *next
	}

	return nil
}

func normalizeParent(parentID *string) *string {
	if parentID == nil || *parentID == "" {
		return nil
	}

	return parentID
}

func missingIDs(ids []string, found map[string]int) []string {
	missing := make([]string, 0)

	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}

	return missing
}
