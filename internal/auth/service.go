package auth

import (
	"gorm.io/gorm"

	"github.com/NiceSpeak/nicespeak-admin/internal/apperr"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/controller/role"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/models"
)

// Service answers authorization questions about users.
type Service struct {
	db *gorm.DB
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// HasPermission checks if the role of an active user grants the permission code.
func (s *Service) HasPermission(userID, permission string) (bool, error) {
	var count int64

	err := s.db.Table("permissions").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN roles ON roles.id = role_permissions.role_id").
		Joins("JOIN users ON users.role_id = roles.id").
		Where("users.id = ? AND users.active = ? AND roles.status = ?", userID, true, true).
		Where("permissions.code = ? AND permissions.status = ?", permission, true).
		Count(&count).Error
	if err != nil {
		return false, apperr.Storage(err)
	}

	return count > 0, nil
}

// GetUserPermissions returns the permission codes granted to a user through its role.
func (s *Service) GetUserPermissions(userID string) ([]string, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	return role.PermissionCodes(s.db, user.RoleID)
}

// GetUser loads a user together with its role.
func (s *Service) GetUser(userID string) (*models.User, error) {
	return NewLocalProvider(s.db).GetUserByID(userID)
}
