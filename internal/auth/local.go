package auth

import (
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/NiceSpeak/nicespeak-admin/internal/apperr"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/controller/paging"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/models"
)

const whereID = "id = ?"

// LocalProvider handles local database authentication and account management.
type LocalProvider struct {
	db *gorm.DB
}

// UserInput holds the writable fields of an admin account.
type UserInput struct {
	Username    string
	Email       string
	DisplayName string
	RoleID      string
	// Password is hashed before storing. It is ignored on update when empty.
	Password string
	// Active is left unchanged on update when nil, and defaults to true on create.
	Active *bool
}

// UserFilter narrows ListUsers.
type UserFilter struct {
	Keyword string
	RoleID  string
	Active  *bool
}

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{
		db: db,
	}
}

// Authenticate authenticates a user by email and password and stamps last_login_at.
func (p *LocalProvider) Authenticate(email, password string) (*models.User, error) {
	var user models.User

	err := p.db.Preload("Role").Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, apperr.Storage(err)
	}

	if !user.Active {
		return nil, ErrUserAccountDisabled
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidPassword
	}

	if user.Role == nil || !user.Role.Status {
		return nil, ErrRoleDisabled
	}

	now := time.Now().UTC()
	if err = p.db.Model(&models.User{}).Where(whereID, user.ID).Update("last_login_at", now).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	user.LastLoginAt = &now

	return &user, nil
}

// CreateUser creates a new account. Username and email must be unused and the role must exist.
func (p *LocalProvider) CreateUser(in UserInput) (*models.User, error) {
	hash, err := models.HashPassword(in.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "hash password")
	}

	user := models.User{
		Username:    in.Username,
		Email:       in.Email,
		Password:    hash,
		DisplayName: in.DisplayName,
		RoleID:      in.RoleID,
		Active:      in.Active == nil || *in.Active,
	}

	err = p.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureUnique(tx, in.Username, in.Email, ""); err != nil {
			return err
		}

		if err := ensureRole(tx, in.RoleID); err != nil {
			return err
		}

		return apperr.Storage(tx.Create(&user).Error)
	})
	if err != nil {
		return nil, err
	}

	return p.GetUserByID(user.ID)
}

// UpdateUser overwrites the profile and role of an account and its password when one is given.
func (p *LocalProvider) UpdateUser(userID string, in UserInput) (*models.User, error) {
	err := p.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where(whereID, userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("user")
			}

			return apperr.Storage(err)
		}

		if err := ensureUnique(tx, in.Username, in.Email, userID); err != nil {
			return err
		}

		if err := ensureRole(tx, in.RoleID); err != nil {
			return err
		}

		user.Username = in.Username
		user.Email = in.Email
		user.DisplayName = in.DisplayName
		user.RoleID = in.RoleID

		if in.Active != nil {
			user.Active = *in.Active
		}

		if in.Password != "" {
			hash, err := models.HashPassword(in.Password)
			if err != nil {
				return pkgerrors.Wrap(err, "hash password")
			}

			user.Password = hash
		}

		return apperr.Storage(tx.Omit("Role").Save(&user).Error)
	})
	if err != nil {
		return nil, err
	}

	return p.GetUserByID(userID)
}

// ResetPassword resets a user's password (admin function).
func (p *LocalProvider) ResetPassword(userID, newPassword string) error {
	hash, err := models.HashPassword(newPassword)
	if err != nil {
		return pkgerrors.Wrap(err, "hash password")
	}

	res := p.db.Model(&models.User{}).Where(whereID, userID).Update("password", hash)
	if res.Error != nil {
		return apperr.Storage(res.Error)
	}

	if res.RowsAffected == 0 {
		return apperr.NotFound("user")
	}

	return nil
}

// DeactivateUser disables an account. The row is kept so audit and login logs still resolve.
func (p *LocalProvider) DeactivateUser(userID string) error {
	res := p.db.Model(&models.User{}).Where(whereID, userID).Update("active", false)
	if res.Error != nil {
		return apperr.Storage(res.Error)
	}

	if res.RowsAffected == 0 {
		return apperr.NotFound("user")
	}

	return nil
}

// GetUserByID retrieves a user by ID with its role.
func (p *LocalProvider) GetUserByID(userID string) (*models.User, error) {
	var user models.User
	if err := p.db.Preload("Role").Where(whereID, userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user")
		}

		return nil, apperr.Storage(err)
	}

	return &user, nil
}

// ListUsers returns one page of accounts, newest first.
func (p *LocalProvider) ListUsers(q paging.Query, f UserFilter) (*paging.Page[models.User], error) {
	tx := paging.Keyword(p.db.Model(&models.User{}), f.Keyword, "username", "email", "display_name")

	if f.RoleID != "" {
		tx = tx.Where("role_id = ?", f.RoleID)
	}

	if f.Active != nil {
		tx = tx.Where("active = ?", *f.Active)
	}

	page, err := paging.Find[models.User](tx, q, "created_at DESC, id ASC")
	if err != nil {
		return nil, err
	}

	if err = p.attachRoles(page.Items); err != nil {
		return nil, err
	}

	return page, nil
}

func (p *LocalProvider) attachRoles(users []models.User) error {
	if len(users) == 0 {
		return nil
	}

	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.RoleID)
	}

	var roles []models.Role
	if err := p.db.Where("id IN ?", ids).Find(&roles).Error; err != nil {
		return apperr.Storage(err)
	}

	byID := make(map[string]*models.Role, len(roles))
	for i := range roles {
		byID[roles[i].ID] = &roles[i]
	}

	for i := range users {
		users[i].Role = byID[users[i].RoleID]
	}

	return nil
}

// ensureUnique rejects a username or email held by another account than exceptID.
func ensureUnique(tx *gorm.DB, username, email, exceptID string) error {
	for _, field := range []struct{ column, value string }{{"username", username}, {"email", email}} {
		q := tx.Model(&models.User{}).Where(field.column+" = ?", field.value)
		if exceptID != "" {
			q = q.Where("id <> ?", exceptID)
		}

		var count int64
		if err := q.Count(&count).Error; err != nil {
			return apperr.Storage(err)
		}

		if count > 0 {
			return apperr.New(apperr.KindAlreadyExists, field.column+" already exists").With("field", field.column)
		}
	}

	return nil
}

func ensureRole(tx *gorm.DB, roleID string) error {
	var count int64
	if err := tx.Model(&models.Role{}).Where(whereID, roleID).Count(&count).Error; err != nil {
		return apperr.Storage(err)
	}

	if count == 0 {
		return apperr.New(apperr.KindUnknownTarget, "role not found").With("role_id", roleID)
	}

	return nil
}
