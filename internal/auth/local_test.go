package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/NiceSpeak/nicespeak-admin/internal/apperr"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/controller/paging"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/dbtest"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/models"
)

func createRole(t *testing.T, db *gorm.DB, code string, permissions ...string) *models.Role {
	t.Helper()

	role := models.Role{Code: code, Name: code, Status: true}
	require.NoError(t, db.Create(&role).Error)

	for _, code := range permissions {
		p := models.Permission{Code: code, Name: code, Module: "menus", Type: models.PermissionTypeRead, Status: true}
		require.NoError(t, db.Create(&p).Error)
		require.NoError(t, db.Create(&models.RolePermission{RoleID: role.ID, PermissionID: p.ID}).Error)
	}

	return &role
}

func createUser(t *testing.T, db *gorm.DB, roleID, email string) *models.User {
	t.Helper()

	user, err := NewLocalProvider(db).CreateUser(UserInput{
		Username: email,
		Email:    email,
		Password: "secret-password",
		RoleID:   roleID,
	})
	require.NoError(t, err)

	return user
}

func TestAuthenticate(t *testing.T) {
	db := dbtest.Open(t)
	role := createRole(t, db, "admin")
	created := createUser(t, db, role.ID, "a@example.com")
	assert.Nil(t, created.LastLoginAt)

	p := NewLocalProvider(db)

	user, err := p.Authenticate("a@example.com", "secret-password")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	require.NotNil(t, user.Role)
	assert.Equal(t, "admin", user.Role.Code)
	require.NotNil(t, user.LastLoginAt)

	stored, err := p.GetUserByID(created.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt)
}

func TestAuthenticate_Failures(t *testing.T) {
	db := dbtest.Open(t)
	role := createRole(t, db, "admin")
	disabledRole := createRole(t, db, "disabled")
	require.NoError(t, db.Model(disabledRole).Update("status", false).Error)

	createUser(t, db, role.ID, "a@example.com")
	inactive := createUser(t, db, role.ID, "b@example.com")
	createUser(t, db, disabledRole.ID, "c@example.com")

	p := NewLocalProvider(db)
	require.NoError(t, p.DeactivateUser(inactive.ID))

	testCases := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{"unknown email", "nobody@example.com", "secret-password", ErrUserNotFound},
		{"wrong password", "a@example.com", "wrong", ErrInvalidPassword},
		{"inactive user", "b@example.com", "secret-password", ErrUserAccountDisabled},
		{"inactive role", "c@example.com", "secret-password", ErrRoleDisabled},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := p.Authenticate(tc.email, tc.password)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCreateUser_Uniqueness(t *testing.T) {
	db := dbtest.Open(t)
	role := createRole(t, db, "admin")
	createUser(t, db, role.ID, "a@example.com")

	p := NewLocalProvider(db)

	_, err := p.CreateUser(UserInput{Username: "a@example.com", Email: "new@example.com", Password: "x", RoleID: role.ID})
	require.ErrorIs(t, err, apperr.ErrAlreadyExists)

	_, err = p.CreateUser(UserInput{Username: "new", Email: "a@example.com", Password: "x", RoleID: role.ID})
	require.ErrorIs(t, err, apperr.ErrAlreadyExists)

	_, err = p.CreateUser(UserInput{Username: "new", Email: "new@example.com", Password: "x", RoleID: "ghost"})
	require.ErrorIs(t, err, apperr.ErrUnknownTarget)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpdateUser(t *testing.T) {
	db := dbtest.Open(t)
	role := createRole(t, db, "admin")
	other := createRole(t, db, "viewer")
	user := createUser(t, db, role.ID, "a@example.com")
	createUser(t, db, role.ID, "b@example.com")

	p := NewLocalProvider(db)

	updated, err := p.UpdateUser(user.ID, UserInput{
		Username:    "alice",
		Email:       "alice@example.com",
		DisplayName: "Alice",
		RoleID:      other.ID,
		Password:    "new-password",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", updated.Username)
	assert.Equal(t, "viewer", updated.Role.Code)
	assert.True(t, updated.Active)

	_, err = p.Authenticate("alice@example.com", "new-password")
	require.NoError(t, err)

	_, err = p.UpdateUser(user.ID, UserInput{Username: "alice", Email: "b@example.com", RoleID: other.ID})
	require.ErrorIs(t, err, apperr.ErrAlreadyExists)

	_, err = p.UpdateUser("ghost", UserInput{Username: "x", Email: "x@example.com", RoleID: other.ID})
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestResetPasswordAndDeactivate(t *testing.T) {
	db := dbtest.Open(t)
	role := createRole(t, db, "admin")
	user := createUser(t, db, role.ID, "a@example.com")

	p := NewLocalProvider(db)

	require.NoError(t, p.ResetPassword(user.ID, "reset-password"))
	_, err := p.Authenticate("a@example.com", "reset-password")
	require.NoError(t, err)

	require.ErrorIs(t, p.ResetPassword("ghost", "x"), apperr.ErrNotFound)
	require.ErrorIs(t, p.DeactivateUser("ghost"), apperr.ErrNotFound)

	require.NoError(t, p.DeactivateUser(user.ID))

	stored, err := p.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)
}

func TestListUsers(t *testing.T) {
	db := dbtest.Open(t)
	role := createRole(t, db, "admin")
	createUser(t, db, role.ID, "alice@example.com")
	bob := createUser(t, db, role.ID, "bob@example.com")
	createUser(t, db, role.ID, "carol@example.com")

	p := NewLocalProvider(db)
	require.NoError(t, p.DeactivateUser(bob.ID))

	page, err := p.ListUsers(paging.Query{Page: 1, Limit: 2}, UserFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Items, 2)
	require.NotNil(t, page.Items[0].Role)
	assert.Equal(t, "admin", page.Items[0].Role.Code)

	page, err = p.ListUsers(paging.Query{}, UserFilter{Keyword: "ALI"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "alice@example.com", page.Items[0].Email)

	active := true
	page, err = p.ListUsers(paging.Query{}, UserFilter{Active: &active, RoleID: role.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
}
