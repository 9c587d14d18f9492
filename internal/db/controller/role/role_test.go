package role

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/NiceSpeak/nicespeak-admin/internal/apperr"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/controller/association"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/controller/paging"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/dbtest"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/models"
)

func seedPermissions(t *testing.T, db *gorm.DB, codes ...string) []string {
	t.Helper()

	ids := make([]string, 0, len(codes))

	for _, code := range codes {
		p := models.Permission{Code: code, Name: code, Module: "menus", Type: models.PermissionTypeRead, Status: true}
		require.NoError(t, db.Create(&p).Error)
		ids = append(ids, p.ID)
	}

	return ids
}

func countRoles(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&models.Role{}).Count(&count).Error)

	return count
}

func TestCreate(t *testing.T) {
	db := dbtest.Open(t)
	perms := seedPermissions(t, db, "menus.read", "menus.write")

	detail, err := Create(db, Input{Code: "editor", Name: "Editor", Level: 10}, perms)
	require.NoError(t, err)
	assert.NotEmpty(t, detail.ID)
	assert.True(t, detail.Status)
	require.Len(t, detail.Permissions, 2)
	assert.Equal(t, "menus.read", detail.Permissions[0].Code)

	bare, err := Create(db, Input{Code: "viewer", Name: "Viewer"}, nil)
	require.NoError(t, err)
	assert.NotNil(t, bare.Permissions)
	assert.Empty(t, bare.Permissions)
}

func TestCreate_DuplicateCode(t *testing.T) {
	db := dbtest.Open(t)

	_, err := Create(db, Input{Code: "editor", Name: "Editor"}, nil)
	require.NoError(t, err)

	_, err = Create(db, Input{Code: "editor", Name: "Another"}, nil)
	require.ErrorIs(t, err, apperr.ErrAlreadyExists)
	require.ErrorIs(t, err, apperr.ErrCodeExists)
	assert.Equal(t, int64(1), countRoles(t, db))
}

func TestCreate_UnknownPermissionIsAtomic(t *testing.T) {
	db := dbtest.Open(t)
	perms := seedPermissions(t, db, "menus.read")

	_, err := Create(db, Input{Code: "editor", Name: "Editor"}, append(perms, "ghost"))
	require.ErrorIs(t, err, apperr.ErrUnknownTarget)
	assert.Equal(t, int64(0), countRoles(t, db))
}

func TestUpdate(t *testing.T) {
	db := dbtest.Open(t)
	perms := seedPermissions(t, db, "p1", "p2", "p3")

	created, err := Create(db, Input{Code: "editor", Name: "Editor"}, perms[:2])
	require.NoError(t, err)

	// nil permissions keep the set
	updated, err := Update(db, created.ID, Input{Code: "editor", Name: "Chief Editor", Level: 5}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Chief Editor", updated.Name)
	assert.Equal(t, 5, updated.Level)
	assert.Len(t, updated.Permissions, 2)

	// empty permissions clear the set
	updated, err = Update(db, created.ID, Input{Code: "editor", Name: "Chief Editor"}, []string{})
	require.NoError(t, err)
	assert.Empty(t, updated.Permissions)

	_, err = Update(db, "nope", Input{Code: "x", Name: "x"}, nil)
	require.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = Create(db, Input{Code: "viewer", Name: "Viewer"}, nil)
	require.NoError(t, err)

	_, err = Update(db, created.ID, Input{Code: "viewer", Name: "Editor"}, nil)
	require.ErrorIs(t, err, apperr.ErrCodeExists)

	// an empty code keeps the current one
	updated, err = Update(db, created.ID, Input{Name: "Editor"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "editor", updated.Code)
}

func TestReplacePermissions(t *testing.T) {
	db := dbtest.Open(t)
	perms := seedPermissions(t, db, "p1", "p2", "p3")
	p1, p2, p3 := perms[0], perms[1], perms[2]

	created, err := Create(db, Input{Code: "r", Name: "R"}, []string{p1, p2})
	require.NoError(t, err)

	got, err := ReplacePermissions(db, created.ID, []string{p2, p3})
	require.NoError(t, err)
	assert.Equal(t, []string{p2, p3}, got)

	stored, err := Permissions(db, created.ID)
	require.NoError(t, err)

	codes := make([]string, 0, len(stored))
	for _, p := range stored {
		codes = append(codes, p.Code)
	}

	assert.Equal(t, []string{"p2", "p3"}, codes)

	_, err = ReplacePermissions(db, "nope", []string{p1})
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestReplaceMenus(t *testing.T) {
	db := dbtest.Open(t)

	created, err := Create(db, Input{Code: "r", Name: "R"}, nil)
	require.NoError(t, err)

	m := models.Menu{Name: "Dashboard", Status: true}
	require.NoError(t, db.Create(&m).Error)

	_, err = ReplaceMenus(db, created.ID, []string{m.ID, m.ID})
	require.NoError(t, err)

	ids, err := MenuIDs(db, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{m.ID}, ids)

	_, err = ReplaceMenus(db, created.ID, []string{"ghost"})
	require.ErrorIs(t, err, apperr.ErrUnknownTarget)

	ids, err = MenuIDs(db, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{m.ID}, ids)

	_, err = MenuIDs(db, "nope")
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDelete(t *testing.T) {
	db := dbtest.Open(t)
	perms := seedPermissions(t, db, "p1")

	created, err := Create(db, Input{Code: "r", Name: "R"}, perms)
	require.NoError(t, err)

	m := models.Menu{Name: "Dashboard", Status: true}
	require.NoError(t, db.Create(&m).Error)
	_, err = ReplaceMenus(db, created.ID, []string{m.ID})
	require.NoError(t, err)

	require.NoError(t, Delete(db, created.ID))
	assert.Equal(t, int64(0), countRoles(t, db))

	var links int64
	require.NoError(t, db.Model(&models.RolePermission{}).Count(&links).Error)
	assert.Zero(t, links)
	require.NoError(t, db.Model(&models.RoleMenu{}).Count(&links).Error)
	assert.Zero(t, links)

	require.ErrorIs(t, Delete(db, created.ID), apperr.ErrNotFound)
}

func TestDelete_SystemRole(t *testing.T) {
	db := dbtest.Open(t)
	perms := seedPermissions(t, db, "p1")

	system := models.Role{Code: "super_admin", Name: "Super Admin", IsSystem: true, Level: 100, Status: true}
	require.NoError(t, db.Create(&system).Error)
	_, err := association.Replace(db, association.RolePermissions, system.ID, perms)
	require.NoError(t, err)

	err = Delete(db, system.ID)
	require.ErrorIs(t, err, apperr.ErrSystemRoleProtected)

	assert.Equal(t, int64(1), countRoles(t, db))

	got, err := association.Targets(db, association.RolePermissions, system.ID)
	require.NoError(t, err)
	assert.Equal(t, perms, got)
}

func TestDelete_RoleInUse(t *testing.T) {
	db := dbtest.Open(t)

	created, err := Create(db, Input{Code: "r", Name: "R"}, nil)
	require.NoError(t, err)

	user := models.User{Username: "alice", Email: "alice@example.com", Password: "x", RoleID: created.ID, Active: true}
	require.NoError(t, db.Create(&user).Error)

	err = Delete(db, created.ID)
	require.ErrorIs(t, err, apperr.ErrRoleInUse)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, int64(1), appErr.Details["users_count"])
}

func TestList(t *testing.T) {
	db := dbtest.Open(t)

	for i := range 5 {
		_, err := Create(db, Input{Code: fmt.Sprintf("role%d", i), Name: fmt.Sprintf("Role %d", i), Level: i * 10}, nil)
		require.NoError(t, err)
	}

	page, err := List(db, paging.Query{Page: 1, Limit: 2}, "")
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "role4", page.Items[0].Code)
	assert.Equal(t, "role3", page.Items[1].Code)

	page, err = List(db, paging.Query{}, "ROLE 2")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "role2", page.Items[0].Code)
}

func TestPermissionCodes(t *testing.T) {
	db := dbtest.Open(t)
	perms := seedPermissions(t, db, "menus.write", "menus.read")

	created, err := Create(db, Input{Code: "r", Name: "R"}, perms)
	require.NoError(t, err)

	codes, err := PermissionCodes(db, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"menus.read", "menus.write"}, codes)

	inactive := false
	_, err = Update(db, created.ID, Input{Code: "r", Name: "R", Status: &inactive}, nil)
	require.NoError(t, err)

	codes, err = PermissionCodes(db, created.ID)
	require.NoError(t, err)
	assert.Empty(t, codes)
}

func TestStorageFailure(t *testing.T) {
	db, mock := dbtest.Mock(t)

	mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection refused"))

	_, err := Get(db, "id")
	require.ErrorIs(t, err, apperr.ErrStorageUnavailable)
	require.NoError(t, mock.ExpectationsWereMet())
}
