package audit

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NiceSpeak/nicespeak-admin/internal/apperr"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/controller/paging"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/dbtest"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/models"
)

func TestRecordAndList(t *testing.T) {
	db := dbtest.Open(t)

	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	for i, user := range []string{"u1", "u2", "u1"} {
		entry := &models.AuditLog{
			UserID:    user,
			Method:    "POST",
			Path:      "/api/admin/menus",
			Status:    201,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, Record(db, entry))
		assert.NotEmpty(t, entry.ID)
	}

	page, err := List(db, paging.Query{}, Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.True(t, page.Items[0].CreatedAt.Equal(base.Add(2*time.Hour)))

	page, err = List(db, paging.Query{}, Filter{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	from := base.Add(30 * time.Minute)
	to := base.Add(90 * time.Minute)
	page, err = List(db, paging.Query{}, Filter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "u2", page.Items[0].UserID)
}

func TestRecordLogin(t *testing.T) {
	db := dbtest.Open(t)

	require.NoError(t, RecordLogin(db, &models.LoginLog{Email: "a@example.com", Success: false, Reason: "invalid_password"}))
	require.NoError(t, RecordLogin(db, &models.LoginLog{UserID: "u1", Email: "a@example.com", Success: true}))

	page, err := ListLogins(db, paging.Query{Limit: 1}, Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Len(t, page.Items, 1)
}

func TestList_StorageFailure(t *testing.T) {
	db, mock := dbtest.Mock(t)
	mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection reset"))

	_, err := List(db, paging.Query{}, Filter{})
	require.ErrorIs(t, err, apperr.ErrStorageUnavailable)
}

func TestNilDB(t *testing.T) {
	require.ErrorIs(t, Record(nil, &models.AuditLog{}), ErrDBNil)
	_, err := ListLogins(nil, paging.Query{}, Filter{})
	require.ErrorIs(t, err, ErrDBNil)
}

