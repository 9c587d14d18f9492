package customer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/NiceSpeak/nicespeak-admin/internal/apperr"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/controller/paging"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/dbtest"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/models"
)

func seed(t *testing.T, db *gorm.DB) []models.Customer {
	t.Helper()

	customers := []models.Customer{
		{Email: "anna@example.com", Name: "Anna", SubscriptionTier: "free", SubscriptionStatus: "active"},
		{Email: "ben@example.com", Name: "Ben", SubscriptionTier: "premium", SubscriptionStatus: "active"},
		{Email: "cleo@example.com", Name: "Cleo", SubscriptionTier: "premium", SubscriptionStatus: "expired", IsBanned: true},
	}
	require.NoError(t, db.Create(&customers).Error)

	return customers
}

func TestList(t *testing.T) {
	db := dbtest.Open(t)
	seed(t, db)

	banned := true

	testCases := []struct {
		name   string
		filter Filter
		total  int64
	}{
		{"all", Filter{}, 3},
		{"keyword on name", Filter{Keyword: "ann"}, 1},
		{"keyword on email", Filter{Keyword: "EXAMPLE.COM"}, 3},
		{"tier", Filter{Tier: "premium"}, 2},
		{"tier and status", Filter{Tier: "premium", Status: "active"}, 1},
		{"banned", Filter{Banned: &banned}, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			page, err := List(db, paging.Query{}, tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.total, page.Total)
			assert.Len(t, page.Items, int(tc.total))
		})
	}
}

func TestGetAndSubscriptions(t *testing.T) {
	db := dbtest.Open(t)
	customers := seed(t, db)

	_, err := Get(db, "ghost")
	require.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = Subscriptions(db, "ghost")
	require.ErrorIs(t, err, apperr.ErrNotFound)

	got, err := Get(db, customers[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Ben", got.Name)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	orders := []models.SubscriptionOrder{
		{CustomerID: customers[1].ID, PlanID: "p1", Tier: "premium", Status: "expired", Currency: "USD", StartedAt: start},
		{CustomerID: customers[1].ID, PlanID: "p1", Tier: "premium", Status: "paid", Currency: "USD", StartedAt: start.AddDate(0, 1, 0)},
		{CustomerID: customers[0].ID, PlanID: "p1", Tier: "premium", Status: "paid", Currency: "USD", StartedAt: start},
	}
	require.NoError(t, db.Create(&orders).Error)

	subs, err := Subscriptions(db, customers[1].ID)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "paid", subs[0].Status)

	subs, err = Subscriptions(db, customers[2].ID)
	require.NoError(t, err)
	assert.NotNil(t, subs)
	assert.Empty(t, subs)
}

func TestDevicesAndPractices(t *testing.T) {
	db := dbtest.Open(t)
	customers := seed(t, db)

	_, err := Devices(db, "ghost")
	require.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = Practices(db, "ghost", paging.Query{})
	require.ErrorIs(t, err, apperr.ErrNotFound)

	day := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	devices := []models.CustomerDevice{
		{CustomerID: customers[0].ID, Platform: "android", DeviceID: "a-1", FirstUsedAt: day, LastUsedAt: day},
		{CustomerID: customers[0].ID, Platform: "ios", DeviceID: "i-1", FirstUsedAt: day, LastUsedAt: day.AddDate(0, 0, 3)},
		{CustomerID: customers[1].ID, Platform: "web", DeviceID: "w-1", FirstUsedAt: day, LastUsedAt: day},
	}
	require.NoError(t, db.Create(&devices).Error)

	got, err := Devices(db, customers[0].ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ios", got[0].Platform)

	got, err = Devices(db, customers[2].ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	practices := make([]models.Practice, 0, 5)
	for i := range 5 {
		practices = append(practices, models.Practice{
			CustomerID: customers[0].ID, Scenario: "Code Review", Score: 60 + i, CompletedAt: day.Add(time.Duration(i) * time.Hour),
		})
	}

	practices = append(practices, models.Practice{CustomerID: customers[1].ID, Scenario: "Small Talk", Score: 90, CompletedAt: day})
	require.NoError(t, db.Create(&practices).Error)

	page, err := Practices(db, customers[0].ID, paging.Query{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, 64, page.Items[0].Score)
	assert.Equal(t, 63, page.Items[1].Score)

	page, err = Practices(db, customers[0].ID, paging.Query{Page: 3, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 60, page.Items[0].Score)
}
