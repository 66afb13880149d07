package database

import (
	"catalog/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigRows_UpsertGetDelete(t *testing.T) {
	db, err := OpenInMemory(t.Name())
	require.NoError(t, err)

	_, ok, err := GetConfigRow(db, "theme")
	require.NoError(t, err)
	assert.False(t, ok)

	admin := uint(7)
	require.NoError(t, UpsertConfigRows(db, []models.SiteConfig{
		{Key: "theme", Value: models.ConfigValue(`{"current":"dark"}`), UpdatedBy: &admin},
	}))

	row, ok, err := GetConfigRow(db, "theme")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"current":"dark"}`, string(row.Value))
	require.NotNil(t, row.UpdatedBy)
	assert.Equal(t, admin, *row.UpdatedBy)

	require.NoError(t, UpsertConfigRows(db, []models.SiteConfig{
		{Key: "theme", Value: models.ConfigValue(`{"current":"light"}`)},
		{Key: "site", Value: models.ConfigValue(`{"name":"Central Celulares"}`)},
	}))

	rows, err := ListConfigRows(db)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "site", rows[0].Key)
	assert.JSONEq(t, `{"current":"light"}`, string(rows[1].Value))

	require.NoError(t, DeleteConfigRow(db, "theme"))
	_, ok, err = GetConfigRow(db, "theme")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConfigRows_RejectEmptyKey(t *testing.T) {
	db, err := OpenInMemory(t.Name())
	require.NoError(t, err)

	_, _, err = GetConfigRow(db, "  ")
	assert.Error(t, err)
	assert.Error(t, UpsertConfigRows(db, []models.SiteConfig{{Key: ""}}))
	assert.Error(t, DeleteConfigRow(db, ""))
}

func TestSeedAdmins_ActivatesExistingRows(t *testing.T) {
	db, err := OpenInMemory(t.Name())
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.AdminUser{Email: "owner@example.com", IsActive: false}).Error)
	require.NoError(t, SeedAdmins(db, []string{" Owner@Example.com ", "staff@example.com", ""}))

	var admins []models.AdminUser
	require.NoError(t, db.Order("email").Find(&admins).Error)
	require.Len(t, admins, 2)
	for _, a := range admins {
		assert.True(t, a.IsActive, a.Email)
	}
}
