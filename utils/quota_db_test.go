package utils

import (
	"testing"

	"github.com/karthik-739/OrchardKart/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserveQuotaLastSlotsSingleWinner(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&models.PreorderQuota{ProductID: 1, VariantKey: "", Quota: 2}).Error)

	// Two reservations both want the last two slots; the conditional
	// update admits exactly one.
	remaining, err := ReserveQuota(db, 1, "", 2)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	_, err = ReserveQuota(db, 1, "", 2)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindQuotaExceeded))

	// The counter never overshoots the quota
	var quota models.PreorderQuota
	require.NoError(t, db.Where("product_id = ?", 1).First(&quota).Error)
	assert.Equal(t, 2, quota.SoldPreorder)
}

func TestReserveQuotaPartialOverflow(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&models.PreorderQuota{ProductID: 2, VariantKey: "ripeness=ripe|weight=1kg", Quota: 5, SoldPreorder: 4}).Error)

	_, err := ReserveQuota(db, 2, "ripeness=ripe|weight=1kg", 2)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindQuotaExceeded))

	remaining, err := ReserveQuota(db, 2, "ripeness=ripe|weight=1kg", 1)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
}

func TestReserveQuotaMissingPool(t *testing.T) {
	db := newTestDB(t)

	_, err := ReserveQuota(db, 99, "", 1)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindQuotaExceeded))
}
