package utils

import (
	"testing"

	"github.com/karthik-739/OrchardKart/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSubtotal(t *testing.T) {
	subtotal, err := ComputeSubtotal(25_000, 4)
	require.Nil(t, err)
	assert.Equal(t, int64(100_000), subtotal)

	_, err = ComputeSubtotal(25_000, 0)
	require.NotNil(t, err)
	assert.Equal(t, KindInvalidAmount, err.Kind)

	_, err = ComputeSubtotal(-1, 2)
	require.NotNil(t, err)
	assert.Equal(t, KindInvalidAmount, err.Kind)
}

func TestComputeDepositDue(t *testing.T) {
	// 20% of 1000.00
	due, err := ComputeDepositDue(100_000, 20)
	require.Nil(t, err)
	assert.Equal(t, int64(20_000), due)

	// Half rounds away from zero: 25% of 0.50 = 0.125 -> 0.13
	due, err = ComputeDepositDue(50, 25)
	require.Nil(t, err)
	assert.Equal(t, int64(13), due)

	// Just under half rounds down: 12% of 0.37 = 0.0444
	due, err = ComputeDepositDue(37, 12)
	require.Nil(t, err)
	assert.Equal(t, int64(4), due)

	// Zero and full percent edges
	due, err = ComputeDepositDue(99_999, 0)
	require.Nil(t, err)
	assert.Equal(t, int64(0), due)

	due, err = ComputeDepositDue(99_999, 100)
	require.Nil(t, err)
	assert.Equal(t, int64(99_999), due)

	_, err = ComputeDepositDue(100, 101)
	require.NotNil(t, err)
	assert.Equal(t, KindInvalidAmount, err.Kind)

	_, err = ComputeDepositDue(100, -1)
	require.NotNil(t, err)
	assert.Equal(t, KindInvalidAmount, err.Kind)
}

func TestComputeRemainingDueFloorsAtZero(t *testing.T) {
	assert.Equal(t, int64(80_000), ComputeRemainingDue(100_000, 0, 20_000))
	assert.Equal(t, int64(79_000), ComputeRemainingDue(100_000, -1_000, 20_000))
	// Overcollected never goes negative
	assert.Equal(t, int64(0), ComputeRemainingDue(100_000, -50_000, 60_000))
}

func TestRecalcPreorder(t *testing.T) {
	p := &models.Preorder{
		UnitPrice:      25_000,
		Qty:            4,
		DepositPercent: 20,
		DepositPaid:    20_000,
	}
	require.Nil(t, RecalcPreorder(p))
	assert.Equal(t, int64(100_000), p.Subtotal)
	assert.Equal(t, int64(20_000), p.DepositDue)
	assert.Equal(t, int64(80_000), p.RemainingDue)

	// Idempotent: a second run with unchanged inputs changes nothing
	before := *p
	require.Nil(t, RecalcPreorder(p))
	assert.Equal(t, before, *p)
}

func TestRecalcPreorderDoesNotTouchStatus(t *testing.T) {
	p := &models.Preorder{
		UnitPrice:      10_000,
		Qty:            1,
		DepositPercent: 100,
		DepositPaid:    10_000,
		Status:         models.PreorderStatusPendingPayment,
	}
	require.Nil(t, RecalcPreorder(p))
	// Deposit fully collected, but confirmation stays an explicit action
	assert.Equal(t, models.PreorderStatusPendingPayment, p.Status)
	assert.True(t, IsDepositSatisfied(p))
	assert.True(t, IsPaidInFull(p))
}

func TestRecalcPreorderAppliesFeesAdjust(t *testing.T) {
	p := &models.Preorder{
		UnitPrice:      25_000,
		Qty:            4,
		DepositPercent: 20,
		DepositPaid:    20_000,
		FeesAdjust:     5_000,
	}
	require.Nil(t, RecalcPreorder(p))
	assert.Equal(t, int64(85_000), p.RemainingDue)
}
