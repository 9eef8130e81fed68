package utils

import (
	"testing"

	"github.com/karthik-739/OrchardKart/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTestPreorder(t *testing.T, db *gorm.DB) *models.Preorder {
	t.Helper()
	p := &models.Preorder{
		Code:           "PRE-DBTEST1",
		UserID:         1,
		ProductID:      1,
		Qty:            4,
		UnitPrice:      25_000,
		DepositPercent: 20,
		Status:         models.PreorderStatusPendingPayment,
		Version:        1,
	}
	require.Nil(t, RecalcPreorder(p))
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestSavePreorderVersionConflict(t *testing.T) {
	db := newTestDB(t)
	created := createTestPreorder(t, db)

	// Two writers load the same version
	var first, second models.Preorder
	require.NoError(t, db.First(&first, created.ID).Error)
	require.NoError(t, db.First(&second, created.ID).Error)

	require.Nil(t, MarkDepositPaid(&first))
	require.NoError(t, SavePreorder(db, &first))
	assert.Equal(t, int64(2), first.Version)

	// The loser's save matches zero rows and surfaces a conflict
	require.Nil(t, MarkDepositPaid(&second))
	err := SavePreorder(db, &second)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindConflict))
	assert.Equal(t, int64(1), second.Version)

	// Only the winner's write landed
	var stored models.Preorder
	require.NoError(t, db.First(&stored, created.ID).Error)
	assert.Equal(t, int64(2), stored.Version)
	assert.Equal(t, int64(20_000), stored.DepositPaid)
}

func TestSavePreorderRetryAfterConflict(t *testing.T) {
	db := newTestDB(t)
	created := createTestPreorder(t, db)

	var first, second models.Preorder
	require.NoError(t, db.First(&first, created.ID).Error)
	require.NoError(t, db.First(&second, created.ID).Error)

	require.Nil(t, MarkDepositPaid(&first))
	require.NoError(t, SavePreorder(db, &first))

	second.InternalNote = "call the customer"
	require.Error(t, SavePreorder(db, &second))

	// Reloading picks up the winner's state; the retry then succeeds
	var reloaded models.Preorder
	require.NoError(t, db.First(&reloaded, created.ID).Error)
	reloaded.InternalNote = "call the customer"
	require.NoError(t, SavePreorder(db, &reloaded))
	assert.Equal(t, int64(3), reloaded.Version)
	assert.Equal(t, int64(20_000), reloaded.DepositPaid)
}

func TestSettleVerifiedPaymentAppliesOnce(t *testing.T) {
	db := newTestDB(t)
	p := createTestPreorder(t, db)

	payment := &models.PreorderPayment{
		PreorderID:      p.ID,
		Amount:          20_000,
		Purpose:         models.PaymentPurposeDeposit,
		Status:          models.PaymentStatusInitiated,
		RazorpayOrderID: "order_test_1",
	}
	require.NoError(t, db.Create(payment).Error)

	applied, err := SettleVerifiedPayment(db, p, payment, "pay_test_1")
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, int64(20_000), p.DepositPaid)
	assert.Equal(t, int64(80_000), p.RemainingDue)

	// A racing duplicate that loaded the row as initiated matches zero
	// rows and must not credit the amount again
	duplicate := &models.PreorderPayment{ID: payment.ID, Amount: 20_000, Status: models.PaymentStatusInitiated}
	applied, err = SettleVerifiedPayment(db, p, duplicate, "pay_test_1")
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, int64(20_000), p.DepositPaid)

	var stored models.PreorderPayment
	require.NoError(t, db.First(&stored, payment.ID).Error)
	assert.Equal(t, models.PaymentStatusPaid, stored.Status)
	assert.Equal(t, "pay_test_1", stored.RazorpayPaymentID)
}
