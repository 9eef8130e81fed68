package utils

import (
	"testing"
	"time"

	"github.com/karthik-739/OrchardKart/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPreorder(status string) *models.Preorder {
	p := &models.Preorder{
		ID:             1,
		Code:           "PRE-TEST01",
		UnitPrice:      25_000,
		Qty:            4,
		DepositPercent: 20,
		Status:         status,
	}
	if err := RecalcPreorder(p); err != nil {
		panic(err)
	}
	return p
}

func TestAdvancePreorderConfirmRequiresDeposit(t *testing.T) {
	now := time.Now()

	p := newTestPreorder(models.PreorderStatusPendingPayment)
	err := AdvancePreorder(p, models.PreorderStatusConfirmed, now)
	require.NotNil(t, err)
	assert.Equal(t, KindInvalidTransition, err.Kind)
	assert.Equal(t, models.PreorderStatusPendingPayment, p.Status)

	p.DepositPaid = p.DepositDue
	require.Nil(t, RecalcPreorder(p))
	require.Nil(t, AdvancePreorder(p, models.PreorderStatusConfirmed, now))
	assert.Equal(t, models.PreorderStatusConfirmed, p.Status)
	require.NotNil(t, p.ConfirmedAt)
	assert.Equal(t, now, *p.ConfirmedAt)
}

func TestAdvancePreorderDeliveredOnlyFromShipping(t *testing.T) {
	now := time.Now()

	// Fully paid but still confirmed: delivery must wait for shipping
	p := newTestPreorder(models.PreorderStatusConfirmed)
	require.Nil(t, MarkPaidInFull(p))
	err := AdvancePreorder(p, models.PreorderStatusDelivered, now)
	require.NotNil(t, err)
	assert.Equal(t, KindInvalidTransition, err.Kind)

	require.Nil(t, AdvancePreorder(p, models.PreorderStatusShipping, now))
	require.Nil(t, AdvancePreorder(p, models.PreorderStatusDelivered, now))
	assert.Equal(t, models.PreorderStatusDelivered, p.Status)
}

func TestAdvancePreorderDeliveredRequiresFullPayment(t *testing.T) {
	p := newTestPreorder(models.PreorderStatusShipping)
	require.Nil(t, MarkDepositPaid(p))

	err := AdvancePreorder(p, models.PreorderStatusDelivered, time.Now())
	require.NotNil(t, err)
	assert.Equal(t, KindInvalidTransition, err.Kind)
	assert.Equal(t, models.PreorderStatusShipping, p.Status)
}

func TestAdvancePreorderSkipStillGatesDeposit(t *testing.T) {
	now := time.Now()

	// A forward jump straight to shipping must not bypass the deposit check
	p := newTestPreorder(models.PreorderStatusPendingPayment)
	err := AdvancePreorder(p, models.PreorderStatusShipping, now)
	require.NotNil(t, err)
	assert.Equal(t, KindInvalidTransition, err.Kind)
	assert.Equal(t, models.PreorderStatusPendingPayment, p.Status)

	require.Nil(t, MarkDepositPaid(p))
	require.Nil(t, AdvancePreorder(p, models.PreorderStatusShipping, now))
	assert.Equal(t, models.PreorderStatusShipping, p.Status)
}

func TestAdvancePreorderNeverBackward(t *testing.T) {
	p := newTestPreorder(models.PreorderStatusShipping)
	err := AdvancePreorder(p, models.PreorderStatusConfirmed, time.Now())
	require.NotNil(t, err)
	assert.Equal(t, KindInvalidTransition, err.Kind)
}

func TestAdvancePreorderCancelledIsNotATarget(t *testing.T) {
	p := newTestPreorder(models.PreorderStatusConfirmed)
	err := AdvancePreorder(p, models.PreorderStatusCancelled, time.Now())
	require.NotNil(t, err)
	assert.Equal(t, KindInvalidTransition, err.Kind)

	p.Status = models.PreorderStatusCancelled
	err = AdvancePreorder(p, models.PreorderStatusShipping, time.Now())
	require.NotNil(t, err)
	assert.Equal(t, KindInvalidTransition, err.Kind)
}

func TestCancelPreorderByCustomer(t *testing.T) {
	now := time.Now()

	p := newTestPreorder(models.PreorderStatusPendingPayment)
	require.Nil(t, CancelPreorder(p, "changed my mind", true, now))
	assert.Equal(t, models.PreorderStatusCancelled, p.Status)
	assert.Equal(t, "changed my mind", p.CancelReason)
	require.NotNil(t, p.CancelledAt)

	// Once confirmed, only the admin can cancel
	p = newTestPreorder(models.PreorderStatusConfirmed)
	err := CancelPreorder(p, "", true, now)
	require.NotNil(t, err)
	assert.Equal(t, KindForbidden, err.Kind)

	require.Nil(t, CancelPreorder(p, "crop failed", false, now))
	assert.Equal(t, models.PreorderStatusCancelled, p.Status)
}

func TestCancelPreorderTerminalStates(t *testing.T) {
	now := time.Now()

	p := newTestPreorder(models.PreorderStatusDelivered)
	err := CancelPreorder(p, "", false, now)
	require.NotNil(t, err)
	assert.Equal(t, KindInvalidTransition, err.Kind)

	p = newTestPreorder(models.PreorderStatusCancelled)
	err = CancelPreorder(p, "", false, now)
	require.NotNil(t, err)
	assert.Equal(t, KindInvalidTransition, err.Kind)
}

func TestMarkDepositPaidIdempotent(t *testing.T) {
	p := newTestPreorder(models.PreorderStatusPendingPayment)
	require.Nil(t, MarkDepositPaid(p))
	assert.Equal(t, int64(20_000), p.DepositPaid)
	assert.Equal(t, int64(80_000), p.RemainingDue)

	require.Nil(t, MarkDepositPaid(p))
	assert.Equal(t, int64(20_000), p.DepositPaid)

	// An overcollected preorder is never clawed back
	p.DepositPaid = 30_000
	require.Nil(t, MarkDepositPaid(p))
	assert.Equal(t, int64(30_000), p.DepositPaid)
}

func TestMarkPaidInFull(t *testing.T) {
	p := newTestPreorder(models.PreorderStatusConfirmed)
	p.FeesAdjust = 2_000
	require.Nil(t, MarkPaidInFull(p))
	assert.Equal(t, int64(102_000), p.DepositPaid)
	assert.Equal(t, int64(0), p.RemainingDue)
	assert.True(t, IsPaidInFull(p))
}

func TestApplyPaymentBounds(t *testing.T) {
	p := newTestPreorder(models.PreorderStatusPendingPayment)

	err := ApplyPayment(p, 0)
	require.NotNil(t, err)
	assert.Equal(t, KindInvalidAmount, err.Kind)

	require.Nil(t, ApplyPayment(p, 20_000))
	assert.Equal(t, int64(20_000), p.DepositPaid)
	assert.Equal(t, int64(80_000), p.RemainingDue)

	err = ApplyPayment(p, 80_001)
	require.NotNil(t, err)
	assert.Equal(t, KindInvalidAmount, err.Kind)

	require.Nil(t, ApplyPayment(p, 80_000))
	assert.True(t, IsPaidInFull(p))
}

func TestEditPreorderRederivesMoney(t *testing.T) {
	p := newTestPreorder(models.PreorderStatusPendingPayment)

	pct := 50
	require.Nil(t, EditPreorder(p, PreorderEdit{DepositPercent: &pct}))
	assert.Equal(t, int64(50_000), p.DepositDue)

	fees := int64(-10_000)
	require.Nil(t, EditPreorder(p, PreorderEdit{FeesAdjust: &fees}))
	assert.Equal(t, int64(90_000), p.RemainingDue)
}

func TestEditPreorderRejectsBadInputs(t *testing.T) {
	p := newTestPreorder(models.PreorderStatusConfirmed)
	require.Nil(t, MarkDepositPaid(p))

	pct := 101
	err := EditPreorder(p, PreorderEdit{DepositPercent: &pct})
	require.NotNil(t, err)
	assert.Equal(t, KindInvalidAmount, err.Kind)

	// A discount may not drop the total below what was already collected
	fees := int64(-90_000)
	err = EditPreorder(p, PreorderEdit{FeesAdjust: &fees})
	require.NotNil(t, err)
	assert.Equal(t, KindInvalidAmount, err.Kind)
}

func newReturnRequest() ReturnRequest {
	return ReturnRequest{
		Reason:     "bruised on arrival",
		Phone:      "+919845012345",
		Resolution: models.ReturnResolutionRefund,
		Evidence:   []string{"https://cdn.orchardkart.in/evidence/1.jpg"},
	}
}

func TestRequestReturnEligibility(t *testing.T) {
	now := time.Now()

	p := newTestPreorder(models.PreorderStatusShipping)
	_, err := RequestReturn(p, newReturnRequest(), "delivered", now)
	require.NotNil(t, err)
	assert.Equal(t, KindInvalidTransition, err.Kind)

	// The relaxed policy admits shipping preorders
	flow, err := RequestReturn(p, newReturnRequest(), "shipping", now)
	require.Nil(t, err)
	assert.Equal(t, models.ReturnStatusRequested, flow.Status)

	p = newTestPreorder(models.PreorderStatusDelivered)
	flow, err = RequestReturn(p, newReturnRequest(), "delivered", now)
	require.Nil(t, err)
	assert.Equal(t, models.ReturnStatusRequested, flow.Status)
	assert.Equal(t, now, flow.RequestedAt)
}

func TestRequestReturnOnlyOneOpen(t *testing.T) {
	now := time.Now()
	p := newTestPreorder(models.PreorderStatusDelivered)

	_, err := RequestReturn(p, newReturnRequest(), "delivered", now)
	require.Nil(t, err)

	_, err = RequestReturn(p, newReturnRequest(), "delivered", now)
	require.NotNil(t, err)
	assert.Equal(t, KindInvalidTransition, err.Kind)
}

func TestRequestReturnAfterRejection(t *testing.T) {
	now := time.Now()
	p := newTestPreorder(models.PreorderStatusDelivered)

	flow, err := RequestReturn(p, newReturnRequest(), "delivered", now)
	require.Nil(t, err)
	require.Nil(t, RejectReturn(flow, "not our produce", now))

	// A rejected return closes the flow; the customer may try again
	_, err = RequestReturn(p, newReturnRequest(), "delivered", now)
	require.Nil(t, err)
}

func TestRequestReturnBlockedAfterRefund(t *testing.T) {
	now := time.Now()
	p := newTestPreorder(models.PreorderStatusDelivered)
	p.Returns = append(p.Returns, models.ReturnFlow{
		PreorderID: p.ID,
		Status:     models.ReturnStatusRefundIssued,
	})

	_, err := RequestReturn(p, newReturnRequest(), "delivered", now)
	require.NotNil(t, err)
	assert.Equal(t, KindInvalidTransition, err.Kind)
}

func TestRequestReturnBadResolution(t *testing.T) {
	p := newTestPreorder(models.PreorderStatusDelivered)
	req := newReturnRequest()
	req.Resolution = "store_credit"
	_, err := RequestReturn(p, req, "delivered", time.Now())
	require.NotNil(t, err)
	assert.Equal(t, KindInvalidAmount, err.Kind)
}

func TestApproveReturnFeeBounds(t *testing.T) {
	now := time.Now()
	collected := int64(20_000)

	flow := &models.ReturnFlow{Status: models.ReturnStatusRequested}
	err := ApproveReturn(flow, -1, "", "", collected, now)
	require.NotNil(t, err)
	assert.Equal(t, KindInvalidAmount, err.Kind)

	err = ApproveReturn(flow, 20_001, "", "", collected, now)
	require.NotNil(t, err)
	assert.Equal(t, KindInvalidAmount, err.Kind)

	require.Nil(t, ApproveReturn(flow, 5_000, "BlueDart", "BD123", collected, now))
	assert.Equal(t, models.ReturnStatusApproved, flow.Status)
	assert.Equal(t, int64(5_000), flow.FeeDeduction)
	assert.Equal(t, "BlueDart", flow.Carrier)

	// Approval is single-shot
	err = ApproveReturn(flow, 0, "", "", collected, now)
	require.NotNil(t, err)
	assert.Equal(t, KindInvalidTransition, err.Kind)
}

func TestReturnShippingOneStepAtATime(t *testing.T) {
	now := time.Now()
	flow := &models.ReturnFlow{Status: models.ReturnStatusApproved}

	// Skipping ahead is refused
	err := AdvanceReturnShipping(flow, models.ReturnStatusReceived, "", "", now)
	require.NotNil(t, err)
	assert.Equal(t, KindInvalidTransition, err.Kind)

	steps := []string{
		models.ReturnStatusAwaitingPickup,
		models.ReturnStatusPickedUp,
		models.ReturnStatusInTransit,
		models.ReturnStatusReceived,
	}
	for _, step := range steps {
		require.Nil(t, AdvanceReturnShipping(flow, step, "", "", now))
		assert.Equal(t, step, flow.Status)
	}

	// And never backward
	err = AdvanceReturnShipping(flow, models.ReturnStatusInTransit, "", "", now)
	require.NotNil(t, err)
	assert.Equal(t, KindInvalidTransition, err.Kind)
}

func TestIssueRefundBounds(t *testing.T) {
	now := time.Now()
	collected := int64(20_000)

	flow := &models.ReturnFlow{Status: models.ReturnStatusReceived, FeeDeduction: 5_000}

	err := IssueRefund(flow, 16_000, "", collected, now)
	require.NotNil(t, err)
	assert.Equal(t, KindInvalidAmount, err.Kind)

	err = IssueRefund(flow, -1, "", collected, now)
	require.NotNil(t, err)
	assert.Equal(t, KindInvalidAmount, err.Kind)

	require.Nil(t, IssueRefund(flow, 15_000, "deposit minus pickup fee", collected, now))
	assert.Equal(t, models.ReturnStatusRefundIssued, flow.Status)
	assert.Equal(t, int64(15_000), flow.RefundAmount)
}

func TestIssueRefundOnlyWhenReceived(t *testing.T) {
	flow := &models.ReturnFlow{Status: models.ReturnStatusInTransit}
	err := IssueRefund(flow, 1_000, "", 20_000, time.Now())
	require.NotNil(t, err)
	assert.Equal(t, KindInvalidTransition, err.Kind)
}
