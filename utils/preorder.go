package utils

import (
	"fmt"
	"time"

	"github.com/karthik-739/OrchardKart/models"
	"gorm.io/gorm"
)

// Lifecycle guards for the preorder state machine and its return
// sub-flow. These functions validate and apply transitions on the loaded
// aggregate in memory; persisting the result goes through SavePreorder,
// which carries the optimistic version check.

// AdvancePreorder applies an admin forward transition. Forward jumps are
// legal when the target ranks strictly later, except delivered, which
// must be entered from shipping with the balance fully paid.
func AdvancePreorder(p *models.Preorder, target string, at time.Time) *LifecycleError {
	if p.Status == models.PreorderStatusCancelled {
		return InvalidTransitionError("preorder is cancelled", p.Status)
	}
	if target == models.PreorderStatusCancelled {
		return InvalidTransitionError("use the cancel action to cancel a preorder", p.Status)
	}
	if !models.CanAdvancePreorder(p.Status, target) {
		return InvalidTransitionError(fmt.Sprintf("cannot move from %s to %s", p.Status, target), p.Status)
	}

	// Every legal target ranks at or past confirmed, so a forward jump
	// can never skip the deposit gate.
	if !IsDepositSatisfied(p) {
		return InvalidTransitionError("deposit has not been paid in full", p.Status)
	}
	if target == models.PreorderStatusDelivered {
		if p.Status != models.PreorderStatusShipping {
			return InvalidTransitionError("preorder must be shipping before delivery", p.Status)
		}
		if !IsPaidInFull(p) {
			return InvalidTransitionError("remaining balance has not been paid", p.Status)
		}
	}

	p.SetStatus(target, at)
	return nil
}

// CancelPreorder applies a cancellation. Customers may only cancel their
// own preorder while it still awaits payment; admins may cancel any
// non-delivered preorder.
func CancelPreorder(p *models.Preorder, reason string, byCustomer bool, at time.Time) *LifecycleError {
	if p.Status == models.PreorderStatusCancelled {
		return InvalidTransitionError("preorder is already cancelled", p.Status)
	}
	if !models.CanCancelPreorder(p.Status) {
		return InvalidTransitionError("delivered preorders cannot be cancelled", p.Status)
	}
	if byCustomer && p.Status != models.PreorderStatusPendingPayment {
		return ForbiddenLifecycleError("only preorders awaiting payment can be cancelled by the customer", p.Status)
	}

	p.CancelReason = reason
	p.SetStatus(models.PreorderStatusCancelled, at)
	return nil
}

// MarkDepositPaid raises the collected amount to the deposit due.
// Idempotent: already-satisfied deposits are left untouched.
func MarkDepositPaid(p *models.Preorder) *LifecycleError {
	if p.DepositPaid < p.DepositDue {
		p.DepositPaid = p.DepositDue
	}
	return RecalcPreorder(p)
}

// MarkPaidInFull raises the collected amount to the full adjusted
// subtotal. Idempotent.
func MarkPaidInFull(p *models.Preorder) *LifecycleError {
	p.DepositPaid = p.Subtotal + p.FeesAdjust
	return RecalcPreorder(p)
}

// ApplyPayment adds a verified gateway payment to the collected total.
func ApplyPayment(p *models.Preorder, amount int64) *LifecycleError {
	if amount <= 0 {
		return InvalidAmountError("payment amount must be positive")
	}
	if p.DepositPaid+amount > p.Subtotal+p.FeesAdjust {
		return InvalidAmountError("payment exceeds the amount owed")
	}
	p.DepositPaid += amount
	return RecalcPreorder(p)
}

// PreorderEdit carries the admin-editable fields. Nil means unchanged.
type PreorderEdit struct {
	DepositPercent *int
	FeesAdjust     *int64
	InternalNote   *string
	CustomerNote   *string
}

// EditPreorder applies an admin edit and re-derives the dependent money
// fields. An edit may never push the collected amount above the adjusted
// subtotal.
func EditPreorder(p *models.Preorder, edit PreorderEdit) *LifecycleError {
	if edit.DepositPercent != nil {
		if *edit.DepositPercent < 0 || *edit.DepositPercent > 100 {
			return InvalidAmountError("deposit percent must be between 0 and 100")
		}
		p.DepositPercent = *edit.DepositPercent
	}
	if edit.FeesAdjust != nil {
		if p.Subtotal+*edit.FeesAdjust < p.DepositPaid {
			return InvalidAmountError("fees adjustment cannot drop the total below the amount already collected")
		}
		p.FeesAdjust = *edit.FeesAdjust
	}
	if edit.InternalNote != nil {
		p.InternalNote = *edit.InternalNote
	}
	if edit.CustomerNote != nil {
		p.CustomerNote = *edit.CustomerNote
	}
	return RecalcPreorder(p)
}

// ReturnRequest carries the customer-submitted return fields.
type ReturnRequest struct {
	Reason     string
	Note       string
	Phone      string
	Resolution string
	Evidence   []string
}

// returnEligible checks the parent status against the configured policy.
func returnEligible(status, policy string) bool {
	if status == models.PreorderStatusDelivered {
		return true
	}
	return policy == "shipping" && status == models.PreorderStatusShipping
}

// RequestReturn opens a return flow on the preorder. Only one return may
// be open at a time, and a preorder whose refund was already issued
// cannot be returned again.
func RequestReturn(p *models.Preorder, req ReturnRequest, policy string, at time.Time) (*models.ReturnFlow, *LifecycleError) {
	if !returnEligible(p.Status, policy) {
		return nil, InvalidTransitionError("preorder is not eligible for return", p.Status)
	}
	if open := p.ActiveReturn(); open != nil {
		return nil, InvalidTransitionError("a return is already open for this preorder", open.Status)
	}
	if p.RefundIssued() {
		return nil, InvalidTransitionError("a refund has already been issued for this preorder", p.Status)
	}
	if req.Resolution != models.ReturnResolutionRefund && req.Resolution != models.ReturnResolutionExchange {
		return nil, InvalidAmountError("resolution must be refund or exchange")
	}

	flow := &models.ReturnFlow{
		PreorderID:   p.ID,
		Status:       models.ReturnStatusRequested,
		Reason:       req.Reason,
		CustomerNote: req.Note,
		Phone:        req.Phone,
		Resolution:   req.Resolution,
		RequestedAt:  at,
	}
	if err := flow.SetEvidenceImages(req.Evidence); err != nil {
		return nil, InvalidAmountError("invalid evidence images")
	}
	p.Returns = append(p.Returns, *flow)
	return &p.Returns[len(p.Returns)-1], nil
}

// ApproveReturn moves a requested return to approved, recording the fee
// deduction that shrinks the refundable base.
func ApproveReturn(flow *models.ReturnFlow, feeDeduction int64, carrier, trackingCode string, collected int64, at time.Time) *LifecycleError {
	if flow.Status != models.ReturnStatusRequested {
		return InvalidTransitionError("only a requested return can be approved", flow.Status)
	}
	if feeDeduction < 0 {
		return InvalidAmountError("fee deduction cannot be negative")
	}
	if feeDeduction > collected {
		return InvalidAmountError("fee deduction cannot exceed the amount collected")
	}

	flow.FeeDeduction = feeDeduction
	if carrier != "" {
		flow.Carrier = carrier
	}
	if trackingCode != "" {
		flow.TrackingCode = trackingCode
	}
	flow.SetStatus(models.ReturnStatusApproved, at)
	return nil
}

// RejectReturn closes a requested return with a note. No money changes.
func RejectReturn(flow *models.ReturnFlow, note string, at time.Time) *LifecycleError {
	if flow.Status != models.ReturnStatusRequested {
		return InvalidTransitionError("only a requested return can be rejected", flow.Status)
	}
	flow.AdminNote = note
	flow.SetStatus(models.ReturnStatusRejected, at)
	return nil
}

// AdvanceReturnShipping moves the reverse shipment one step forward,
// optionally updating carrier and tracking.
func AdvanceReturnShipping(flow *models.ReturnFlow, target, carrier, trackingCode string, at time.Time) *LifecycleError {
	if !models.IsReturnShippingStatus(target) {
		return InvalidTransitionError(fmt.Sprintf("%s is not a return shipping status", target), flow.Status)
	}
	if !models.CanAdvanceReturnShipping(flow.Status, target) {
		return InvalidTransitionError(fmt.Sprintf("cannot move return from %s to %s", flow.Status, target), flow.Status)
	}

	if carrier != "" {
		flow.Carrier = carrier
	}
	if trackingCode != "" {
		flow.TrackingCode = trackingCode
	}
	flow.SetStatus(target, at)
	return nil
}

// IssueRefund closes a received return by setting the refund amount.
// The amount is bounded by the money actually collected minus the fee
// deduction, and this is the only transition that sets it.
func IssueRefund(flow *models.ReturnFlow, amount int64, note string, collected int64, at time.Time) *LifecycleError {
	if flow.Status != models.ReturnStatusReceived {
		return InvalidTransitionError("refund can only be issued once the return is received", flow.Status)
	}
	if amount < 0 {
		return InvalidAmountError("refund amount cannot be negative")
	}
	if amount > collected-flow.FeeDeduction {
		return InvalidAmountError(fmt.Sprintf("refund cannot exceed %d (collected minus fee deduction)", collected-flow.FeeDeduction))
	}

	flow.RefundAmount = amount
	flow.RefundNote = note
	flow.SetStatus(models.ReturnStatusRefundIssued, at)
	return nil
}

// SettleVerifiedPayment marks a gateway payment row as paid and applies
// its amount to the preorder's collected total, inside the caller's
// transaction. The row update is conditional on the payment still being
// initiated; a zero-row match means a racing request already settled it,
// in which case nothing is applied and applied reports false.
func SettleVerifiedPayment(tx *gorm.DB, p *models.Preorder, payment *models.PreorderPayment, gatewayPaymentID string) (bool, error) {
	res := tx.Model(&models.PreorderPayment{}).
		Where("id = ? AND status = ?", payment.ID, models.PaymentStatusInitiated).
		Updates(map[string]interface{}{
			"status":              models.PaymentStatusPaid,
			"razorpay_payment_id": gatewayPaymentID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	if lerr := ApplyPayment(p, payment.Amount); lerr != nil {
		return false, lerr
	}
	return true, nil
}

// SavePreorder persists the mutable preorder columns guarded by the
// optimistic version check. Two concurrent writers loading the same
// version cannot both succeed; the loser gets a conflict and must reload.
func SavePreorder(tx *gorm.DB, p *models.Preorder) error {
	expected := p.Version
	p.Version = expected + 1

	res := tx.Model(&models.Preorder{}).
		Where("id = ? AND version = ?", p.ID, expected).
		Updates(map[string]interface{}{
			"status":          p.Status,
			"subtotal":        p.Subtotal,
			"deposit_percent": p.DepositPercent,
			"deposit_due":     p.DepositDue,
			"deposit_paid":    p.DepositPaid,
			"fees_adjust":     p.FeesAdjust,
			"remaining_due":   p.RemainingDue,
			"cancel_reason":   p.CancelReason,
			"customer_note":   p.CustomerNote,
			"internal_note":   p.InternalNote,
			"quota_released":  p.QuotaReleased,
			"confirmed_at":    p.ConfirmedAt,
			"shipped_at":      p.ShippedAt,
			"delivered_at":    p.DeliveredAt,
			"cancelled_at":    p.CancelledAt,
			"version":         p.Version,
		})
	if res.Error != nil {
		p.Version = expected
		return res.Error
	}
	if res.RowsAffected == 0 {
		p.Version = expected
		return ConflictLostError("preorder was modified concurrently, reload and retry")
	}
	return nil
}
