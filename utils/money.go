package utils

import (
	"github.com/karthik-739/OrchardKart/models"
)

// Money helpers for the preorder lifecycle. All amounts are int64 in the
// smallest currency unit (paise). Rounding is half away from zero and is
// applied once per derived field, never re-rounded on read.

// roundDiv divides n by d rounding half away from zero. d must be positive.
func roundDiv(n, d int64) int64 {
	half := d / 2
	if n >= 0 {
		return (n + half) / d
	}
	return -((-n + half) / d)
}

// ComputeSubtotal returns unit price times quantity.
func ComputeSubtotal(unitPrice int64, qty int) (int64, *LifecycleError) {
	if qty < 1 {
		return 0, InvalidAmountError("quantity must be at least 1")
	}
	if unitPrice < 0 {
		return 0, InvalidAmountError("unit price cannot be negative")
	}
	return unitPrice * int64(qty), nil
}

// ComputeDepositDue returns the deposit owed for a subtotal at the given
// percent, rounded half away from zero.
func ComputeDepositDue(subtotal int64, depositPercent int) (int64, *LifecycleError) {
	if depositPercent < 0 || depositPercent > 100 {
		return 0, InvalidAmountError("deposit percent must be between 0 and 100")
	}
	return roundDiv(subtotal*int64(depositPercent), 100), nil
}

// ComputeRemainingDue returns the balance still owed, floored at zero.
func ComputeRemainingDue(subtotal, feesAdjust, depositPaid int64) int64 {
	remaining := subtotal + feesAdjust - depositPaid
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsDepositSatisfied reports whether enough has been collected to confirm.
func IsDepositSatisfied(p *models.Preorder) bool {
	return p.DepositPaid >= p.DepositDue
}

// IsPaidInFull reports whether nothing is still owed.
func IsPaidInFull(p *models.Preorder) bool {
	return p.RemainingDue == 0
}

// CollectedAmount is the money actually received for the preorder, the
// base a refund is bounded by.
func CollectedAmount(p *models.Preorder) int64 {
	return p.DepositPaid
}

// RecalcPreorder re-derives all money fields from the stored base inputs
// (unit price, qty, deposit percent, fees adjustment, deposit paid). It
// never changes status, and running it twice with unchanged inputs yields
// unchanged outputs, so admins can trigger it at any time.
func RecalcPreorder(p *models.Preorder) *LifecycleError {
	subtotal, err := ComputeSubtotal(p.UnitPrice, p.Qty)
	if err != nil {
		return err
	}
	depositDue, err := ComputeDepositDue(subtotal, p.DepositPercent)
	if err != nil {
		return err
	}
	p.Subtotal = subtotal
	p.DepositDue = depositDue
	p.RemainingDue = ComputeRemainingDue(p.Subtotal, p.FeesAdjust, p.DepositPaid)
	return nil
}
