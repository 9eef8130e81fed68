package models

import (
	"time"
)

// Preorder status constants. Statuses only ever move forward through this
// list, except for the explicit escape to cancelled.
const (
	PreorderStatusPendingPayment = "pending_payment"
	PreorderStatusConfirmed      = "confirmed"
	PreorderStatusShipping       = "shipping"
	PreorderStatusDelivered      = "delivered"
	PreorderStatusCancelled      = "cancelled"
)

// preorderStatusRank orders the forward sequence. Cancelled has no rank.
var preorderStatusRank = map[string]int{
	PreorderStatusPendingPayment: 0,
	PreorderStatusConfirmed:      1,
	PreorderStatusShipping:       2,
	PreorderStatusDelivered:      3,
}

// PreorderStatusRank returns the forward-sequence rank of a status.
func PreorderStatusRank(status string) (int, bool) {
	rank, ok := preorderStatusRank[status]
	return rank, ok
}

// CanAdvancePreorder reports whether a status change is a legal forward
// step. Any strictly later rank is allowed; skipping backward never is.
func CanAdvancePreorder(from, to string) bool {
	fromRank, ok := preorderStatusRank[from]
	if !ok {
		return false
	}
	toRank, ok := preorderStatusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// CanCancelPreorder reports whether a preorder in the given status may
// still be cancelled. Delivered and already-cancelled preorders may not.
func CanCancelPreorder(from string) bool {
	switch from {
	case PreorderStatusPendingPayment, PreorderStatusConfirmed, PreorderStatusShipping:
		return true
	}
	return false
}

// Preorder is one customer's deposit-backed reservation of a product
// variant. All money fields are in the smallest currency unit (paise).
// The return flows are part of the same aggregate and always loaded with it.
type Preorder struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"uniqueIndex;not null" json:"code"`
	UserID    uint      `json:"user_id"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
	ProductID uint      `json:"product_id"`
	Product   Product   `json:"-" gorm:"foreignKey:ProductID"`
	VariantID *uint     `json:"variant_id,omitempty"`

	VariantLabel string `json:"variant_label"`
	VariantKey   string `json:"variant_key"`
	Qty          int    `json:"qty"`

	UnitPrice      int64 `json:"unit_price"`
	Subtotal       int64 `json:"subtotal"`
	DepositPercent int   `json:"deposit_percent"`
	DepositDue     int64 `json:"deposit_due"`
	DepositPaid    int64 `json:"deposit_paid"`
	FeesAdjust     int64 `json:"fees_adjust"`
	RemainingDue   int64 `json:"remaining_due"`

	Status        string `json:"status"`
	CancelReason  string `json:"cancel_reason,omitempty"`
	CustomerNote  string `json:"customer_note,omitempty"`
	InternalNote  string `json:"-"`
	QuotaReleased bool   `json:"-"`

	// Version guards concurrent updates; every successful save bumps it.
	Version int64 `json:"-" gorm:"default:1"`

	Returns []ReturnFlow `json:"returns,omitempty" gorm:"foreignKey:PreorderID"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	ShippedAt   *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

// ActiveReturn returns the open (non-terminal) return flow, if any.
func (p *Preorder) ActiveReturn() *ReturnFlow {
	for i := range p.Returns {
		if !IsTerminalReturnStatus(p.Returns[i].Status) {
			return &p.Returns[i]
		}
	}
	return nil
}

// RefundIssued reports whether any return flow on this preorder has
// already ended in an issued refund.
func (p *Preorder) RefundIssued() bool {
	for i := range p.Returns {
		if p.Returns[i].Status == ReturnStatusRefundIssued {
			return true
		}
	}
	return false
}

// markStatusTimestamp records the timeline entry for a transition target.
func (p *Preorder) markStatusTimestamp(status string, at time.Time) {
	switch status {
	case PreorderStatusConfirmed:
		p.ConfirmedAt = &at
	case PreorderStatusShipping:
		p.ShippedAt = &at
	case PreorderStatusDelivered:
		p.DeliveredAt = &at
	case PreorderStatusCancelled:
		p.CancelledAt = &at
	}
}

// SetStatus moves the preorder to the given status and stamps the
// transition time. Guard checks belong to the caller.
func (p *Preorder) SetStatus(status string, at time.Time) {
	p.Status = status
	p.markStatusTimestamp(status, at)
}
