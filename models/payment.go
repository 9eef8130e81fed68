package models

import (
	"time"
)

// Payment record status constants
const (
	PaymentStatusInitiated = "initiated"
	PaymentStatusPaid      = "paid"
	PaymentStatusFailed    = "failed"
)

// What a payment was collected for
const (
	PaymentPurposeDeposit = "deposit"
	PaymentPurposeBalance = "balance"
)

// PreorderPayment records one gateway payment attempt against a preorder.
// Verified amounts are applied to the preorder's DepositPaid running total.
type PreorderPayment struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	PreorderID        uint      `gorm:"index" json:"preorder_id"`
	Amount            int64     `json:"amount"`
	Purpose           string    `json:"purpose"`
	Status            string    `json:"status"`
	RazorpayOrderID   string    `gorm:"index" json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID string    `json:"razorpay_payment_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
