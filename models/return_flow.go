package models

import (
	"encoding/json"
	"time"
)

// Return flow status constants
const (
	ReturnStatusRequested      = "return_requested"
	ReturnStatusApproved       = "return_approved"
	ReturnStatusRejected       = "return_rejected"
	ReturnStatusAwaitingPickup = "return_awaiting_pickup"
	ReturnStatusPickedUp       = "return_picked_up"
	ReturnStatusInTransit      = "return_in_transit"
	ReturnStatusReceived       = "return_received"
	ReturnStatusRefundIssued   = "refund_issued"
)

// Preferred resolutions a customer may ask for
const (
	ReturnResolutionRefund   = "refund"
	ReturnResolutionExchange = "exchange"
)

// returnShippingNext maps each reverse-shipment status to the single
// status that may follow it. One step at a time, never backward.
var returnShippingNext = map[string]string{
	ReturnStatusApproved:       ReturnStatusAwaitingPickup,
	ReturnStatusAwaitingPickup: ReturnStatusPickedUp,
	ReturnStatusPickedUp:       ReturnStatusInTransit,
	ReturnStatusInTransit:      ReturnStatusReceived,
}

// CanAdvanceReturnShipping reports whether to is the one legal shipping
// step after from.
func CanAdvanceReturnShipping(from, to string) bool {
	return returnShippingNext[from] == to
}

// IsReturnShippingStatus reports whether the status belongs to the
// reverse-shipment chain (a valid target for a shipping update).
func IsReturnShippingStatus(status string) bool {
	switch status {
	case ReturnStatusAwaitingPickup, ReturnStatusPickedUp, ReturnStatusInTransit, ReturnStatusReceived:
		return true
	}
	return false
}

// IsTerminalReturnStatus reports whether a return flow is closed.
func IsTerminalReturnStatus(status string) bool {
	return status == ReturnStatusRejected || status == ReturnStatusRefundIssued
}

// ReturnFlow tracks one return/refund request on a preorder. Money fields
// are in the smallest currency unit. Timeline timestamps are append-only:
// each is written exactly once, at its transition.
type ReturnFlow struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	PreorderID uint   `gorm:"index" json:"preorder_id"`
	Status     string `json:"status"`

	Reason       string `json:"reason"`
	CustomerNote string `json:"customer_note,omitempty"`
	Phone        string `json:"phone"`
	Resolution   string `json:"resolution"`
	Evidence     string `gorm:"type:text" json:"-"`

	AdminNote    string `json:"-"`
	FeeDeduction int64  `json:"fee_deduction"`
	RefundAmount int64  `json:"refund_amount"`
	RefundNote   string `json:"refund_note,omitempty"`
	Carrier      string `json:"carrier,omitempty"`
	TrackingCode string `json:"tracking_code,omitempty"`

	RequestedAt      time.Time  `json:"requested_at"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
	RejectedAt       *time.Time `json:"rejected_at,omitempty"`
	AwaitingPickupAt *time.Time `json:"awaiting_pickup_at,omitempty"`
	PickedUpAt       *time.Time `json:"picked_up_at,omitempty"`
	InTransitAt      *time.Time `json:"in_transit_at,omitempty"`
	ReceivedAt       *time.Time `json:"received_at,omitempty"`
	RefundIssuedAt   *time.Time `json:"refund_issued_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetEvidenceImages stores the evidence image URIs as JSON.
func (r *ReturnFlow) SetEvidenceImages(uris []string) error {
	raw, err := json.Marshal(uris)
	if err != nil {
		return err
	}
	r.Evidence = string(raw)
	return nil
}

// EvidenceImages returns the stored evidence image URIs.
func (r *ReturnFlow) EvidenceImages() []string {
	if r.Evidence == "" {
		return nil
	}
	var uris []string
	if err := json.Unmarshal([]byte(r.Evidence), &uris); err != nil {
		return nil
	}
	return uris
}

// markStatusTimestamp records the timeline entry for a transition target.
func (r *ReturnFlow) markStatusTimestamp(status string, at time.Time) {
	switch status {
	case ReturnStatusApproved:
		r.ApprovedAt = &at
	case ReturnStatusRejected:
		r.RejectedAt = &at
	case ReturnStatusAwaitingPickup:
		r.AwaitingPickupAt = &at
	case ReturnStatusPickedUp:
		r.PickedUpAt = &at
	case ReturnStatusInTransit:
		r.InTransitAt = &at
	case ReturnStatusReceived:
		r.ReceivedAt = &at
	case ReturnStatusRefundIssued:
		r.RefundIssuedAt = &at
	}
}

// SetStatus moves the return flow to the given status and stamps the
// transition time. Guard checks belong to the caller.
func (r *ReturnFlow) SetStatus(status string, at time.Time) {
	r.Status = status
	r.markStatusTimestamp(status, at)
}
