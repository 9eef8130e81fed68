package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanAdvancePreorder(t *testing.T) {
	// Any strictly later rank is a legal forward step
	assert.True(t, CanAdvancePreorder(PreorderStatusPendingPayment, PreorderStatusConfirmed))
	assert.True(t, CanAdvancePreorder(PreorderStatusPendingPayment, PreorderStatusShipping))
	assert.True(t, CanAdvancePreorder(PreorderStatusConfirmed, PreorderStatusDelivered))

	// Backward and same-status never are
	assert.False(t, CanAdvancePreorder(PreorderStatusShipping, PreorderStatusConfirmed))
	assert.False(t, CanAdvancePreorder(PreorderStatusConfirmed, PreorderStatusConfirmed))

	// Cancelled has no rank on either side
	assert.False(t, CanAdvancePreorder(PreorderStatusCancelled, PreorderStatusShipping))
	assert.False(t, CanAdvancePreorder(PreorderStatusConfirmed, PreorderStatusCancelled))
	assert.False(t, CanAdvancePreorder("unknown", PreorderStatusConfirmed))
}

func TestCanCancelPreorder(t *testing.T) {
	assert.True(t, CanCancelPreorder(PreorderStatusPendingPayment))
	assert.True(t, CanCancelPreorder(PreorderStatusConfirmed))
	assert.True(t, CanCancelPreorder(PreorderStatusShipping))
	assert.False(t, CanCancelPreorder(PreorderStatusDelivered))
	assert.False(t, CanCancelPreorder(PreorderStatusCancelled))
}

func TestSetStatusStampsTimeline(t *testing.T) {
	now := time.Now()
	p := &Preorder{Status: PreorderStatusConfirmed}

	p.SetStatus(PreorderStatusShipping, now)
	assert.Equal(t, PreorderStatusShipping, p.Status)
	require.NotNil(t, p.ShippedAt)
	assert.Equal(t, now, *p.ShippedAt)
	assert.Nil(t, p.DeliveredAt)
}

func TestActiveReturn(t *testing.T) {
	p := &Preorder{}
	assert.Nil(t, p.ActiveReturn())

	p.Returns = append(p.Returns, ReturnFlow{ID: 1, Status: ReturnStatusRejected})
	assert.Nil(t, p.ActiveReturn())

	p.Returns = append(p.Returns, ReturnFlow{ID: 2, Status: ReturnStatusInTransit})
	open := p.ActiveReturn()
	require.NotNil(t, open)
	assert.Equal(t, uint(2), open.ID)
}

func TestRefundIssued(t *testing.T) {
	p := &Preorder{Returns: []ReturnFlow{{Status: ReturnStatusRejected}}}
	assert.False(t, p.RefundIssued())

	p.Returns = append(p.Returns, ReturnFlow{Status: ReturnStatusRefundIssued})
	assert.True(t, p.RefundIssued())
}
