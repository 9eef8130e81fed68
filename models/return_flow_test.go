package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanAdvanceReturnShipping(t *testing.T) {
	assert.True(t, CanAdvanceReturnShipping(ReturnStatusApproved, ReturnStatusAwaitingPickup))
	assert.True(t, CanAdvanceReturnShipping(ReturnStatusAwaitingPickup, ReturnStatusPickedUp))
	assert.True(t, CanAdvanceReturnShipping(ReturnStatusPickedUp, ReturnStatusInTransit))
	assert.True(t, CanAdvanceReturnShipping(ReturnStatusInTransit, ReturnStatusReceived))

	// No skipping, no going back
	assert.False(t, CanAdvanceReturnShipping(ReturnStatusApproved, ReturnStatusReceived))
	assert.False(t, CanAdvanceReturnShipping(ReturnStatusInTransit, ReturnStatusPickedUp))
	assert.False(t, CanAdvanceReturnShipping(ReturnStatusReceived, ReturnStatusRefundIssued))
	assert.False(t, CanAdvanceReturnShipping(ReturnStatusRequested, ReturnStatusAwaitingPickup))
}

func TestIsReturnShippingStatus(t *testing.T) {
	assert.True(t, IsReturnShippingStatus(ReturnStatusAwaitingPickup))
	assert.True(t, IsReturnShippingStatus(ReturnStatusReceived))
	assert.False(t, IsReturnShippingStatus(ReturnStatusRequested))
	assert.False(t, IsReturnShippingStatus(ReturnStatusApproved))
	assert.False(t, IsReturnShippingStatus(ReturnStatusRefundIssued))
}

func TestIsTerminalReturnStatus(t *testing.T) {
	assert.True(t, IsTerminalReturnStatus(ReturnStatusRejected))
	assert.True(t, IsTerminalReturnStatus(ReturnStatusRefundIssued))
	assert.False(t, IsTerminalReturnStatus(ReturnStatusRequested))
	assert.False(t, IsTerminalReturnStatus(ReturnStatusReceived))
}

func TestEvidenceImagesRoundTrip(t *testing.T) {
	flow := &ReturnFlow{}
	uris := []string{
		"https://cdn.orchardkart.in/evidence/a.jpg",
		"https://cdn.orchardkart.in/evidence/b.jpg",
	}
	require.NoError(t, flow.SetEvidenceImages(uris))
	assert.Equal(t, uris, flow.EvidenceImages())

	empty := &ReturnFlow{}
	assert.Empty(t, empty.EvidenceImages())
}

func TestReturnSetStatusStampsTimeline(t *testing.T) {
	now := time.Now()
	flow := &ReturnFlow{Status: ReturnStatusInTransit}

	flow.SetStatus(ReturnStatusReceived, now)
	assert.Equal(t, ReturnStatusReceived, flow.Status)
	require.NotNil(t, flow.ReceivedAt)
	assert.Equal(t, now, *flow.ReceivedAt)
}
