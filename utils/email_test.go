package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusEmailBody(t *testing.T) {
	body := statusEmailBody("PRE-ABCD1234", "shipping")
	assert.Equal(t, "<p>Hello,</p><p>Your preorder <b>PRE-ABCD1234</b> is now <b>shipping</b>.</p><p>- OrchardKart</p>", body)
}

func TestRefundEmailBody(t *testing.T) {
	// Amounts are stored in paise and rendered in rupees
	body := refundEmailBody("PRE-ABCD1234", 15_000)
	assert.Equal(t, "<p>Hello,</p><p>A refund of <b>₹150.00</b> for preorder <b>PRE-ABCD1234</b> has been issued.</p><p>- OrchardKart</p>", body)
}

func TestStatusEmailSubjects(t *testing.T) {
	// Only customer-meaningful transitions send mail
	_, ok := statusEmailSubjects["pending_payment"]
	assert.False(t, ok)
	_, ok = statusEmailSubjects["confirmed"]
	assert.True(t, ok)
}
