package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuotaRemaining(t *testing.T) {
	q := &PreorderQuota{Quota: 50, SoldPreorder: 12}
	assert.Equal(t, 38, q.Remaining())

	// A shrunk pool never reports negative slots
	q = &PreorderQuota{Quota: 10, SoldPreorder: 15}
	assert.Equal(t, 0, q.Remaining())
}
