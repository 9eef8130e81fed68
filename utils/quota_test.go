package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeVariantKey(t *testing.T) {
	key := NormalizeVariantKey(map[string]string{
		"weight":   "1kg",
		"ripeness": "ripe",
	})
	assert.Equal(t, "ripeness=ripe|weight=1kg", key)
}

func TestNormalizeVariantKeyIgnoresOrderCaseAndWhitespace(t *testing.T) {
	base := NormalizeVariantKey(map[string]string{
		"weight":   "1kg",
		"ripeness": "ripe",
	})

	messy := NormalizeVariantKey(map[string]string{
		"Ripeness": "  Ripe ",
		"WEIGHT":   " 1KG",
	})
	assert.Equal(t, base, messy)
}

func TestNormalizeVariantKeyEmpty(t *testing.T) {
	assert.Equal(t, "", NormalizeVariantKey(nil))
	assert.Equal(t, "", NormalizeVariantKey(map[string]string{}))
	// Blank attributes collapse to the product-level pool
	assert.Equal(t, "", NormalizeVariantKey(map[string]string{" ": "x", "weight": "  "}))
}

func TestNormalizeVariantKeyDistinctPools(t *testing.T) {
	ripe := NormalizeVariantKey(map[string]string{"weight": "1kg", "ripeness": "ripe"})
	raw := NormalizeVariantKey(map[string]string{"weight": "1kg", "ripeness": "raw"})
	assert.NotEqual(t, ripe, raw)
}
