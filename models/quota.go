package models

import "gorm.io/gorm"

// PreorderQuota holds the reservation counters for one product pool. A row
// with an empty VariantKey is the product-level pool; products that track
// discrete variants get one row per normalized variant key.
//
// SoldPreorder is only ever mutated through the quota helpers in utils,
// via conditional updates, never assigned directly.
type PreorderQuota struct {
	gorm.Model
	ProductID    uint   `gorm:"uniqueIndex:idx_quota_product_variant" json:"product_id"`
	VariantKey   string `gorm:"uniqueIndex:idx_quota_product_variant" json:"variant_key"`
	Quota        int    `json:"quota"`
	SoldPreorder int    `json:"sold_preorder"`
}

// Remaining returns the open reservation slots, floored at zero.
func (q *PreorderQuota) Remaining() int {
	remaining := q.Quota - q.SoldPreorder
	if remaining < 0 {
		return 0
	}
	return remaining
}
