package utils

import (
	"fmt"
	"sort"
	"strings"

	"github.com/karthik-739/OrchardKart/models"
	"gorm.io/gorm"
)

// Quota allocation for preorders. SoldPreorder is mutated only here, and
// only via conditional updates, so two racing reservations for the last
// slot resolve to exactly one winner inside the database.

// NormalizeVariantKey builds the canonical pool key for a set of variant
// attributes: trimmed, lowercased k=v pairs sorted by key and joined with
// "|". Attribute order never matters. An empty set maps to the
// product-level pool (empty key).
func NormalizeVariantKey(attrs map[string]string) string {
	if len(attrs) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(attrs))
	for k, v := range attrs {
		k = strings.ToLower(strings.TrimSpace(k))
		v = strings.ToLower(strings.TrimSpace(v))
		if k == "" || v == "" {
			continue
		}
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "|")
}

// ReserveQuota consumes qty slots from the product/variant pool. The
// increment only happens when enough slots remain, in a single
// conditional UPDATE, so it is safe under concurrent attempts. Returns
// the remaining count after the reservation.
func ReserveQuota(tx *gorm.DB, productID uint, variantKey string, qty int) (int, error) {
	if qty < 1 {
		return 0, InvalidAmountError("quantity must be at least 1")
	}

	res := tx.Model(&models.PreorderQuota{}).
		Where("product_id = ? AND variant_key = ? AND sold_preorder + ? <= quota", productID, variantKey, qty).
		UpdateColumn("sold_preorder", gorm.Expr("sold_preorder + ?", qty))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 1 {
		var quota models.PreorderQuota
		if err := tx.Where("product_id = ? AND variant_key = ?", productID, variantKey).First(&quota).Error; err != nil {
			return 0, err
		}
		return quota.Remaining(), nil
	}

	// Nothing updated: either the pool is exhausted or it was never set up.
	var quota models.PreorderQuota
	if err := tx.Where("product_id = ? AND variant_key = ?", productID, variantKey).First(&quota).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, QuotaExceededError("no preorder quota configured for this product variant")
		}
		return 0, err
	}
	return 0, QuotaExceededError(fmt.Sprintf("only %d preorder slots remaining", quota.Remaining()))
}

// ReleaseQuota returns qty slots to the pool, flooring the counter at
// zero. Callers guard against double release with the preorder's
// QuotaReleased flag; the floor here only protects the counter itself.
func ReleaseQuota(tx *gorm.DB, productID uint, variantKey string, qty int) error {
	if qty < 1 {
		return nil
	}
	return tx.Model(&models.PreorderQuota{}).
		Where("product_id = ? AND variant_key = ?", productID, variantKey).
		UpdateColumn("sold_preorder", gorm.Expr("GREATEST(sold_preorder - ?, 0)", qty)).Error
}

// QuotaRemaining reads the remaining slots for a pool. Zero when the pool
// does not exist.
func QuotaRemaining(tx *gorm.DB, productID uint, variantKey string) (int, error) {
	var quota models.PreorderQuota
	if err := tx.Where("product_id = ? AND variant_key = ?", productID, variantKey).First(&quota).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, err
	}
	return quota.Remaining(), nil
}
