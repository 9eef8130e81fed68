package controllers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/karthik-739/OrchardKart/config"
	"github.com/karthik-739/OrchardKart/models"
	"github.com/karthik-739/OrchardKart/utils"
	"gorm.io/gorm"
)

// GeneratePreorderCode builds the human-readable reference code.
func GeneratePreorderCode() string {
	return "PRE-" + strings.ToUpper(uuid.New().String()[:8])
}

// loadPreorder fetches the full aggregate: the preorder, its product and
// customer, and every return flow. byUser scopes the lookup to the owner.
func loadPreorder(tx *gorm.DB, preorderID uint, byUser *uint) (*models.Preorder, error) {
	query := tx.Preload("Returns").Preload("Product").Preload("User")
	if byUser != nil {
		query = query.Where("user_id = ?", *byUser)
	}
	var preorder models.Preorder
	if err := query.First(&preorder, preorderID).Error; err != nil {
		return nil, err
	}
	return &preorder, nil
}

// updatePreorderAggregate loads the aggregate, applies mutate, and saves
// the preorder under the optimistic version check, all in one
// transaction. A lost version race is retried once against a fresh
// snapshot; a second loss surfaces as a conflict and the caller decides.
//
// mutate may create or update return flow rows through tx; a rollback
// discards those together with the preorder columns, so state, money and
// timeline always commit atomically.
func updatePreorderAggregate(preorderID uint, byUser *uint, mutate func(tx *gorm.DB, p *models.Preorder) error) (*models.Preorder, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		tx := config.DB.Begin()
		if tx.Error != nil {
			return nil, tx.Error
		}

		preorder, err := loadPreorder(tx, preorderID, byUser)
		if err != nil {
			tx.Rollback()
			if err == gorm.ErrRecordNotFound {
				return nil, utils.NotFoundLifecycleError("preorder not found")
			}
			return nil, err
		}

		if err := mutate(tx, preorder); err != nil {
			tx.Rollback()
			return nil, err
		}

		if err := utils.SavePreorder(tx, preorder); err != nil {
			tx.Rollback()
			if utils.IsKind(err, utils.KindConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}

		if err := tx.Commit().Error; err != nil {
			return nil, err
		}
		return preorder, nil
	}
	return nil, lastErr
}

// respondLifecycle routes a helper error to the right response: guard
// failures go out with their stable kind, anything else is a storage
// problem.
func respondLifecycle(c *gin.Context, err error) {
	if le := utils.AsLifecycleError(err); le != nil {
		utils.LifecycleFail(c, le)
		return
	}
	utils.LogError("Storage failure: %v", err)
	utils.InternalServerError(c, "Something went wrong, please try again", nil)
}

// returnResponse shapes one return flow for API output. Admin payloads
// additionally carry the internal note.
func returnResponse(flow *models.ReturnFlow, forAdmin bool) gin.H {
	resp := gin.H{
		"id":              flow.ID,
		"status":          flow.Status,
		"reason":          flow.Reason,
		"customer_note":   flow.CustomerNote,
		"phone":           flow.Phone,
		"resolution":      flow.Resolution,
		"evidence_images": flow.EvidenceImages(),
		"fee_deduction":   flow.FeeDeduction,
		"refund_amount":   flow.RefundAmount,
		"carrier":         flow.Carrier,
		"tracking_code":   flow.TrackingCode,
		"timeline": gin.H{
			"requested_at":       flow.RequestedAt,
			"approved_at":        flow.ApprovedAt,
			"rejected_at":        flow.RejectedAt,
			"awaiting_pickup_at": flow.AwaitingPickupAt,
			"picked_up_at":       flow.PickedUpAt,
			"in_transit_at":      flow.InTransitAt,
			"received_at":        flow.ReceivedAt,
			"refund_issued_at":   flow.RefundIssuedAt,
		},
	}
	if forAdmin {
		resp["internal_note"] = flow.AdminNote
		resp["refund_note"] = flow.RefundNote
	}
	return resp
}

// preorderResponse shapes the aggregate for API output. Internal notes
// never reach customer-facing callers.
func preorderResponse(p *models.Preorder, forAdmin bool) gin.H {
	returns := make([]gin.H, 0, len(p.Returns))
	for i := range p.Returns {
		returns = append(returns, returnResponse(&p.Returns[i], forAdmin))
	}

	resp := gin.H{
		"id":              p.ID,
		"code":            p.Code,
		"product_id":      p.ProductID,
		"product_name":    p.Product.Name,
		"variant_id":      p.VariantID,
		"variant_label":   p.VariantLabel,
		"qty":             p.Qty,
		"unit_price":      p.UnitPrice,
		"subtotal":        p.Subtotal,
		"deposit_percent": p.DepositPercent,
		"deposit_due":     p.DepositDue,
		"deposit_paid":    p.DepositPaid,
		"fees_adjust":     p.FeesAdjust,
		"remaining_due":   p.RemainingDue,
		"status":          p.Status,
		"cancel_reason":   p.CancelReason,
		"customer_note":   p.CustomerNote,
		"returns":         returns,
		"timeline": gin.H{
			"created_at":   p.CreatedAt,
			"confirmed_at": p.ConfirmedAt,
			"shipped_at":   p.ShippedAt,
			"delivered_at": p.DeliveredAt,
			"cancelled_at": p.CancelledAt,
		},
	}
	if forAdmin {
		resp["user_id"] = p.UserID
		resp["customer_email"] = p.User.Email
		resp["internal_note"] = p.InternalNote
		resp["quota_released"] = p.QuotaReleased
	}
	return resp
}
