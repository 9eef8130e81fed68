package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/karthik-739/OrchardKart/config"
	"github.com/karthik-739/OrchardKart/models"
	"github.com/karthik-739/OrchardKart/utils"
)

// CreatePreorder reserves future inventory for the customer. The price is
// snapshotted from the catalog here; client-supplied amounts are never
// trusted. Quota is the only thing checked against shared state, through
// the atomic reserve.
func CreatePreorder(c *gin.Context) {
	utils.LogInfo("CreatePreorder called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "Unauthorized")
		return
	}
	user := userVal.(models.User)

	var req struct {
		ProductID   uint              `json:"product_id" binding:"required"`
		VariantID   *uint             `json:"variant_id"`
		Variant     map[string]string `json:"variant"`
		Qty         int               `json:"qty" binding:"required"`
		PaymentPlan string            `json:"payment_plan" binding:"omitempty,oneof=deposit full"`
		Note        string            `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body", err.Error())
		return
	}
	if req.Qty < 1 {
		utils.LifecycleFail(c, utils.InvalidAmountError("quantity must be at least 1"))
		return
	}

	var product models.Product
	if err := config.DB.Preload("Variants").First(&product, req.ProductID).Error; err != nil {
		utils.NotFound(c, "Product not found")
		return
	}
	if !product.IsActive {
		utils.NotFound(c, "Product not found")
		return
	}
	if !product.PreorderWindowOpen(time.Now()) {
		utils.LifecycleFail(c, utils.InvalidTransitionError("preorder window is closed for this product", ""))
		return
	}

	// Resolve the variant descriptor and the price snapshot.
	unitPrice := product.Price
	variantLabel := ""
	variantKey := ""
	var variantID *uint
	if product.HasVariants {
		var variant *models.ProductVariant
		if req.VariantID != nil {
			for i := range product.Variants {
				if product.Variants[i].ID == *req.VariantID && product.Variants[i].IsActive {
					variant = &product.Variants[i]
					break
				}
			}
			if variant == nil {
				utils.NotFound(c, "Product variant not found")
				return
			}
			variantID = req.VariantID
			variantLabel = variant.Label
			variantKey = utils.NormalizeVariantKey(map[string]string{
				"weight":   variant.Weight,
				"ripeness": variant.Ripeness,
			})
			unitPrice = variant.UnitPrice(product.Price)
		} else {
			variantKey = utils.NormalizeVariantKey(req.Variant)
			if variantKey == "" {
				utils.BadRequest(c, "A variant selection is required for this product", nil)
				return
			}
			if label, ok := req.Variant["label"]; ok {
				variantLabel = utils.SanitizeString(label)
			} else {
				variantLabel = variantKey
			}
		}
	}

	subtotal, lerr := utils.ComputeSubtotal(unitPrice, req.Qty)
	if lerr != nil {
		utils.LifecycleFail(c, lerr)
		return
	}
	depositPercent := product.DepositPercent
	if req.PaymentPlan == "full" {
		depositPercent = 100
	}
	depositDue, lerr := utils.ComputeDepositDue(subtotal, depositPercent)
	if lerr != nil {
		utils.LifecycleFail(c, lerr)
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.InternalServerError(c, "Failed to begin transaction", nil)
		return
	}

	remaining, err := utils.ReserveQuota(tx, product.ID, variantKey, req.Qty)
	if err != nil {
		tx.Rollback()
		respondLifecycle(c, err)
		return
	}
	utils.LogDebug("Reserved %d slots for product %d (%s), %d remaining", req.Qty, product.ID, variantKey, remaining)

	preorder := models.Preorder{
		Code:           GeneratePreorderCode(),
		UserID:         user.ID,
		ProductID:      product.ID,
		VariantID:      variantID,
		VariantLabel:   variantLabel,
		VariantKey:     variantKey,
		Qty:            req.Qty,
		UnitPrice:      unitPrice,
		Subtotal:       subtotal,
		DepositPercent: depositPercent,
		DepositDue:     depositDue,
		RemainingDue:   utils.ComputeRemainingDue(subtotal, 0, 0),
		Status:         models.PreorderStatusPendingPayment,
		CustomerNote:   utils.SanitizeString(req.Note),
		Version:        1,
	}
	if err := tx.Create(&preorder).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to create preorder: %v", err)
		utils.InternalServerError(c, "Failed to create preorder", nil)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit preorder creation: %v", err)
		utils.InternalServerError(c, "Failed to create preorder", nil)
		return
	}
	utils.LogInfo("Created preorder %s for user %d", preorder.Code, user.ID)

	preorder.Product = product
	utils.Created(c, "Preorder placed successfully", gin.H{
		"preorder":        preorderResponse(&preorder, false),
		"slots_remaining": remaining,
	})
}
