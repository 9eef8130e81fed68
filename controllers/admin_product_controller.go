package controllers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/karthik-739/OrchardKart/config"
	"github.com/karthik-739/OrchardKart/models"
	"github.com/karthik-739/OrchardKart/utils"
	"gorm.io/gorm"
)

// AdminCreateProduct creates a preorderable product
func AdminCreateProduct(c *gin.Context) {
	utils.LogInfo("AdminCreateProduct called")

	var req struct {
		Name            string     `json:"name" binding:"required"`
		Description     string     `json:"description"`
		Price           int64      `json:"price" binding:"required"`
		CategoryID      uint       `json:"category_id"`
		ImageURL        string     `json:"image_url"`
		PreorderEnabled bool       `json:"preorder_enabled"`
		DepositPercent  *int       `json:"deposit_percent"`
		PreorderStart   *time.Time `json:"preorder_start"`
		PreorderEnd     *time.Time `json:"preorder_end"`
		HasVariants     bool       `json:"has_variants"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body", err.Error())
		return
	}
	if req.Price < 0 {
		utils.LifecycleFail(c, utils.InvalidAmountError("price cannot be negative"))
		return
	}

	product := models.Product{
		Name:            utils.SanitizeString(req.Name),
		Description:     utils.SanitizeString(req.Description),
		Price:           req.Price,
		CategoryID:      req.CategoryID,
		ImageURL:        req.ImageURL,
		IsActive:        true,
		PreorderEnabled: req.PreorderEnabled,
		PreorderStart:   req.PreorderStart,
		PreorderEnd:     req.PreorderEnd,
		HasVariants:     req.HasVariants,
	}
	if req.DepositPercent != nil {
		if *req.DepositPercent < 0 || *req.DepositPercent > 100 {
			utils.LifecycleFail(c, utils.InvalidAmountError("deposit percent must be between 0 and 100"))
			return
		}
		product.DepositPercent = *req.DepositPercent
	} else {
		product.DepositPercent = 20
	}

	if err := config.DB.Create(&product).Error; err != nil {
		utils.LogError("Failed to create product: %v", err)
		utils.InternalServerError(c, "Failed to create product", nil)
		return
	}
	utils.LogInfo("Created product %d", product.ID)

	utils.Created(c, "Product created successfully", gin.H{"product": product})
}

// AdminUpdateProduct updates catalog fields of a product
func AdminUpdateProduct(c *gin.Context) {
	utils.LogInfo("AdminUpdateProduct called")

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid product ID", nil)
		return
	}

	var product models.Product
	if err := config.DB.First(&product, productID).Error; err != nil {
		utils.NotFound(c, "Product not found")
		return
	}

	var req struct {
		Name            *string    `json:"name"`
		Description     *string    `json:"description"`
		Price           *int64     `json:"price"`
		ImageURL        *string    `json:"image_url"`
		IsActive        *bool      `json:"is_active"`
		PreorderEnabled *bool      `json:"preorder_enabled"`
		DepositPercent  *int       `json:"deposit_percent"`
		PreorderStart   *time.Time `json:"preorder_start"`
		PreorderEnd     *time.Time `json:"preorder_end"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = utils.SanitizeString(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = utils.SanitizeString(*req.Description)
	}
	if req.Price != nil {
		if *req.Price < 0 {
			utils.LifecycleFail(c, utils.InvalidAmountError("price cannot be negative"))
			return
		}
		updates["price"] = *req.Price
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.PreorderEnabled != nil {
		updates["preorder_enabled"] = *req.PreorderEnabled
	}
	if req.DepositPercent != nil {
		if *req.DepositPercent < 0 || *req.DepositPercent > 100 {
			utils.LifecycleFail(c, utils.InvalidAmountError("deposit percent must be between 0 and 100"))
			return
		}
		updates["deposit_percent"] = *req.DepositPercent
	}
	if req.PreorderStart != nil {
		updates["preorder_start"] = req.PreorderStart
	}
	if req.PreorderEnd != nil {
		updates["preorder_end"] = req.PreorderEnd
	}

	if err := config.DB.Model(&product).Updates(updates).Error; err != nil {
		utils.LogError("Failed to update product %d: %v", product.ID, err)
		utils.InternalServerError(c, "Failed to update product", nil)
		return
	}
	utils.LogInfo("Updated product %d", product.ID)

	utils.Success(c, "Product updated successfully", gin.H{"product": product})
}

// AdminCreateVariant adds a weight/ripeness combination to a product
func AdminCreateVariant(c *gin.Context) {
	utils.LogInfo("AdminCreateVariant called")

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid product ID", nil)
		return
	}

	var product models.Product
	if err := config.DB.First(&product, productID).Error; err != nil {
		utils.NotFound(c, "Product not found")
		return
	}

	var req struct {
		Label      string `json:"label" binding:"required"`
		Weight     string `json:"weight" binding:"required"`
		Ripeness   string `json:"ripeness" binding:"required"`
		PriceDelta int64  `json:"price_delta"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Label, weight and ripeness are required", err.Error())
		return
	}

	variant := models.ProductVariant{
		ProductID:  product.ID,
		Label:      utils.SanitizeString(req.Label),
		Weight:     utils.SanitizeString(req.Weight),
		Ripeness:   utils.SanitizeString(req.Ripeness),
		PriceDelta: req.PriceDelta,
		IsActive:   true,
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.InternalServerError(c, "Failed to begin transaction", nil)
		return
	}
	if err := tx.Create(&variant).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to create variant: %v", err)
		utils.InternalServerError(c, "Failed to create variant", nil)
		return
	}
	if !product.HasVariants {
		if err := tx.Model(&product).Update("has_variants", true).Error; err != nil {
			tx.Rollback()
			utils.InternalServerError(c, "Failed to create variant", nil)
			return
		}
	}
	if err := tx.Commit().Error; err != nil {
		utils.InternalServerError(c, "Failed to create variant", nil)
		return
	}
	utils.LogInfo("Created variant %d on product %d", variant.ID, product.ID)

	utils.Created(c, "Variant created successfully", gin.H{"variant": variant})
}

// AdminSetQuota creates or resizes the reservation pool for a product or
// one of its variants. Shrinking below what is already sold is allowed;
// the pool simply reports zero remaining.
func AdminSetQuota(c *gin.Context) {
	utils.LogInfo("AdminSetQuota called")

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid product ID", nil)
		return
	}

	var product models.Product
	if err := config.DB.First(&product, productID).Error; err != nil {
		utils.NotFound(c, "Product not found")
		return
	}

	var req struct {
		VariantID *uint             `json:"variant_id"`
		Variant   map[string]string `json:"variant"`
		Quota     *int              `json:"quota" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Quota is required", err.Error())
		return
	}
	if *req.Quota < 0 {
		utils.LifecycleFail(c, utils.InvalidAmountError("quota cannot be negative"))
		return
	}

	variantKey := ""
	if req.VariantID != nil {
		var variant models.ProductVariant
		if err := config.DB.Where("product_id = ?", product.ID).First(&variant, *req.VariantID).Error; err != nil {
			utils.NotFound(c, "Product variant not found")
			return
		}
		variantKey = variantQuotaKey(&variant)
	} else if len(req.Variant) > 0 {
		variantKey = utils.NormalizeVariantKey(req.Variant)
	}

	var quota models.PreorderQuota
	err = config.DB.Where("product_id = ? AND variant_key = ?", product.ID, variantKey).First(&quota).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		quota = models.PreorderQuota{
			ProductID:  product.ID,
			VariantKey: variantKey,
			Quota:      *req.Quota,
		}
		if err := config.DB.Create(&quota).Error; err != nil {
			utils.LogError("Failed to create quota: %v", err)
			utils.InternalServerError(c, "Failed to set quota", nil)
			return
		}
	case err != nil:
		utils.LogError("Failed to fetch quota: %v", err)
		utils.InternalServerError(c, "Failed to set quota", nil)
		return
	default:
		if err := config.DB.Model(&quota).Update("quota", *req.Quota).Error; err != nil {
			utils.LogError("Failed to update quota: %v", err)
			utils.InternalServerError(c, "Failed to set quota", nil)
			return
		}
		quota.Quota = *req.Quota
	}
	utils.LogInfo("Quota for product %d (%s) set to %d", product.ID, variantKey, *req.Quota)

	utils.Success(c, "Quota updated successfully", gin.H{
		"quota": gin.H{
			"product_id":      quota.ProductID,
			"variant_key":     quota.VariantKey,
			"quota":           quota.Quota,
			"sold_preorder":   quota.SoldPreorder,
			"slots_remaining": quota.Remaining(),
		},
	})
}
