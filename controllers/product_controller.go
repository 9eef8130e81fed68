package controllers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/karthik-739/OrchardKart/config"
	"github.com/karthik-739/OrchardKart/models"
	"github.com/karthik-739/OrchardKart/utils"
)

// variantQuotaKey returns the pool key for a catalog variant.
func variantQuotaKey(v *models.ProductVariant) string {
	return utils.NormalizeVariantKey(map[string]string{
		"weight":   v.Weight,
		"ripeness": v.Ripeness,
	})
}

// ListPreorderProducts returns the products currently open for preorder,
// with the remaining reservation slots per pool.
func ListPreorderProducts(c *gin.Context) {
	utils.LogInfo("ListPreorderProducts called")

	pagination := utils.NewPagination(c)
	now := time.Now()

	query := config.DB.Model(&models.Product{}).
		Where("is_active = ? AND preorder_enabled = ?", true, true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count products: %v", err)
		utils.InternalServerError(c, "Failed to fetch products", nil)
		return
	}
	pagination.SetTotal(total)

	var products []models.Product
	if err := query.Preload("Variants").Preload("Category").
		Order("created_at DESC").
		Offset(pagination.Offset).
		Limit(pagination.Limit).
		Find(&products).Error; err != nil {
		utils.LogError("Failed to fetch products: %v", err)
		utils.InternalServerError(c, "Failed to fetch products", nil)
		return
	}

	rows := make([]gin.H, 0, len(products))
	for i := range products {
		product := &products[i]
		row := gin.H{
			"id":              product.ID,
			"name":            product.Name,
			"description":     product.Description,
			"price":           product.Price,
			"image_url":       product.ImageURL,
			"category":        product.Category.Name,
			"deposit_percent": product.DepositPercent,
			"window_open":     product.PreorderWindowOpen(now),
			"preorder_start":  product.PreorderStart,
			"preorder_end":    product.PreorderEnd,
		}

		if product.HasVariants {
			variants := make([]gin.H, 0, len(product.Variants))
			for j := range product.Variants {
				variant := &product.Variants[j]
				if !variant.IsActive {
					continue
				}
				remaining, err := utils.QuotaRemaining(config.DB, product.ID, variantQuotaKey(variant))
				if err != nil {
					utils.LogError("Failed to read quota for variant %d: %v", variant.ID, err)
					remaining = 0
				}
				variants = append(variants, gin.H{
					"id":              variant.ID,
					"label":           variant.Label,
					"weight":          variant.Weight,
					"ripeness":        variant.Ripeness,
					"unit_price":      variant.UnitPrice(product.Price),
					"slots_remaining": remaining,
				})
			}
			row["variants"] = variants
		} else {
			remaining, err := utils.QuotaRemaining(config.DB, product.ID, "")
			if err != nil {
				utils.LogError("Failed to read quota for product %d: %v", product.ID, err)
				remaining = 0
			}
			row["slots_remaining"] = remaining
		}

		rows = append(rows, row)
	}

	utils.SendPaginatedResponse(c, rows, pagination)
}

// GetPreorderProduct returns one preorderable product with its pools
func GetPreorderProduct(c *gin.Context) {
	utils.LogInfo("GetPreorderProduct called")

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid product ID", nil)
		return
	}

	var product models.Product
	if err := config.DB.Preload("Variants").Preload("Category").First(&product, productID).Error; err != nil {
		utils.NotFound(c, "Product not found")
		return
	}
	if !product.IsActive || !product.PreorderEnabled {
		utils.NotFound(c, "Product not found")
		return
	}

	var quotas []models.PreorderQuota
	if err := config.DB.Where("product_id = ?", product.ID).Find(&quotas).Error; err != nil {
		utils.LogError("Failed to fetch quotas for product %d: %v", product.ID, err)
		utils.InternalServerError(c, "Failed to fetch product", nil)
		return
	}
	pools := make([]gin.H, 0, len(quotas))
	for i := range quotas {
		pools = append(pools, gin.H{
			"variant_key":     quotas[i].VariantKey,
			"quota":           quotas[i].Quota,
			"slots_remaining": quotas[i].Remaining(),
		})
	}

	utils.Success(c, "Product fetched successfully", gin.H{
		"product":     product,
		"pools":       pools,
		"window_open": product.PreorderWindowOpen(time.Now()),
	})
}
