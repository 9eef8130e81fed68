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

// ListMyPreorders returns the customer's preorders, newest first
func ListMyPreorders(c *gin.Context) {
	utils.LogInfo("ListMyPreorders called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "Unauthorized")
		return
	}
	user := userVal.(models.User)

	pagination := utils.NewPagination(c)

	var total int64
	if err := config.DB.Model(&models.Preorder{}).Where("user_id = ?", user.ID).Count(&total).Error; err != nil {
		utils.LogError("Failed to count preorders: %v", err)
		utils.InternalServerError(c, "Failed to fetch preorders", nil)
		return
	}
	pagination.SetTotal(total)

	var preorders []models.Preorder
	if err := config.DB.Preload("Returns").Preload("Product").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Offset(pagination.Offset).
		Limit(pagination.Limit).
		Find(&preorders).Error; err != nil {
		utils.LogError("Failed to fetch preorders: %v", err)
		utils.InternalServerError(c, "Failed to fetch preorders", nil)
		return
	}

	summaries := make([]gin.H, 0, len(preorders))
	for i := range preorders {
		summaries = append(summaries, preorderResponse(&preorders[i], false))
	}
	utils.SendPaginatedResponse(c, summaries, pagination)
}

// GetMyPreorder returns one preorder owned by the customer
func GetMyPreorder(c *gin.Context) {
	utils.LogInfo("GetMyPreorder called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "Unauthorized")
		return
	}
	user := userVal.(models.User)

	preorderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid preorder ID", nil)
		return
	}

	userID := user.ID
	preorder, err := loadPreorder(config.DB, uint(preorderID), &userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Preorder not found")
			return
		}
		utils.LogError("Failed to fetch preorder: %v", err)
		utils.InternalServerError(c, "Failed to fetch preorder", nil)
		return
	}

	utils.Success(c, "Preorder fetched successfully", gin.H{
		"preorder": preorderResponse(preorder, false),
	})
}

// CancelMyPreorder lets the customer cancel a preorder that still awaits
// payment. The reserved quota goes back to the pool exactly once, so a
// repeated cancel call never double-credits it.
func CancelMyPreorder(c *gin.Context) {
	utils.LogInfo("CancelMyPreorder called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "Unauthorized")
		return
	}
	user := userVal.(models.User)

	preorderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid preorder ID", nil)
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	userID := user.ID
	preorder, err := updatePreorderAggregate(uint(preorderID), &userID, func(tx *gorm.DB, p *models.Preorder) error {
		if lerr := utils.CancelPreorder(p, utils.SanitizeString(req.Reason), true, time.Now()); lerr != nil {
			return lerr
		}
		if !p.QuotaReleased {
			if err := utils.ReleaseQuota(tx, p.ProductID, p.VariantKey, p.Qty); err != nil {
				return err
			}
			p.QuotaReleased = true
		}
		return nil
	})
	if err != nil {
		respondLifecycle(c, err)
		return
	}
	utils.LogInfo("Preorder %s cancelled by customer %d", preorder.Code, user.ID)

	go utils.NotifyPreorderStatus(user.Email, preorder.Code, preorder.Status)

	utils.Success(c, "Preorder cancelled", gin.H{
		"preorder": preorderResponse(preorder, false),
	})
}
