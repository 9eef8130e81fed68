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

// AdminListPreorders returns preorders for the back office, filterable by
// status and searchable by reference code.
func AdminListPreorders(c *gin.Context) {
	utils.LogInfo("AdminListPreorders called")

	pagination := utils.NewPagination(c)
	query := config.DB.Model(&models.Preorder{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if code := c.Query("code"); code != "" {
		query = query.Where("code ILIKE ?", "%"+code+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count preorders: %v", err)
		utils.InternalServerError(c, "Failed to fetch preorders", nil)
		return
	}
	pagination.SetTotal(total)

	var preorders []models.Preorder
	if err := query.Preload("Returns").Preload("Product").Preload("User").
		Order("created_at DESC").
		Offset(pagination.Offset).
		Limit(pagination.Limit).
		Find(&preorders).Error; err != nil {
		utils.LogError("Failed to fetch preorders: %v", err)
		utils.InternalServerError(c, "Failed to fetch preorders", nil)
		return
	}

	rows := make([]gin.H, 0, len(preorders))
	for i := range preorders {
		rows = append(rows, preorderResponse(&preorders[i], true))
	}
	utils.SendPaginatedResponse(c, rows, pagination)
}

// AdminGetPreorder returns one preorder with internal notes included
func AdminGetPreorder(c *gin.Context) {
	utils.LogInfo("AdminGetPreorder called")

	preorderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid preorder ID", nil)
		return
	}

	preorder, err := loadPreorder(config.DB, uint(preorderID), nil)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Preorder not found")
			return
		}
		utils.InternalServerError(c, "Failed to fetch preorder", nil)
		return
	}

	utils.Success(c, "Preorder fetched successfully", gin.H{
		"preorder": preorderResponse(preorder, true),
	})
}

// AdminAdvancePreorder moves a preorder forward through the lifecycle.
// Guards enforce the ordering and the payment thresholds; there is no
// automatic advancement anywhere else.
func AdminAdvancePreorder(c *gin.Context) {
	utils.LogInfo("AdminAdvancePreorder called")

	preorderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid preorder ID", nil)
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
		Note   string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Target status is required", nil)
		return
	}

	preorder, err := updatePreorderAggregate(uint(preorderID), nil, func(tx *gorm.DB, p *models.Preorder) error {
		if lerr := utils.AdvancePreorder(p, req.Status, time.Now()); lerr != nil {
			return lerr
		}
		if req.Note != "" {
			p.InternalNote = utils.SanitizeString(req.Note)
		}
		return nil
	})
	if err != nil {
		respondLifecycle(c, err)
		return
	}
	utils.LogInfo("Preorder %s advanced to %s", preorder.Code, preorder.Status)

	go utils.NotifyPreorderStatus(preorder.User.Email, preorder.Code, preorder.Status)

	utils.Success(c, "Preorder status updated", gin.H{
		"preorder": preorderResponse(preorder, true),
	})
}

// AdminCancelPreorder cancels a non-delivered preorder and returns its
// quota to the pool exactly once.
func AdminCancelPreorder(c *gin.Context) {
	utils.LogInfo("AdminCancelPreorder called")

	preorderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid preorder ID", nil)
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	preorder, err := updatePreorderAggregate(uint(preorderID), nil, func(tx *gorm.DB, p *models.Preorder) error {
		if lerr := utils.CancelPreorder(p, utils.SanitizeString(req.Reason), false, time.Now()); lerr != nil {
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
	utils.LogInfo("Preorder %s cancelled by admin", preorder.Code)

	go utils.NotifyPreorderStatus(preorder.User.Email, preorder.Code, preorder.Status)

	utils.Success(c, "Preorder cancelled", gin.H{
		"preorder": preorderResponse(preorder, true),
	})
}

// AdminEditPreorder mutates the adjustable fields and re-derives the
// dependent money fields.
func AdminEditPreorder(c *gin.Context) {
	utils.LogInfo("AdminEditPreorder called")

	preorderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid preorder ID", nil)
		return
	}

	var req struct {
		DepositPercent *int    `json:"deposit_percent"`
		FeesAdjust     *int64  `json:"fees_adjust"`
		InternalNote   *string `json:"internal_note"`
		CustomerNote   *string `json:"customer_note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	preorder, err := updatePreorderAggregate(uint(preorderID), nil, func(tx *gorm.DB, p *models.Preorder) error {
		if lerr := utils.EditPreorder(p, utils.PreorderEdit{
			DepositPercent: req.DepositPercent,
			FeesAdjust:     req.FeesAdjust,
			InternalNote:   req.InternalNote,
			CustomerNote:   req.CustomerNote,
		}); lerr != nil {
			return lerr
		}
		return nil
	})
	if err != nil {
		respondLifecycle(c, err)
		return
	}
	utils.LogInfo("Preorder %s edited", preorder.Code)

	utils.Success(c, "Preorder updated", gin.H{
		"preorder": preorderResponse(preorder, true),
	})
}

// AdminDeletePreorder hard-deletes a preorder. Only cancelled preorders
// may be deleted; everything else is audit history.
func AdminDeletePreorder(c *gin.Context) {
	utils.LogInfo("AdminDeletePreorder called")

	preorderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid preorder ID", nil)
		return
	}

	preorder, err := loadPreorder(config.DB, uint(preorderID), nil)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Preorder not found")
			return
		}
		utils.InternalServerError(c, "Failed to fetch preorder", nil)
		return
	}

	if preorder.Status != models.PreorderStatusCancelled {
		utils.LifecycleFail(c, utils.InvalidTransitionError("only cancelled preorders can be deleted", preorder.Status))
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.InternalServerError(c, "Failed to begin transaction", nil)
		return
	}
	if err := tx.Where("preorder_id = ?", preorder.ID).Delete(&models.ReturnFlow{}).Error; err != nil {
		tx.Rollback()
		utils.InternalServerError(c, "Failed to delete preorder", nil)
		return
	}
	if err := tx.Where("preorder_id = ?", preorder.ID).Delete(&models.PreorderPayment{}).Error; err != nil {
		tx.Rollback()
		utils.InternalServerError(c, "Failed to delete preorder", nil)
		return
	}
	if err := tx.Delete(&models.Preorder{}, preorder.ID).Error; err != nil {
		tx.Rollback()
		utils.InternalServerError(c, "Failed to delete preorder", nil)
		return
	}
	if err := tx.Commit().Error; err != nil {
		utils.InternalServerError(c, "Failed to delete preorder", nil)
		return
	}
	utils.LogInfo("Preorder %s deleted", preorder.Code)

	utils.Success(c, "Preorder deleted", gin.H{"id": preorder.ID})
}
