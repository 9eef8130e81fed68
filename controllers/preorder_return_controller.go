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

// RequestPreorderReturn lets the customer open a return on their
// preorder. Eligibility follows the configured policy (delivered only by
// default), and only one return may be open at a time.
func RequestPreorderReturn(c *gin.Context) {
	utils.LogInfo("RequestPreorderReturn called")
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
		Reason         string   `json:"reason" binding:"required"`
		Note           string   `json:"note"`
		Phone          string   `json:"phone" binding:"required"`
		Resolution     string   `json:"resolution" binding:"required,oneof=refund exchange"`
		EvidenceImages []string `json:"evidence_images" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Return reason, phone, resolution and at least one evidence image are required", err.Error())
		return
	}
	if utils.SanitizeString(req.Reason) == "" {
		utils.BadRequest(c, "Return reason is required", nil)
		return
	}
	if !utils.ValidatePhone(req.Phone) {
		utils.ValidationError(c, "Invalid contact phone number", nil)
		return
	}

	policy := config.ReturnEligibleFrom()
	userID := user.ID
	preorder, err := updatePreorderAggregate(uint(preorderID), &userID, func(tx *gorm.DB, p *models.Preorder) error {
		flow, lerr := utils.RequestReturn(p, utils.ReturnRequest{
			Reason:     utils.SanitizeString(req.Reason),
			Note:       utils.SanitizeString(req.Note),
			Phone:      req.Phone,
			Resolution: req.Resolution,
			Evidence:   req.EvidenceImages,
		}, policy, time.Now())
		if lerr != nil {
			return lerr
		}
		return tx.Create(flow).Error
	})
	if err != nil {
		respondLifecycle(c, err)
		return
	}
	utils.LogInfo("Return requested on preorder %s by customer %d", preorder.Code, user.ID)

	utils.Success(c, "Return request submitted successfully", gin.H{
		"preorder": preorderResponse(preorder, false),
		"note":     "Your return request has been submitted. Our team will review it and process accordingly.",
	})
}
