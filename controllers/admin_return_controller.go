package controllers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/karthik-739/OrchardKart/models"
	"github.com/karthik-739/OrchardKart/utils"
	"gorm.io/gorm"
)

// AdminApproveReturn approves a requested return, optionally recording a
// fee deduction and the reverse-shipment carrier details.
func AdminApproveReturn(c *gin.Context) {
	utils.LogInfo("AdminApproveReturn called")

	preorderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid preorder ID", nil)
		return
	}

	var req struct {
		FeeDeduction int64  `json:"fee_deduction"`
		Carrier      string `json:"carrier"`
		TrackingCode string `json:"tracking_code"`
	}
	_ = c.ShouldBindJSON(&req)

	preorder, err := updatePreorderAggregate(uint(preorderID), nil, func(tx *gorm.DB, p *models.Preorder) error {
		flow := p.ActiveReturn()
		if flow == nil {
			return utils.InvalidTransitionError("no open return on this preorder", p.Status)
		}
		if lerr := utils.ApproveReturn(flow, req.FeeDeduction,
			utils.SanitizeString(req.Carrier), utils.SanitizeString(req.TrackingCode),
			utils.CollectedAmount(p), time.Now()); lerr != nil {
			return lerr
		}
		return tx.Save(flow).Error
	})
	if err != nil {
		respondLifecycle(c, err)
		return
	}
	utils.LogInfo("Return approved on preorder %s", preorder.Code)

	utils.Success(c, "Return request approved", gin.H{
		"preorder": preorderResponse(preorder, true),
	})
}

// AdminRejectReturn closes a requested return with a note. No money moves.
func AdminRejectReturn(c *gin.Context) {
	utils.LogInfo("AdminRejectReturn called")

	preorderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid preorder ID", nil)
		return
	}

	var req struct {
		Note string `json:"note" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "A note is required when rejecting a return", nil)
		return
	}

	preorder, err := updatePreorderAggregate(uint(preorderID), nil, func(tx *gorm.DB, p *models.Preorder) error {
		flow := p.ActiveReturn()
		if flow == nil {
			return utils.InvalidTransitionError("no open return on this preorder", p.Status)
		}
		if lerr := utils.RejectReturn(flow, utils.SanitizeString(req.Note), time.Now()); lerr != nil {
			return lerr
		}
		return tx.Save(flow).Error
	})
	if err != nil {
		respondLifecycle(c, err)
		return
	}
	utils.LogInfo("Return rejected on preorder %s", preorder.Code)

	utils.Success(c, "Return request rejected", gin.H{
		"preorder": preorderResponse(preorder, true),
	})
}

// AdminUpdateReturnShipping moves the reverse shipment one step forward,
// with optional carrier/tracking updates. Steps never skip or go back.
func AdminUpdateReturnShipping(c *gin.Context) {
	utils.LogInfo("AdminUpdateReturnShipping called")

	preorderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid preorder ID", nil)
		return
	}

	var req struct {
		Status       string `json:"status" binding:"required"`
		Carrier      string `json:"carrier"`
		TrackingCode string `json:"tracking_code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Target status is required", nil)
		return
	}

	preorder, err := updatePreorderAggregate(uint(preorderID), nil, func(tx *gorm.DB, p *models.Preorder) error {
		flow := p.ActiveReturn()
		if flow == nil {
			return utils.InvalidTransitionError("no open return on this preorder", p.Status)
		}
		if lerr := utils.AdvanceReturnShipping(flow, req.Status,
			utils.SanitizeString(req.Carrier), utils.SanitizeString(req.TrackingCode), time.Now()); lerr != nil {
			return lerr
		}
		return tx.Save(flow).Error
	})
	if err != nil {
		respondLifecycle(c, err)
		return
	}
	utils.LogInfo("Return on preorder %s moved to %s", preorder.Code, req.Status)

	utils.Success(c, "Return shipping updated", gin.H{
		"preorder": preorderResponse(preorder, true),
	})
}

// AdminIssueRefund closes a received return by paying out the refund.
// The amount is checked against what was actually collected minus the
// approved fee deduction; this is the only place a refund amount is set.
func AdminIssueRefund(c *gin.Context) {
	utils.LogInfo("AdminIssueRefund called")

	preorderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid preorder ID", nil)
		return
	}

	var req struct {
		Amount *int64 `json:"amount" binding:"required"`
		Note   string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Refund amount is required", nil)
		return
	}

	var refunded int64
	preorder, err := updatePreorderAggregate(uint(preorderID), nil, func(tx *gorm.DB, p *models.Preorder) error {
		flow := p.ActiveReturn()
		if flow == nil {
			return utils.InvalidTransitionError("no open return on this preorder", p.Status)
		}
		if lerr := utils.IssueRefund(flow, *req.Amount, utils.SanitizeString(req.Note),
			utils.CollectedAmount(p), time.Now()); lerr != nil {
			return lerr
		}
		refunded = flow.RefundAmount
		return tx.Save(flow).Error
	})
	if err != nil {
		respondLifecycle(c, err)
		return
	}
	utils.LogInfo("Refund of %d issued on preorder %s", refunded, preorder.Code)

	go utils.NotifyRefundIssued(preorder.User.Email, preorder.Code, refunded)

	utils.Success(c, "Refund issued", gin.H{
		"preorder": preorderResponse(preorder, true),
	})
}
