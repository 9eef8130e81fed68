package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/karthik-739/OrchardKart/models"
	"github.com/karthik-739/OrchardKart/utils"
	"gorm.io/gorm"
)

// AdminMarkDepositPaid records that the deposit has been collected
// outside the gateway (bank transfer, cash). Idempotent.
func AdminMarkDepositPaid(c *gin.Context) {
	utils.LogInfo("AdminMarkDepositPaid called")

	preorderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid preorder ID", nil)
		return
	}

	preorder, err := updatePreorderAggregate(uint(preorderID), nil, func(tx *gorm.DB, p *models.Preorder) error {
		if lerr := utils.MarkDepositPaid(p); lerr != nil {
			return lerr
		}
		return nil
	})
	if err != nil {
		respondLifecycle(c, err)
		return
	}
	utils.LogInfo("Deposit marked paid on preorder %s", preorder.Code)

	utils.Success(c, "Deposit marked as paid", gin.H{
		"preorder": preorderResponse(preorder, true),
	})
}

// AdminMarkPaidInFull records that the whole adjusted subtotal has been
// collected. Idempotent.
func AdminMarkPaidInFull(c *gin.Context) {
	utils.LogInfo("AdminMarkPaidInFull called")

	preorderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid preorder ID", nil)
		return
	}

	preorder, err := updatePreorderAggregate(uint(preorderID), nil, func(tx *gorm.DB, p *models.Preorder) error {
		if lerr := utils.MarkPaidInFull(p); lerr != nil {
			return lerr
		}
		return nil
	})
	if err != nil {
		respondLifecycle(c, err)
		return
	}
	utils.LogInfo("Preorder %s marked paid in full", preorder.Code)

	utils.Success(c, "Preorder marked as paid in full", gin.H{
		"preorder": preorderResponse(preorder, true),
	})
}

// AdminRecalcPreorder re-derives the money fields from the stored base
// inputs. Safe to run at any time; running it twice changes nothing.
func AdminRecalcPreorder(c *gin.Context) {
	utils.LogInfo("AdminRecalcPreorder called")

	preorderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid preorder ID", nil)
		return
	}

	preorder, err := updatePreorderAggregate(uint(preorderID), nil, func(tx *gorm.DB, p *models.Preorder) error {
		if lerr := utils.RecalcPreorder(p); lerr != nil {
			return lerr
		}
		return nil
	})
	if err != nil {
		respondLifecycle(c, err)
		return
	}
	utils.LogInfo("Preorder %s resynchronized", preorder.Code)

	utils.Success(c, "Preorder resynchronized", gin.H{
		"preorder": preorderResponse(preorder, true),
	})
}
