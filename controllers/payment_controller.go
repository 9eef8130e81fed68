package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/karthik-739/OrchardKart/config"
	"github.com/karthik-739/OrchardKart/models"
	"github.com/karthik-739/OrchardKart/utils"
	razorpay "github.com/razorpay/razorpay-go"
	"gorm.io/gorm"
)

// InitiatePreorderPayment creates a Razorpay order for the deposit or the
// remaining balance of a preorder. The gateway confirmation arrives later
// through VerifyPreorderPayment, never inside this request.
func InitiatePreorderPayment(c *gin.Context) {
	utils.LogInfo("InitiatePreorderPayment called")
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
		Purpose string `json:"purpose" binding:"required,oneof=deposit balance"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Purpose must be deposit or balance", nil)
		return
	}

	userID := user.ID
	preorder, err := loadPreorder(config.DB, uint(preorderID), &userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Preorder not found")
			return
		}
		utils.InternalServerError(c, "Failed to fetch preorder", nil)
		return
	}

	if preorder.Status == models.PreorderStatusCancelled || preorder.Status == models.PreorderStatusDelivered {
		utils.LifecycleFail(c, utils.InvalidTransitionError("no payment is due on this preorder", preorder.Status))
		return
	}

	var amount int64
	switch req.Purpose {
	case models.PaymentPurposeDeposit:
		amount = preorder.DepositDue - preorder.DepositPaid
	case models.PaymentPurposeBalance:
		amount = preorder.RemainingDue
	}
	if amount <= 0 {
		utils.LifecycleFail(c, utils.InvalidAmountError("nothing left to pay for this purpose"))
		return
	}

	client := razorpay.NewClient(os.Getenv("RAZORPAY_KEY"), os.Getenv("RAZORPAY_SECRET"))
	orderData := map[string]interface{}{
		"amount":          amount,
		"currency":        "INR",
		"receipt":         preorder.Code,
		"payment_capture": 1,
	}
	rzOrder, err := client.Order.Create(orderData, nil)
	if err != nil {
		utils.LogError("Failed to create Razorpay order for preorder %s: %v", preorder.Code, err)
		utils.InternalServerError(c, "Failed to initiate payment", nil)
		return
	}
	rzOrderID, _ := rzOrder["id"].(string)

	payment := models.PreorderPayment{
		PreorderID:      preorder.ID,
		Amount:          amount,
		Purpose:         req.Purpose,
		Status:          models.PaymentStatusInitiated,
		RazorpayOrderID: rzOrderID,
	}
	if err := config.DB.Create(&payment).Error; err != nil {
		utils.LogError("Failed to record payment for preorder %s: %v", preorder.Code, err)
		utils.InternalServerError(c, "Failed to initiate payment", nil)
		return
	}
	utils.LogInfo("Initiated %s payment of %d for preorder %s", req.Purpose, amount, preorder.Code)

	utils.Success(c, "Payment initiated successfully", gin.H{
		"payment": gin.H{
			"id":                payment.ID,
			"amount":            amount,
			"purpose":           req.Purpose,
			"razorpay_order_id": rzOrderID,
		},
		"key": os.Getenv("RAZORPAY_KEY"),
		"user": gin.H{
			"name":  user.Username,
			"email": user.Email,
		},
	})
}

// VerifyPreorderPayment checks the gateway signature and applies the
// verified amount to the preorder's collected total. Re-verifying an
// already applied payment is a no-op.
func VerifyPreorderPayment(c *gin.Context) {
	utils.LogInfo("VerifyPreorderPayment called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "Unauthorized")
		return
	}
	user := userVal.(models.User)

	var req struct {
		RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
		RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
		RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	// Verify the HMAC signature before touching any state.
	mac := hmac.New(sha256.New, []byte(os.Getenv("RAZORPAY_SECRET")))
	mac.Write([]byte(req.RazorpayOrderID + "|" + req.RazorpayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(req.RazorpaySignature)) {
		utils.LogError("Invalid payment signature for order %s", req.RazorpayOrderID)
		utils.BadRequest(c, "Payment verification failed", nil)
		return
	}

	var payment models.PreorderPayment
	if err := config.DB.Where("razorpay_order_id = ?", req.RazorpayOrderID).First(&payment).Error; err != nil {
		utils.NotFound(c, "Payment not found")
		return
	}

	if payment.Status == models.PaymentStatusPaid {
		utils.Success(c, "Payment already verified", gin.H{"payment_id": payment.ID})
		return
	}

	userID := user.ID
	var applied bool
	preorder, err := updatePreorderAggregate(payment.PreorderID, &userID, func(tx *gorm.DB, p *models.Preorder) error {
		var err error
		applied, err = utils.SettleVerifiedPayment(tx, p, &payment, req.RazorpayPaymentID)
		return err
	})
	if err != nil {
		respondLifecycle(c, err)
		return
	}
	if !applied {
		// A racing verify settled the row first; nothing was re-applied.
		utils.Success(c, "Payment already verified", gin.H{
			"preorder": preorderResponse(preorder, false),
		})
		return
	}
	utils.LogInfo("Applied payment of %d to preorder %s", payment.Amount, preorder.Code)

	utils.Success(c, "Payment verified successfully", gin.H{
		"preorder": preorderResponse(preorder, false),
	})
}
