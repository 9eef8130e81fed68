package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/karthik-739/OrchardKart/controllers"
	"github.com/karthik-739/OrchardKart/middleware"
)

// initAdminRoutes initializes all back-office routes
func initAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	{
		// Public admin routes
		admin.POST("/login", controllers.AdminLogin)

		// Protected admin routes
		admin.Use(middleware.AdminAuthMiddleware())
		{
			// Catalog management
			admin.POST("/products", controllers.AdminCreateProduct)
			admin.PUT("/products/:id", controllers.AdminUpdateProduct)
			admin.POST("/products/:id/variants", controllers.AdminCreateVariant)
			admin.PUT("/products/:id/quota", controllers.AdminSetQuota)

			// Preorder management
			admin.GET("/preorders", controllers.AdminListPreorders)
			admin.GET("/preorders/:id", controllers.AdminGetPreorder)
			admin.PATCH("/preorders/:id/status", controllers.AdminAdvancePreorder)
			admin.POST("/preorders/:id/cancel", controllers.AdminCancelPreorder)
			admin.PUT("/preorders/:id", controllers.AdminEditPreorder)
			admin.DELETE("/preorders/:id", controllers.AdminDeletePreorder)

			// Money bookkeeping
			admin.POST("/preorders/:id/deposit-paid", controllers.AdminMarkDepositPaid)
			admin.POST("/preorders/:id/paid-in-full", controllers.AdminMarkPaidInFull)
			admin.POST("/preorders/:id/recalc", controllers.AdminRecalcPreorder)

			// Return flow
			admin.POST("/preorders/:id/return/approve", controllers.AdminApproveReturn)
			admin.POST("/preorders/:id/return/reject", controllers.AdminRejectReturn)
			admin.PATCH("/preorders/:id/return/shipping", controllers.AdminUpdateReturnShipping)
			admin.POST("/preorders/:id/return/refund", controllers.AdminIssueRefund)

			// Reports
			admin.GET("/reports/preorders/excel", controllers.AdminDownloadPreorderReportExcel)
			admin.GET("/reports/preorders/pdf", controllers.AdminDownloadPreorderReportPDF)
		}
	}
}
