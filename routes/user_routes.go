package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/karthik-739/OrchardKart/controllers"
	"github.com/karthik-739/OrchardKart/middleware"
)

// initUserRoutes initializes all storefront routes
func initUserRoutes(router *gin.RouterGroup) {
	// Public routes (no authentication required)
	router.POST("/register", controllers.Register)
	router.POST("/login", controllers.Login)

	// Catalog routes
	router.GET("/products", controllers.ListPreorderProducts)
	router.GET("/products/:id", controllers.GetPreorderProduct)

	// Protected routes (require authentication)
	protected := router.Group("/user")
	protected.Use(middleware.AuthMiddleware())
	{
		// Preorder operations
		protected.POST("/preorders", controllers.CreatePreorder)
		protected.GET("/preorders", controllers.ListMyPreorders)
		protected.GET("/preorders/:id", controllers.GetMyPreorder)
		protected.POST("/preorders/:id/cancel", controllers.CancelMyPreorder)

		// Return flow
		protected.POST("/preorders/:id/return", controllers.RequestPreorderReturn)

		// Payments
		protected.POST("/preorders/:id/payment/initiate", controllers.InitiatePreorderPayment)
		protected.POST("/preorders/:id/payment/verify", controllers.VerifyPreorderPayment)
	}
}
