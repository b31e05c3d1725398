package routes

import (
	"github.com/gin-gonic/gin"

	appauth "github.com/anirudhb/achievehub/internal/app/auth"
	"github.com/anirudhb/achievehub/internal/app/controllers"
	"github.com/anirudhb/achievehub/internal/middleware"
	"github.com/anirudhb/achievehub/internal/pkg/websocket"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	achievementController *controllers.AchievementController,
	categoryController *controllers.CategoryController,
	notificationController *controllers.NotificationController,
	statsController *controllers.StatsController,
	wsHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)
		authenticated.GET("/auth/me", authController.GetProfile)

		authenticated.GET("/config", statsController.ClientConfig)

		achievements := authenticated.Group("/achievements")
		{
			// Fine-grained ownership and department checks live in the
			// service layer; the route gates cover the capability alone.
			achievements.POST("", authMiddleware.CapabilityRequired(appauth.CapSubmitAchievement), achievementController.Submit)
			achievements.POST("/direct", authMiddleware.CapabilityRequired(appauth.CapDirectAdd), achievementController.DirectAdd)
			achievements.GET("", authMiddleware.CapabilityRequired(appauth.CapViewAllAchievements), achievementController.List)
			achievements.GET("/mine", achievementController.ListOwn)
			achievements.GET("/pending", authMiddleware.CapabilityRequired(appauth.CapReviewAchievement), achievementController.ListPending)
			achievements.GET("/showcase", achievementController.Showcase)
			achievements.GET("/:id", achievementController.GetByID)
			achievements.POST("/:id/certificate", achievementController.AttachCertificate)
			achievements.POST("/:id/review", authMiddleware.CapabilityRequired(appauth.CapReviewAchievement), achievementController.Review)
			achievements.DELETE("/:id", achievementController.Delete)
		}

		categories := authenticated.Group("/categories")
		{
			categories.GET("", categoryController.GetAll)

			categoriesAdmin := categories.Group("")
			categoriesAdmin.Use(authMiddleware.CapabilityRequired(appauth.CapManageCategories))
			{
				categoriesAdmin.POST("", categoryController.Create)
				categoriesAdmin.PUT("/:id", categoryController.Update)
				categoriesAdmin.DELETE("/:id", categoryController.Delete)
			}
		}

		notifications := authenticated.Group("/notifications")
		{
			notifications.GET("", notificationController.List)
			notifications.GET("/unread-count", notificationController.UnreadCount)
			notifications.GET("/ws", wsHandler.HandleConnection)
			notifications.POST("/:id/read", notificationController.MarkRead)
			notifications.DELETE("/:id", notificationController.Delete)
		}

		authenticated.GET("/stats/dashboard", authMiddleware.CapabilityRequired(appauth.CapViewStats), statsController.Dashboard)
		authenticated.GET("/users/students", authMiddleware.CapabilityRequired(appauth.CapListStudents), statsController.ListStudents)
	}
}
