package routes

import (
	"recruitment-portal-api/controllers"
	"recruitment-portal-api/middleware"
	"recruitment-portal-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/auth/register", controllers.Register)
			public.POST("/auth/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Recruitment Portal API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/auth/me", controllers.Me)

			// Posts (listing carries inline eligibility for applicants)
			posts := protected.Group("/posts")
			{
				posts.GET("", controllers.GetPosts)
				posts.GET("/:id", controllers.GetPost)
				posts.GET("/:id/eligibility", middleware.RequireRole(models.RoleApplicant), controllers.CheckPostEligibility)
			}

			// Applicant profile
			applicant := protected.Group("/applicant", middleware.RequireRole(models.RoleApplicant))
			{
				applicant.GET("/profile", controllers.GetApplicantProfile)
				applicant.PUT("/profile", controllers.UpdateApplicantProfile)
				applicant.POST("/educations", controllers.AddEducation)
				applicant.DELETE("/educations/:id", controllers.DeleteEducation)
				applicant.POST("/experiences", controllers.AddExperience)
				applicant.DELETE("/experiences/:id", controllers.DeleteExperience)
				applicant.POST("/documents", controllers.RegisterDocument)
				applicant.GET("/documents/requirements", controllers.GetDocumentRequirements)
			}

			// Applications
			applications := protected.Group("/applications", middleware.RequireRole(models.RoleApplicant))
			{
				applications.GET("", controllers.GetMyApplications)
				applications.GET("/:id", controllers.GetMyApplication)
				applications.POST("", controllers.CreateApplication)
				applications.POST("/:id/submit", controllers.SubmitApplication)
				applications.POST("/:id/withdraw", controllers.WithdrawApplication)
			}

			// Payments
			payments := protected.Group("/payments", middleware.RequireRole(models.RoleApplicant))
			{
				payments.GET("", controllers.GetMyPayments)
				payments.POST("/check", controllers.CheckPayment)
				payments.POST("/order", controllers.CreatePaymentOrder)
				payments.POST("/verify", controllers.VerifyPayment)
			}

			// Admin review and selection
			admin := protected.Group("/admin", middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/applications", controllers.AdminGetApplications)
				admin.GET("/applications/:id/history", controllers.AdminGetStageHistory)
				admin.POST("/applications/:id/transition", controllers.AdminTransitionApplication)
				admin.POST("/applications/:id/select", controllers.AdminMarkAsSelected)
				admin.POST("/documents/:id/verify", controllers.AdminVerifyDocument)
				admin.GET("/posts/:postId/merit-list", controllers.AdminGetMeritList)
				admin.POST("/posts/close-expired", controllers.AdminCloseExpiredPosts)
			}
		}
	}
}
