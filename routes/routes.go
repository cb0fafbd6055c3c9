package routes

import (
	"faculty-portal-api/controllers"
	"faculty-portal-api/middleware"
	"faculty-portal-api/models"

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
			public.POST("/login", controllers.Login)
			public.POST("/register", controllers.Register)
			public.POST("/forgot-password", controllers.ForgotPassword)
			public.POST("/reset-password", controllers.ResetPassword)

			// Portal front page content
			public.GET("/events", controllers.GetEvents)
			public.GET("/events/:id", controllers.GetEvent)
			public.GET("/departments", controllers.GetDepartments)
			public.GET("/departments/:id/teachers", controllers.GetDepartmentTeachers)
			public.GET("/courses", controllers.GetCourses)
			public.GET("/courses/:id", controllers.GetCourse)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Faculty Portal API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Notifications inbox
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/counter", controllers.GetNotificationCounter)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
			}

			// Research submissions
			research := protected.Group("/research")
			{
				// Only students create submissions
				research.POST("", middleware.RequireRole(models.RoleStudent), controllers.CreateResearchSubmission)
				research.GET("/mine", middleware.RequireRole(models.RoleStudent), controllers.GetMyResearchSubmissions)

				// Owner, reviewer, department committee and admins may view
				research.GET("/:id", controllers.GetResearchSubmission)
				research.GET("/:id/file", controllers.DownloadManuscript)
				research.GET("/:id/reviews", controllers.GetSubmissionReviews)

				// Admin-only listing and assignment
				research.GET("", middleware.RequireRole(models.RoleAdmin), controllers.GetResearchSubmissions)
				research.POST("/:id/assign", middleware.RequireRole(models.RoleAdmin), controllers.AssignReviewer)

				// Committee members and admins review
				research.GET("/queue/review", middleware.RequireRole(models.RoleCommitteeMember, models.RoleAdmin), controllers.GetReviewQueue)
				research.POST("/:id/review", middleware.RequireRole(models.RoleCommitteeMember, models.RoleAdmin), controllers.SubmitReviewDecision)
			}

			// Reviewer candidates for the assignment form
			protected.GET("/committee-members", middleware.RequireRole(models.RoleAdmin), controllers.GetCommitteeMembers)

			// Catalog and events management
			protected.POST("/courses", middleware.RequireRole(models.RoleAdmin), controllers.CreateCourse)
			protected.PUT("/courses/:id", middleware.RequireRole(models.RoleAdmin), controllers.UpdateCourse)
			protected.POST("/events", middleware.RequireRole(models.RoleAdmin), controllers.CreateEvent)
			protected.PUT("/events/:id", middleware.RequireRole(models.RoleAdmin), controllers.UpdateEvent)
			protected.DELETE("/events/:id", middleware.RequireRole(models.RoleAdmin), controllers.DeleteEvent)

			// Dashboard
			protected.GET("/dashboard/stats", controllers.GetDashboardStats)
		}
	}
}
