package routes

import (
	"edu-feedback-api/controllers"
	"edu-feedback-api/middleware"

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
			public.POST("/register", controllers.Register)
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "EduFeedback API is running",
				})
			})

			// Rankings
			public.GET("/years", controllers.GetYears)
			public.GET("/rankings/:year", controllers.GetYearRankings)

			// Search
			public.GET("/university/search", controllers.SearchUniversities)
			public.GET("/region/search", controllers.SearchRegions)
			public.GET("/college/search", controllers.SearchColleges)
			public.GET("/school/search", controllers.SearchSchools)
			public.GET("/module/search", controllers.SearchModules)
			public.GET("/lecturer/search", controllers.SearchLecturers)
			public.GET("/search", controllers.GlobalSearch)

			// Rating aggregates are public reads
			public.GET("/rate/aggregate", controllers.GetRatingAggregate)
		}

		// Optional-auth routes: anonymous visitors may read entity pages
		// and post comments; a valid token attributes the activity.
		browse := v1.Group("")
		browse.Use(middleware.OptionalAuthMiddleware())
		{
			browse.GET("/university/:id", controllers.GetUniversity)
			browse.GET("/college/:id", controllers.GetCollege)
			browse.GET("/school/:id", controllers.GetSchool)
			browse.GET("/module/:id", controllers.GetModule)
			browse.GET("/lecturer/:id", controllers.GetLecturer)
			browse.GET("/teaching/:id", controllers.GetTeaching)
			browse.GET("/lecturer/:id/rating-trend", controllers.GetLecturerRatingTrend)

			browse.POST("/comment/add", controllers.AddComment)

			// Hierarchy additions (community-maintained, anonymous allowed)
			browse.POST("/university/add", controllers.AddUniversity)
			browse.POST("/college/add", controllers.AddCollege)
			browse.POST("/school/add", controllers.AddSchool)
			browse.POST("/module/add", controllers.AddModule)
			browse.POST("/lecturer/add", controllers.AddLecturer)
			browse.POST("/teaching/add", controllers.AddTeaching)
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)

			// Comments: deletion requires the author's token
			protected.POST("/comment/:id/delete", controllers.DeleteComment)

			// Ratings: only students may rate
			protected.POST("/rate", middleware.RequireRole("student"), controllers.RateTarget)
			protected.GET("/rate/user-rating", controllers.GetUserRating)

			// Follows & notifications
			protected.POST("/follow", controllers.FollowEntity)
			protected.POST("/unfollow", controllers.UnfollowEntity)
			protected.GET("/follow/status", controllers.GetFollowStatus)
			protected.GET("/notifications", controllers.GetNotifications)
			protected.GET("/notifications/unread-count", controllers.GetUnreadCount)
			protected.POST("/notifications/mark-read", controllers.MarkNotificationsRead)

			// Visit history
			protected.GET("/history", controllers.GetVisitHistory)
		}
	}
}
