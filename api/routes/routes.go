package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/actinova/admin-backend/internal/config"
	"github.com/actinova/admin-backend/internal/handlers"
	"github.com/actinova/admin-backend/internal/middleware"
	"github.com/actinova/admin-backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// HandlerDependencies holds every handler the router mounts
type HandlerDependencies struct {
	AuthHandler         *handlers.AuthHandler
	AdminHandler        *handlers.AdminHandler
	UserHandler         *handlers.UserHandler
	CourseHandler       *handlers.CourseHandler
	BlogHandler         *handlers.BlogHandler
	ContentHandler      *handlers.ContentHandler
	PlanHandler         *handlers.PlanHandler
	ContactHandler      *handlers.ContactHandler
	ReportHandler       *handlers.ReportHandler
	NotificationHandler *handlers.NotificationHandler
}

// Pinger reports whether the database is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Guards holds what the router needs besides handlers
type Guards struct {
	Tokens  middleware.TokenParser
	Admins  middleware.AdminLookup
	Reports middleware.CacheInvalidator
	DB      Pinger
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies, guards Guards, logger *zap.Logger) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.MetricsMiddleware())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := guards.DB.Ping(ctx); err != nil {
			logger.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	limiter := middleware.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	rateLimited := middleware.RateLimitMiddleware(limiter, logger)
	invalidateReports := middleware.InvalidateOnWrite(guards.Reports, logger)

	// Public routes
	public := router.Group("/api")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/signup", rateLimited, deps.AuthHandler.Signup)
			auth.POST("/verify", rateLimited, deps.AuthHandler.Verify)
			auth.POST("/login", rateLimited, deps.AuthHandler.Login)
			auth.POST("/forgot-password", rateLimited, deps.AuthHandler.ForgotPassword)
			auth.POST("/reset-password", rateLimited, deps.AuthHandler.ResetPassword)
		}

		public.POST("/contacts", rateLimited, invalidateReports, deps.ContactHandler.SubmitContact)
		public.POST("/visitors/track", rateLimited, deps.NotificationHandler.TrackVisit)
	}

	// Protected routes
	protected := router.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware(guards.Tokens, guards.Admins, logger))
	protected.Use(invalidateReports)
	{
		protected.GET("/auth/me", deps.AuthHandler.Me)

		admins := protected.Group("/admins")
		admins.Use(middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin))
		{
			admins.GET("", deps.AdminHandler.GetAdmins)
			admins.PATCH("/:id/approve", deps.AdminHandler.ApproveAdmin)
			admins.DELETE("/:id", deps.AdminHandler.DeleteAdmin)
		}

		users := protected.Group("/users")
		{
			users.GET("", deps.UserHandler.GetUsers)
			users.GET("/:id", deps.UserHandler.GetUserByID)
			users.POST("", deps.UserHandler.CreateUser)
			users.PUT("/:id", deps.UserHandler.UpdateUser)
			users.PATCH("", deps.UserHandler.BulkUpdateUsers)
			users.DELETE("/:id", deps.UserHandler.DeleteUser)
			users.DELETE("", deps.UserHandler.BulkDeleteUsers)
		}

		courses := protected.Group("/courses")
		{
			courses.GET("", deps.CourseHandler.GetCourses)
			courses.POST("/reconcile", deps.CourseHandler.ReconcileCourses)
			courses.GET("/:key", deps.CourseHandler.GetCourse)
			courses.PUT("/:key", deps.CourseHandler.UpdateCourse)
			courses.DELETE("/:key", deps.CourseHandler.DeleteCourse)
		}

		blogs := protected.Group("/blogs")
		{
			blogs.GET("", deps.BlogHandler.GetPosts)
			blogs.GET("/:id", deps.BlogHandler.GetPost)
			blogs.POST("", deps.BlogHandler.CreatePost)
			blogs.PUT("/:id", deps.BlogHandler.UpdatePost)
			blogs.DELETE("/:id", deps.BlogHandler.DeletePost)
			blogs.GET("/:id/comments", deps.BlogHandler.GetComments)
			blogs.POST("/:id/comments", deps.BlogHandler.AddComment)
			blogs.DELETE("/:id/comments/:commentId", deps.BlogHandler.DeleteComment)
		}

		flashcards := protected.Group("/flashcards")
		{
			flashcards.GET("", deps.ContentHandler.GetFlashcards)
			flashcards.GET("/:id", deps.ContentHandler.GetFlashcard)
			flashcards.DELETE("/:id", deps.ContentHandler.DeleteFlashcard)
			flashcards.DELETE("", deps.ContentHandler.BulkDeleteFlashcards)
		}

		tests := protected.Group("/tests")
		{
			tests.GET("", deps.ContentHandler.GetTests)
			tests.GET("/:id", deps.ContentHandler.GetTest)
			tests.DELETE("/:id", deps.ContentHandler.DeleteTest)
		}

		plans := protected.Group("/plans")
		{
			plans.GET("", deps.PlanHandler.GetPlans)
			plans.GET("/:id", deps.PlanHandler.GetPlan)
			plans.POST("", deps.PlanHandler.CreatePlan)
			plans.PUT("/:id", deps.PlanHandler.UpdatePlan)
			plans.DELETE("/:id", deps.PlanHandler.DeletePlan)
		}

		contacts := protected.Group("/contacts")
		{
			contacts.GET("", deps.ContactHandler.GetContacts)
			contacts.GET("/:id", deps.ContactHandler.GetContact)
			contacts.PATCH("/:id", deps.ContactHandler.UpdateContact)
			contacts.DELETE("/:id", deps.ContactHandler.DeleteContact)
			contacts.POST("/:id/respond", deps.ContactHandler.RespondToContact)
		}

		// Reporting
		protected.GET("/analytics", deps.ReportHandler.GetAnalytics)
		protected.GET("/dashboard/analytics", deps.ReportHandler.GetDashboard)
		protected.GET("/billing/reports", deps.ReportHandler.GetBillingReport)
		protected.GET("/billing/transactions", deps.ReportHandler.GetTransactions)

		protected.GET("/notifications", deps.NotificationHandler.GetNotifications)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	return router
}
