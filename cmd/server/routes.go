package main

import (
	"github.com/gin-gonic/gin"
	"github.com/repustack/repustack/backend/internal/handlers"
	"github.com/repustack/repustack/backend/internal/middleware"
	"github.com/repustack/repustack/backend/internal/models"
	"github.com/repustack/repustack/backend/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	db := models.GetDB()

	// Rate limiter for the public form routes
	formLimiter := middleware.NewRateLimiter(5, 10)

	// Health check
	healthHandler := handlers.NewHealthHandler()
	r.GET("/health", healthHandler.CheckHealth)

	// Public feedback form (token-keyed, rate limited)
	publicHandler := handlers.NewPublicHandler(db, svc.responses)
	form := r.Group("/f", formLimiter.Middleware())
	{
		form.GET("/:token", publicHandler.GetForm)
		form.POST("/:token", publicHandler.SubmitForm)
	}

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/login", svc.authHandler.Login)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(), middleware.AuditLog())
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.POST("/auth/logout", svc.authHandler.Logout)
			protected.POST("/auth/change-password", svc.authHandler.ChangePassword)

			// Dashboard
			dashboardHandler := handlers.NewDashboardHandler(db)
			protected.GET("/dashboard/stats", dashboardHandler.GetStats)

			// Business profile, locations, departments
			businessHandler := handlers.NewBusinessHandler(db)
			protected.GET("/business", businessHandler.Get)
			protected.PUT("/business", businessHandler.Update)
			protected.GET("/business/locations", businessHandler.ListLocations)
			protected.POST("/business/locations", businessHandler.CreateLocation)
			protected.DELETE("/business/locations/:id", businessHandler.DeleteLocation)
			protected.GET("/business/departments", businessHandler.ListDepartments)
			protected.POST("/business/departments", businessHandler.CreateDepartment)
			protected.DELETE("/business/departments/:id", businessHandler.DeleteDepartment)

			// Feedback templates and their questions
			templateHandler := handlers.NewTemplateHandler(db)
			protected.GET("/templates", templateHandler.List)
			protected.GET("/templates/:id", templateHandler.Get)
			protected.POST("/templates", templateHandler.Create)
			protected.PUT("/templates/:id", templateHandler.Update)
			protected.DELETE("/templates/:id", templateHandler.Delete)

			questionHandler := handlers.NewQuestionHandler(db)
			protected.POST("/templates/:id/questions", questionHandler.Create)
			protected.PUT("/questions/:id", questionHandler.Update)
			protected.POST("/questions/:id/reorder", questionHandler.Reorder)
			protected.DELETE("/questions/:id", questionHandler.Delete)

			// Customer directory
			customerHandler := handlers.NewCustomerHandler(db)
			protected.GET("/customers", customerHandler.List)
			protected.GET("/customers/:id", customerHandler.Get)
			protected.POST("/customers", customerHandler.Create)
			protected.PUT("/customers/:id", customerHandler.Update)
			protected.DELETE("/customers/:id", customerHandler.Delete)
			protected.POST("/customers/import", customerHandler.ImportCSV)
			protected.POST("/customers/batch", customerHandler.BatchCreate)

			// Feedback requests and distribution
			requestHandler := handlers.NewRequestHandler(db, svc.distribution, svc.responses)
			protected.GET("/requests", requestHandler.List)
			protected.GET("/requests/:id", requestHandler.Get)
			protected.POST("/requests", requestHandler.Create)
			protected.POST("/requests/:id/distribute", requestHandler.Distribute)
			protected.DELETE("/requests/:id", requestHandler.Delete)
			protected.GET("/requests/:id/responses", requestHandler.Responses)

			// Sentiment
			sentimentHandler := handlers.NewSentimentHandler(svc.responses)
			protected.GET("/sentiment/stats", sentimentHandler.Stats)
			protected.POST("/answers/:id/reclassify", sentimentHandler.Reclassify)
		}

		// Admin only routes
		admin := api.Group("")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			activityLogHandler := handlers.NewActivityLogHandler(db)
			admin.GET("/activity-logs", activityLogHandler.List)
			admin.GET("/activity-logs/modules", activityLogHandler.GetModules)
		}
	}
}
