package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/kkurosawa/ssbj-readiness-backend/internal/handlers"
	"github.com/kkurosawa/ssbj-readiness-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler       *handlers.AuthHandler
	AuthMiddleware    *middleware.AuthMiddleware
	CatalogHandler    *handlers.CatalogHandler
	AssessmentHandler *handlers.AssessmentHandler
	DerivationHandler *handlers.DerivationHandler
	ReviewHandler     *handlers.ReviewHandler
	AutoAssessHandler *handlers.AutoAssessHandler
	DashboardHandler  *handlers.DashboardHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)
	router.GET("/catalog", cfg.CatalogHandler.Get)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)
	// Assessments
	protected.POST("/assessments", cfg.AssessmentHandler.Create)
	protected.GET("/assessments", cfg.AssessmentHandler.List)
	protected.GET("/assessments/:id", cfg.AssessmentHandler.Get)
	protected.PUT("/assessments/:id/scores", cfg.AssessmentHandler.SaveScores)
	protected.POST("/assessments/:id/complete", cfg.AssessmentHandler.Complete)
	protected.DELETE("/assessments/:id", cfg.AssessmentHandler.Delete)
	// Derived views
	protected.GET("/assessments/:id/report", cfg.DerivationHandler.Report)
	protected.GET("/assessments/:id/roadmap", cfg.DerivationHandler.Roadmap)
	protected.GET("/assessments/:id/raci", cfg.DerivationHandler.RACI)
	protected.GET("/assessments/:id/relief", cfg.DerivationHandler.Relief)
	protected.GET("/assessments/:id/summary", cfg.DerivationHandler.Summary)
	protected.GET("/assessments/:id/audit-simulation", cfg.DerivationHandler.AuditSimulation)
	protected.GET("/assessments/:id/checklist", cfg.DerivationHandler.Checklist)
	// Reviews
	protected.POST("/assessments/:id/reviews", cfg.ReviewHandler.Start)
	protected.GET("/reviews/:id", cfg.ReviewHandler.Get)
	protected.PUT("/reviews/:id/items", cfg.ReviewHandler.RecordItem)
	protected.POST("/reviews/:id/finish", cfg.ReviewHandler.Finish)
	// Auto-assessment
	protected.POST("/auto-assess", cfg.AutoAssessHandler.Analyze)
	protected.POST("/auto-assess/ai", cfg.AutoAssessHandler.AnalyzeAI)
	// Dashboard
	protected.GET("/dashboard", cfg.DashboardHandler.Get)

	return router
}
