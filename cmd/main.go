package main

import (
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kkurosawa/ssbj-readiness-backend/internal/catalog"
	"github.com/kkurosawa/ssbj-readiness-backend/internal/db"
	"github.com/kkurosawa/ssbj-readiness-backend/internal/derive"
	"github.com/kkurosawa/ssbj-readiness-backend/internal/handlers"
	"github.com/kkurosawa/ssbj-readiness-backend/internal/logger"
	"github.com/kkurosawa/ssbj-readiness-backend/internal/middleware"
	"github.com/kkurosawa/ssbj-readiness-backend/internal/repos"
	"github.com/kkurosawa/ssbj-readiness-backend/internal/server"
	"github.com/kkurosawa/ssbj-readiness-backend/internal/services"
	"github.com/kkurosawa/ssbj-readiness-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	redisAddr := utils.GetEnv("REDIS_ADDR", "localhost:6379", log)
	cacheTTL := utils.GetEnvAsInt("DERIVATION_CACHE_TTL", 3600, log)

	// Catalog
	cat, err := catalog.Load()
	if err != nil {
		log.Error("Could not load criteria catalog", "error", err)
		os.Exit(1)
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Redis
	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	assessmentRepo := repos.NewAssessmentRepo(thePG, log)
	responseRepo := repos.NewResponseRepo(thePG, log)
	reviewRepo := repos.NewReviewRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	engine := derive.New(cat)
	derivationCache := services.NewRedisDerivationCache(redisClient, log, time.Duration(cacheTTL)*time.Second)
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	assessmentService := services.NewAssessmentService(thePG, log, cat, assessmentRepo, responseRepo, derivationCache)
	derivationService := services.NewDerivationService(log, engine, assessmentRepo, derivationCache)
	reviewService := services.NewReviewService(thePG, log, cat, reviewRepo, assessmentRepo)
	autoAssessService := services.NewAutoAssessService(log, cat)
	dashboardService := services.NewDashboardService(log, assessmentRepo, responseRepo)

	var aiScorerService services.AIScorerService
	aiClient, err := services.NewAIClient(log)
	if err != nil {
		log.Warn("AI scorer disabled", "error", err)
	} else {
		aiScorerService = services.NewAIScorerService(log, aiClient, cat)
	}

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	catalogHandler := handlers.NewCatalogHandler(cat)
	assessmentHandler := handlers.NewAssessmentHandler(assessmentService)
	derivationHandler := handlers.NewDerivationHandler(derivationService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	autoAssessHandler := handlers.NewAutoAssessHandler(autoAssessService, aiScorerService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:       authHandler,
		AuthMiddleware:    authMiddleware,
		CatalogHandler:    catalogHandler,
		AssessmentHandler: assessmentHandler,
		DerivationHandler: derivationHandler,
		ReviewHandler:     reviewHandler,
		AutoAssessHandler: autoAssessHandler,
		DashboardHandler:  dashboardHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Warn("Server failed", "error", err)
	}
}
