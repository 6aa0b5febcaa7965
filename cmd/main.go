package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/studypilot/studypilot-backend/internal/db"
	"github.com/studypilot/studypilot-backend/internal/handlers"
	"github.com/studypilot/studypilot-backend/internal/logger"
	"github.com/studypilot/studypilot-backend/internal/middleware"
	"github.com/studypilot/studypilot-backend/internal/repos"
	"github.com/studypilot/studypilot-backend/internal/server"
	"github.com/studypilot/studypilot-backend/internal/services"
	"github.com/studypilot/studypilot-backend/internal/utils"
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
	allowedOrigins := utils.GetEnv("ALLOWED_ORIGINS", "http://localhost:3000", log)

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

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	subjectRepo := repos.NewSubjectRepo(thePG, log)
	examRepo := repos.NewExamRepo(thePG, log)
	materialRepo := repos.NewStudyMaterialRepo(thePG, log)
	contentRepo := repos.NewGeneratedContentRepo(thePG, log)
	planRepo := repos.NewStudyPlanRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	bucketService, err := services.NewBucketService(log)
	if err != nil {
		log.Error("Could not init BucketService", "error", err)
		os.Exit(1)
	}
	openaiClient, err := services.NewOpenAIClient(log)
	if err != nil {
		log.Error("Could not init OpenAIClient", "error", err)
		os.Exit(1)
	}
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	subjectService := services.NewSubjectService(thePG, log, subjectRepo, examRepo)
	examService := services.NewExamService(thePG, log, subjectRepo, examRepo)
	materialService := services.NewMaterialService(thePG, log, materialRepo, bucketService)
	genService := services.NewAIGenService(thePG, log, openaiClient, contentRepo)
	planService := services.NewStudyPlanService(thePG, log, openaiClient, examRepo, subjectRepo, materialRepo, planRepo, bucketService)
	dashboardService := services.NewDashboardService(thePG, log, subjectRepo, examRepo, materialRepo, contentRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	subjectHandler := handlers.NewSubjectHandler(log, subjectService, examService)
	examHandler := handlers.NewExamHandler(log, examService)
	materialHandler := handlers.NewMaterialHandler(log, materialService)
	aiHandler := handlers.NewAIHandler(log, materialService, genService, planService)
	planHandler := handlers.NewStudyPlanHandler(log, planService)
	dashboardHandler := handlers.NewDashboardHandler(log, dashboardService)
	healthcheckHandler := handlers.NewHealthcheckHandler()

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AllowedOrigins:     strings.Split(allowedOrigins, ","),
		AuthHandler:        authHandler,
		AuthMiddleware:     authMiddleware,
		SubjectHandler:     subjectHandler,
		ExamHandler:        examHandler,
		MaterialHandler:    materialHandler,
		AIHandler:          aiHandler,
		StudyPlanHandler:   planHandler,
		DashboardHandler:   dashboardHandler,
		HealthcheckHandler: healthcheckHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server failed", "error", err)
	}
}
