package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/studypilot/studypilot-backend/internal/handlers"
	"github.com/studypilot/studypilot-backend/internal/middleware"
)

type RouterConfig struct {
	AllowedOrigins     []string
	AuthHandler        *handlers.AuthHandler
	AuthMiddleware     *middleware.AuthMiddleware
	SubjectHandler     *handlers.SubjectHandler
	ExamHandler        *handlers.ExamHandler
	MaterialHandler    *handlers.MaterialHandler
	AIHandler          *handlers.AIHandler
	StudyPlanHandler   *handlers.StudyPlanHandler
	DashboardHandler   *handlers.DashboardHandler
	HealthcheckHandler *handlers.HealthcheckHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", cfg.HealthcheckHandler.Healthcheck)
	router.POST("/api/auth/register", cfg.AuthHandler.Register)
	router.POST("/api/auth/login", cfg.AuthHandler.Login)
	router.POST("/api/auth/refresh", cfg.AuthHandler.Refresh)

	// Protected
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	api.POST("/auth/logout", cfg.AuthHandler.Logout)

	api.POST("/subjects", cfg.SubjectHandler.Create)
	api.GET("/subjects", cfg.SubjectHandler.List)
	api.PUT("/subjects/:id", cfg.SubjectHandler.Update)
	api.DELETE("/subjects/:id", cfg.SubjectHandler.Delete)
	api.GET("/subjects/:id/exams", cfg.SubjectHandler.ListExams)

	api.POST("/exams", cfg.ExamHandler.Create)
	api.GET("/exams/upcoming", cfg.ExamHandler.ListUpcoming)
	api.PUT("/exams/:id", cfg.ExamHandler.Update)
	api.DELETE("/exams/:id", cfg.ExamHandler.Delete)

	api.POST("/materials", cfg.MaterialHandler.Upload)
	api.GET("/materials", cfg.MaterialHandler.List)
	api.DELETE("/materials/:id", cfg.MaterialHandler.Delete)

	api.POST("/ai/extract-text", cfg.AIHandler.ExtractText)
	api.POST("/ai/summary", cfg.AIHandler.GenerateSummary)
	api.POST("/ai/flashcards", cfg.AIHandler.GenerateFlashcards)
	api.POST("/ai/quiz", cfg.AIHandler.GenerateQuiz)
	api.POST("/ai/extract-syllabus", cfg.AIHandler.ExtractSyllabus)
	api.POST("/ai/study-plan", cfg.AIHandler.GenerateStudyPlan)

	api.GET("/study-plans", cfg.StudyPlanHandler.GetCurrent)
	api.POST("/study-plans", cfg.StudyPlanHandler.Save)
	api.GET("/study-plans/progress", cfg.StudyPlanHandler.Progress)
	api.PUT("/study-plans/:id", cfg.StudyPlanHandler.Update)
	api.DELETE("/study-plans/:id", cfg.StudyPlanHandler.Delete)
	api.POST("/study-plans/:id/toggle-task", cfg.StudyPlanHandler.ToggleTask)
	api.POST("/study-plans/:id/tasks", cfg.StudyPlanHandler.AddTask)

	api.GET("/dashboard/stats", cfg.DashboardHandler.Stats)

	return router
}
