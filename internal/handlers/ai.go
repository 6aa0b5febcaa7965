package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/studypilot/studypilot-backend/internal/logger"
	"github.com/studypilot/studypilot-backend/internal/services"
)

type AIHandler struct {
	log             *logger.Logger
	materialService services.MaterialService
	genService      services.AIGenService
	planService     services.StudyPlanService
}

func NewAIHandler(
	log *logger.Logger,
	materialService services.MaterialService,
	genService services.AIGenService,
	planService services.StudyPlanService,
) *AIHandler {
	return &AIHandler{
		log:             log.With("handler", "AIHandler"),
		materialService: materialService,
		genService:      genService,
		planService:     planService,
	}
}

// POST /api/ai/extract-text
func (ai *AIHandler) ExtractText(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		FilePath string `json:"file_path"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "invalid request body", "code": "validation_error"}})
		return
	}
	text, err := ai.materialService.ExtractMaterialText(c.Request.Context(), userID, req.FilePath)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

// POST /api/ai/summary
func (ai *AIHandler) GenerateSummary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		Text        string     `json:"text"`
		DetailLevel string     `json:"detail_level"`
		MaterialID  *uuid.UUID `json:"material_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "invalid request body", "code": "validation_error"}})
		return
	}
	summary, err := ai.genService.GenerateSummary(c.Request.Context(), userID, req.MaterialID, req.Text, req.DetailLevel)
	if err != nil {
		writeError(c, err)
		return
	}
	level := req.DetailLevel
	if level == "" {
		level = "standard"
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary, "detail_level": level})
}

// POST /api/ai/flashcards
func (ai *AIHandler) GenerateFlashcards(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		Text       string     `json:"text"`
		MaterialID *uuid.UUID `json:"material_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "invalid request body", "code": "validation_error"}})
		return
	}
	flashcards, err := ai.genService.GenerateFlashcards(c.Request.Context(), userID, req.MaterialID, req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flashcards": flashcards})
}

// POST /api/ai/quiz
func (ai *AIHandler) GenerateQuiz(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		Text       string     `json:"text"`
		MaterialID *uuid.UUID `json:"material_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "invalid request body", "code": "validation_error"}})
		return
	}
	quiz, err := ai.genService.GenerateQuiz(c.Request.Context(), userID, req.MaterialID, req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quiz": quiz})
}

// POST /api/ai/extract-syllabus
func (ai *AIHandler) ExtractSyllabus(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "invalid request body", "code": "validation_error"}})
		return
	}
	syllabus, err := ai.genService.ExtractSyllabus(c.Request.Context(), req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"syllabus": syllabus})
}

// POST /api/ai/study-plan
func (ai *AIHandler) GenerateStudyPlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		ExamIDs          []uuid.UUID `json:"exam_ids"`
		StudyHoursPerDay int         `json:"study_hours_per_day"`
		StartDate        string      `json:"start_date"`
		AdditionalNotes  string      `json:"additional_notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "invalid request body", "code": "validation_error"}})
		return
	}
	doc, window, err := ai.planService.GeneratePlan(c.Request.Context(), userID, services.GeneratePlanInput{
		ExamIDs:          req.ExamIDs,
		StudyHoursPerDay: req.StudyHoursPerDay,
		StartDate:        req.StartDate,
		AdditionalNotes:  req.AdditionalNotes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"plan":       doc,
		"start_date": window.StartDate,
		"end_date":   window.EndDate,
		"total_days": window.TotalDays,
	})
}
