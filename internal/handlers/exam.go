package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/studypilot/studypilot-backend/internal/logger"
	"github.com/studypilot/studypilot-backend/internal/services"
)

type ExamHandler struct {
	log         *logger.Logger
	examService services.ExamService
}

func NewExamHandler(log *logger.Logger, examService services.ExamService) *ExamHandler {
	return &ExamHandler{
		log:         log.With("handler", "ExamHandler"),
		examService: examService,
	}
}

// POST /api/exams
func (eh *ExamHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		SubjectID   uuid.UUID `json:"subject_id"`
		ExamName    string    `json:"exam_name"`
		ExamDate    string    `json:"exam_date"`
		Description string    `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "invalid request body", "code": "validation_error"}})
		return
	}
	exam, err := eh.examService.CreateExam(c.Request.Context(), userID, req.SubjectID, req.ExamName, req.ExamDate, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exam)
}

// GET /api/exams/upcoming
func (eh *ExamHandler) ListUpcoming(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	exams, err := eh.examService.ListUpcomingExams(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exams": exams})
}

// PUT /api/exams/:id
func (eh *ExamHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	examID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		ExamName    string `json:"exam_name"`
		ExamDate    string `json:"exam_date"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "invalid request body", "code": "validation_error"}})
		return
	}
	if err := eh.examService.UpdateExam(c.Request.Context(), userID, examID, req.ExamName, req.ExamDate, req.Description); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "exam updated"})
}

// DELETE /api/exams/:id
func (eh *ExamHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	examID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := eh.examService.DeleteExam(c.Request.Context(), userID, examID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "exam deleted"})
}
