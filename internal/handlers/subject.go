package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studypilot/studypilot-backend/internal/logger"
	"github.com/studypilot/studypilot-backend/internal/services"
)

type SubjectHandler struct {
	log            *logger.Logger
	subjectService services.SubjectService
	examService    services.ExamService
}

func NewSubjectHandler(log *logger.Logger, subjectService services.SubjectService, examService services.ExamService) *SubjectHandler {
	return &SubjectHandler{
		log:            log.With("handler", "SubjectHandler"),
		subjectService: subjectService,
		examService:    examService,
	}
}

// POST /api/subjects
func (sh *SubjectHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "invalid request body", "code": "validation_error"}})
		return
	}
	subject, err := sh.subjectService.CreateSubject(c.Request.Context(), userID, req.Name, req.Color)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, subject)
}

// GET /api/subjects
func (sh *SubjectHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	subjects, err := sh.subjectService.ListSubjects(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subjects": subjects})
}

// PUT /api/subjects/:id
func (sh *SubjectHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	subjectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "invalid request body", "code": "validation_error"}})
		return
	}
	if err := sh.subjectService.UpdateSubject(c.Request.Context(), userID, subjectID, req.Name, req.Color); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "subject updated"})
}

// DELETE /api/subjects/:id
func (sh *SubjectHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	subjectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := sh.subjectService.DeleteSubject(c.Request.Context(), userID, subjectID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "subject deleted"})
}

// GET /api/subjects/:id/exams
func (sh *SubjectHandler) ListExams(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	subjectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	exams, err := sh.examService.ListExamsBySubject(c.Request.Context(), userID, subjectID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exams": exams})
}
