package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studypilot/studypilot-backend/internal/logger"
	"github.com/studypilot/studypilot-backend/internal/services"
	"github.com/studypilot/studypilot-backend/internal/types"
)

type StudyPlanHandler struct {
	log         *logger.Logger
	planService services.StudyPlanService
}

func NewStudyPlanHandler(log *logger.Logger, planService services.StudyPlanService) *StudyPlanHandler {
	return &StudyPlanHandler{
		log:         log.With("handler", "StudyPlanHandler"),
		planService: planService,
	}
}

// GET /api/study-plans — the most recent plan, or null when none exists.
func (ph *StudyPlanHandler) GetCurrent(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	plan, err := ph.planService.GetCurrentPlan(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	if plan == nil {
		c.JSON(http.StatusOK, gin.H{"plan": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": plan})
}

// POST /api/study-plans
func (ph *StudyPlanHandler) Save(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		PlanName  string              `json:"plan_name"`
		StartDate string              `json:"start_date"`
		EndDate   string              `json:"end_date"`
		PlanData  *types.PlanDocument `json:"plan_data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "invalid request body", "code": "validation_error"}})
		return
	}
	plan, err := ph.planService.SavePlan(c.Request.Context(), userID, req.PlanName, req.StartDate, req.EndDate, req.PlanData)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"plan": plan})
}

// PUT /api/study-plans/:id — merge update; omitted fields keep their stored
// values, a provided completed task map replaces the stored one wholesale.
func (ph *StudyPlanHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		PlanName       *string           `json:"plan_name"`
		DailyPlan      []types.DailyPlan `json:"daily_plan"`
		Tips           []string          `json:"tips"`
		CompletedTasks map[string]bool   `json:"completed_tasks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "invalid request body", "code": "validation_error"}})
		return
	}
	plan, err := ph.planService.UpdatePlan(c.Request.Context(), userID, planID, services.UpdatePlanInput{
		PlanName:       req.PlanName,
		DailyPlan:      req.DailyPlan,
		Tips:           req.Tips,
		CompletedTasks: req.CompletedTasks,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": plan})
}

// POST /api/study-plans/:id/toggle-task
func (ph *StudyPlanHandler) ToggleTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		TaskID    string `json:"task_id"`
		Completed bool   `json:"completed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "invalid request body", "code": "validation_error"}})
		return
	}
	doc, err := ph.planService.ToggleTask(c.Request.Context(), userID, planID, req.TaskID, req.Completed)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan_data": doc})
}

// POST /api/study-plans/:id/tasks
func (ph *StudyPlanHandler) AddTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Date string     `json:"date"`
		Task types.Task `json:"task"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "invalid request body", "code": "validation_error"}})
		return
	}
	doc, err := ph.planService.AddTask(c.Request.Context(), userID, planID, req.Date, req.Task)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan_data": doc})
}

// DELETE /api/study-plans/:id
func (ph *StudyPlanHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ph.planService.DeletePlan(c.Request.Context(), userID, planID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "study plan deleted"})
}

// GET /api/study-plans/progress — derived completion stats for the current
// plan.
func (ph *StudyPlanHandler) Progress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	plan, err := ph.planService.GetCurrentPlan(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	if plan == nil {
		c.JSON(http.StatusOK, gin.H{"progress": nil})
		return
	}
	doc, err := services.DecodePlanDocument(plan.PlanData)
	if err != nil {
		writeError(c, err)
		return
	}
	summary := services.ComputeProgress(doc, "")
	c.JSON(http.StatusOK, gin.H{"progress": summary})
}
