package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/studypilot/studypilot-backend/internal/repos"
	"github.com/studypilot/studypilot-backend/internal/types"
)

func newPlanService(t *testing.T) StudyPlanService {
	t.Helper()
	gdb := newTestDB(t)
	log := newTestLogger(t)
	planRepo := repos.NewStudyPlanRepo(gdb, log)
	examRepo := repos.NewExamRepo(gdb, log)
	subjectRepo := repos.NewSubjectRepo(gdb, log)
	materialRepo := repos.NewStudyMaterialRepo(gdb, log)
	return NewStudyPlanService(gdb, log, nil, examRepo, subjectRepo, materialRepo, planRepo, nil)
}

func seedPlan(t *testing.T, svc StudyPlanService, userID uuid.UUID) *types.StudyPlan {
	t.Helper()
	doc := &types.PlanDocument{
		DailyPlan: []types.DailyPlan{
			{
				Date: "2024-01-01",
				Day:  "Monday",
				Tasks: []types.Task{
					{Text: "Solve equations", ExamName: "Mid", Subject: "Algebra", Technique: "Practice Problems", TimeEstimate: 60},
					{Text: "Review notes", ExamName: "Mid", Subject: "Algebra", Technique: "Summarizing", TimeEstimate: 30},
				},
				Hours: 2,
			},
			{
				Date: "2024-01-03",
				Day:  "Wednesday",
				Tasks: []types.Task{
					{Text: "Practice recall", ExamName: "Mid", Subject: "Algebra", Technique: "Active Recall", TimeEstimate: 45},
				},
				Hours: 1,
			},
		},
		Tips: []string{"Take breaks"},
	}
	plan, err := svc.SavePlan(context.Background(), userID, "Exam prep", "2024-01-01", "2024-01-03", doc)
	if err != nil {
		t.Fatalf("seed plan: %v", err)
	}
	return plan
}

func TestSavePlan_DefaultsCompletionMap(t *testing.T) {
	svc := newPlanService(t)
	userID := uuid.New()
	plan := seedPlan(t, svc, userID)

	var doc types.PlanDocument
	if err := json.Unmarshal(plan.PlanData, &doc); err != nil {
		t.Fatalf("decode plan data: %v", err)
	}
	if doc.CompletedTasks == nil || len(doc.CompletedTasks) != 0 {
		t.Fatalf("expected empty completion map, got %v", doc.CompletedTasks)
	}
}

func TestGetCurrentPlan_NewestWins(t *testing.T) {
	svc := newPlanService(t)
	userID := uuid.New()
	seedPlan(t, svc, userID)
	time.Sleep(5 * time.Millisecond)
	second := seedPlan(t, svc, userID)

	current, err := svc.GetCurrentPlan(context.Background(), userID)
	if err != nil {
		t.Fatalf("get current: %v", err)
	}
	if current == nil || current.ID != second.ID {
		t.Fatalf("expected the newest plan to be current")
	}
}

func TestGetCurrentPlan_NilWithoutPlans(t *testing.T) {
	svc := newPlanService(t)
	current, err := svc.GetCurrentPlan(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("get current: %v", err)
	}
	if current != nil {
		t.Fatalf("expected nil for a user with no plans")
	}
}

func TestUpdatePlan_ReplacesCompletionMapWholesale(t *testing.T) {
	svc := newPlanService(t)
	userID := uuid.New()
	plan := seedPlan(t, svc, userID)

	if _, err := svc.ToggleTask(context.Background(), userID, plan.ID, TaskID("2024-01-01", 0), true); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	updated, err := svc.UpdatePlan(context.Background(), userID, plan.ID, UpdatePlanInput{
		CompletedTasks: map[string]bool{TaskID("2024-01-03", 0): true},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	doc, err := DecodePlanDocument(updated.PlanData)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.CompletedTasks[TaskID("2024-01-01", 0)] {
		t.Fatalf("previous completion must be gone after a wholesale replace")
	}
	if !doc.CompletedTasks[TaskID("2024-01-03", 0)] {
		t.Fatalf("new completion missing")
	}
	if len(doc.DailyPlan) != 2 || len(doc.Tips) != 1 {
		t.Fatalf("omitted fields must keep their stored values")
	}
}

func TestUpdatePlan_PreservesCompletionMapWhenOmitted(t *testing.T) {
	svc := newPlanService(t)
	userID := uuid.New()
	plan := seedPlan(t, svc, userID)

	if _, err := svc.ToggleTask(context.Background(), userID, plan.ID, TaskID("2024-01-01", 1), true); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	updated, err := svc.UpdatePlan(context.Background(), userID, plan.ID, UpdatePlanInput{
		Tips: []string{"Hydrate", "Sleep"},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	doc, err := DecodePlanDocument(updated.PlanData)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !doc.CompletedTasks[TaskID("2024-01-01", 1)] {
		t.Fatalf("completion map must survive an update that omits it")
	}
	if len(doc.Tips) != 2 {
		t.Fatalf("expected replaced tips, got %v", doc.Tips)
	}
}

func TestToggleTask_RoundTrip(t *testing.T) {
	svc := newPlanService(t)
	userID := uuid.New()
	plan := seedPlan(t, svc, userID)
	taskID := TaskID("2024-01-01", 0)

	doc, err := svc.ToggleTask(context.Background(), userID, plan.ID, taskID, true)
	if err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if !doc.CompletedTasks[taskID] {
		t.Fatalf("expected task marked complete")
	}

	doc, err = svc.ToggleTask(context.Background(), userID, plan.ID, taskID, false)
	if err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if _, present := doc.CompletedTasks[taskID]; present {
		t.Fatalf("expected the key removed when marked incomplete, got %v", doc.CompletedTasks)
	}
}

func TestToggleTask_RepeatedCompleteIsIdempotent(t *testing.T) {
	svc := newPlanService(t)
	userID := uuid.New()
	plan := seedPlan(t, svc, userID)
	taskID := TaskID("2024-01-01", 0)

	if _, err := svc.ToggleTask(context.Background(), userID, plan.ID, taskID, true); err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	doc, err := svc.ToggleTask(context.Background(), userID, plan.ID, taskID, true)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if !doc.CompletedTasks[taskID] {
		t.Fatalf("a retried completion must leave the task complete, got %v", doc.CompletedTasks)
	}

	current, err := svc.GetCurrentPlan(context.Background(), userID)
	if err != nil {
		t.Fatalf("get current: %v", err)
	}
	stored, err := DecodePlanDocument(current.PlanData)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !stored.CompletedTasks[taskID] {
		t.Fatalf("persisted state must match, got %v", stored.CompletedTasks)
	}
}

func TestToggleTask_UnknownPlan(t *testing.T) {
	svc := newPlanService(t)
	if _, err := svc.ToggleTask(context.Background(), uuid.New(), uuid.New(), "2024-01-01-0", true); err == nil {
		t.Fatalf("expected not found error")
	}
}

func TestAddTask_AppendsToExistingDay(t *testing.T) {
	svc := newPlanService(t)
	userID := uuid.New()
	plan := seedPlan(t, svc, userID)

	doc, err := svc.AddTask(context.Background(), userID, plan.ID, "2024-01-01", types.Task{
		Text: "Extra drill", ExamName: "Mid", Subject: "Algebra", Technique: "Pomodoro", TimeEstimate: 25,
	})
	if err != nil {
		t.Fatalf("add task: %v", err)
	}
	day := doc.DailyPlan[0]
	if len(day.Tasks) != 3 {
		t.Fatalf("expected 3 tasks on the day, got %d", len(day.Tasks))
	}
	if day.Tasks[2].Text != "Extra drill" {
		t.Fatalf("new task must be appended at the end, got %q", day.Tasks[2].Text)
	}
	if day.Tasks[0].Text != "Solve equations" {
		t.Fatalf("existing task order must not change")
	}
}

func TestAddTask_InsertsNewDayInSortedPosition(t *testing.T) {
	svc := newPlanService(t)
	userID := uuid.New()
	plan := seedPlan(t, svc, userID)

	doc, err := svc.AddTask(context.Background(), userID, plan.ID, "2024-01-02", types.Task{
		Text: "Flashcard session", ExamName: "Mid", Subject: "Algebra", Technique: "Spaced Repetition", TimeEstimate: 20,
	})
	if err != nil {
		t.Fatalf("add task: %v", err)
	}
	if len(doc.DailyPlan) != 3 {
		t.Fatalf("expected a new day, got %d days", len(doc.DailyPlan))
	}
	if doc.DailyPlan[1].Date != "2024-01-02" {
		t.Fatalf("new day must land between existing days, got order %s, %s, %s",
			doc.DailyPlan[0].Date, doc.DailyPlan[1].Date, doc.DailyPlan[2].Date)
	}
	if doc.DailyPlan[1].Day != "Tuesday" {
		t.Fatalf("expected weekday Tuesday, got %q", doc.DailyPlan[1].Day)
	}
}

func TestDeletePlan_RemovesPlan(t *testing.T) {
	svc := newPlanService(t)
	userID := uuid.New()
	plan := seedPlan(t, svc, userID)

	if err := svc.DeletePlan(context.Background(), userID, plan.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	current, err := svc.GetCurrentPlan(context.Background(), userID)
	if err != nil {
		t.Fatalf("get current: %v", err)
	}
	if current != nil {
		t.Fatalf("expected no plan after delete")
	}
	if err := svc.DeletePlan(context.Background(), userID, plan.ID); err == nil {
		t.Fatalf("expected not found on a second delete")
	}
}

func TestDeletePlan_ScopedToOwner(t *testing.T) {
	svc := newPlanService(t)
	owner := uuid.New()
	plan := seedPlan(t, svc, owner)

	if err := svc.DeletePlan(context.Background(), uuid.New(), plan.ID); err == nil {
		t.Fatalf("expected not found for a different user")
	}
	current, err := svc.GetCurrentPlan(context.Background(), owner)
	if err != nil {
		t.Fatalf("get current: %v", err)
	}
	if current == nil {
		t.Fatalf("owner's plan must survive")
	}
}
