package services

import (
	"testing"

	"github.com/studypilot/studypilot-backend/internal/types"
)

func twoSubjectDoc() *types.PlanDocument {
	return &types.PlanDocument{
		DailyPlan: []types.DailyPlan{
			{
				Date: "2024-01-01",
				Day:  "Monday",
				Tasks: []types.Task{
					{Text: "Solve equations", Subject: "Algebra", ExamName: "Mid"},
					{Text: "Read chapter 3", Subject: "History", ExamName: "Final"},
				},
			},
			{
				Date: "2024-01-02",
				Day:  "Tuesday",
				Tasks: []types.Task{
					{Text: "Practice factoring", Subject: "Algebra", ExamName: "Mid"},
					{Text: "Review timeline", Subject: "History", ExamName: "Final"},
				},
			},
		},
		CompletedTasks: map[string]bool{
			TaskID("2024-01-01", 0): true,
			TaskID("2024-01-02", 1): true,
		},
	}
}

func TestComputeProgress_OverallAndPerSubject(t *testing.T) {
	summary := ComputeProgress(twoSubjectDoc(), "2024-01-01")
	if summary.Overall.Completed != 2 || summary.Overall.Total != 4 {
		t.Fatalf("expected 2/4, got %d/%d", summary.Overall.Completed, summary.Overall.Total)
	}
	if summary.PerSubject["Algebra"] != 50 {
		t.Fatalf("expected Algebra at 50%%, got %d", summary.PerSubject["Algebra"])
	}
	if summary.PerSubject["History"] != 50 {
		t.Fatalf("expected History at 50%%, got %d", summary.PerSubject["History"])
	}
}

func TestComputeProgress_TodayEntry(t *testing.T) {
	summary := ComputeProgress(twoSubjectDoc(), "2024-01-02")
	if summary.Today == nil || summary.Today.Date != "2024-01-02" {
		t.Fatalf("expected today's entry for 2024-01-02, got %+v", summary.Today)
	}
}

func TestComputeProgress_TodayFallsBackToFirstDay(t *testing.T) {
	summary := ComputeProgress(twoSubjectDoc(), "2024-03-15")
	if summary.Today == nil || summary.Today.Date != "2024-01-01" {
		t.Fatalf("expected fallback to the first day, got %+v", summary.Today)
	}
}

func TestComputeProgress_EmptyDocument(t *testing.T) {
	summary := ComputeProgress(&types.PlanDocument{}, "2024-01-01")
	if summary.Overall.Total != 0 || summary.Overall.Completed != 0 {
		t.Fatalf("expected zero totals, got %+v", summary.Overall)
	}
	if summary.Today != nil {
		t.Fatalf("expected no today entry for an empty plan")
	}
}

func TestComputeProgress_RoundsPercentages(t *testing.T) {
	doc := &types.PlanDocument{
		DailyPlan: []types.DailyPlan{
			{
				Date: "2024-01-01",
				Tasks: []types.Task{
					{Text: "a", Subject: "Chemistry"},
					{Text: "b", Subject: "Chemistry"},
					{Text: "c", Subject: "Chemistry"},
				},
			},
		},
		CompletedTasks: map[string]bool{TaskID("2024-01-01", 0): true},
	}
	summary := ComputeProgress(doc, "2024-01-01")
	if summary.PerSubject["Chemistry"] != 33 {
		t.Fatalf("expected 33, got %d", summary.PerSubject["Chemistry"])
	}
}
