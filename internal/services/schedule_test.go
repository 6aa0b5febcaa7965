package services

import (
	"testing"
)

func TestComputeStudyWindow_SameDayExam(t *testing.T) {
	exams := []PlanExam{{ExamName: "Algebra Mid", Subject: "Algebra", ExamDate: "2024-01-01"}}
	window, err := ComputeStudyWindow("2024-01-01", exams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if window.TotalDays != 1 {
		t.Fatalf("expected 1 total day, got %d", window.TotalDays)
	}
	if window.EndDate != "2024-01-01" {
		t.Fatalf("expected no buffer day for a same-day exam, got end %s", window.EndDate)
	}
	if window.DaysUntilExam != 0 {
		t.Fatalf("expected 0 days until exam, got %d", window.DaysUntilExam)
	}
}

func TestComputeStudyWindow_BufferDayBeforeDistantExam(t *testing.T) {
	exams := []PlanExam{{ExamName: "Final", Subject: "History", ExamDate: "2024-01-10"}}
	window, err := ComputeStudyWindow("2024-01-01", exams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if window.EndDate != "2024-01-09" {
		t.Fatalf("expected end one day before the exam, got %s", window.EndDate)
	}
	if window.TotalDays != 9 {
		t.Fatalf("expected 9 total days, got %d", window.TotalDays)
	}
	if window.DaysUntilExam != 9 {
		t.Fatalf("expected 9 days until exam, got %d", window.DaysUntilExam)
	}
}

func TestComputeStudyWindow_NoBufferWithinTwoDays(t *testing.T) {
	exams := []PlanExam{{ExamName: "Quiz", Subject: "Biology", ExamDate: "2024-01-03"}}
	window, err := ComputeStudyWindow("2024-01-01", exams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if window.EndDate != "2024-01-03" {
		t.Fatalf("expected the exam day kept in the window, got end %s", window.EndDate)
	}
	if window.TotalDays != 3 {
		t.Fatalf("expected 3 total days, got %d", window.TotalDays)
	}
}

func TestComputeStudyWindow_UsesLatestExam(t *testing.T) {
	exams := []PlanExam{
		{ExamName: "Final", Subject: "History", ExamDate: "2024-02-01"},
		{ExamName: "Mid", Subject: "Algebra", ExamDate: "2024-01-10"},
	}
	window, err := ComputeStudyWindow("2024-01-01", exams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if window.EndDate != "2024-01-31" {
		t.Fatalf("expected window to end before the latest exam, got %s", window.EndDate)
	}
}

func TestComputeStudyWindow_RejectsStaleExam(t *testing.T) {
	exams := []PlanExam{{ExamName: "Old", Subject: "Physics", ExamDate: "2023-12-01"}}
	if _, err := ComputeStudyWindow("2024-01-01", exams); err == nil {
		t.Fatalf("expected error for an exam before the start date")
	}
}

func TestComputeStudyWindow_RejectsNoExams(t *testing.T) {
	if _, err := ComputeStudyWindow("2024-01-01", nil); err == nil {
		t.Fatalf("expected error for an empty exam list")
	}
}

func TestSortExamsByDate_StableForEqualDates(t *testing.T) {
	exams := []PlanExam{
		{ExamName: "B", ExamDate: "2024-01-05"},
		{ExamName: "A", ExamDate: "2024-01-05"},
		{ExamName: "C", ExamDate: "2024-01-02"},
	}
	sorted := SortExamsByDate(exams)
	if sorted[0].ExamName != "C" || sorted[1].ExamName != "B" || sorted[2].ExamName != "A" {
		t.Fatalf("unexpected order: %v, %v, %v", sorted[0].ExamName, sorted[1].ExamName, sorted[2].ExamName)
	}
	if exams[0].ExamName != "B" {
		t.Fatalf("input slice must not be mutated")
	}
}
