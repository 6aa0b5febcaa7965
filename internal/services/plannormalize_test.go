package services

import (
	"testing"
)

func TestNormalizePlanOutput_StripsCodeFences(t *testing.T) {
	content := "```json\n{\"dailyPlan\":[{\"date\":\"2024-01-02\",\"day\":\"Tuesday\",\"tasks\":[{\"text\":\"Solve 10 problems\",\"examName\":\"Mid\",\"subject\":\"Algebra\",\"technique\":\"Practice Problems\",\"timeEstimate\":60}],\"hours\":2}],\"tips\":[\"Sleep well\"]}\n```"
	window := StudyWindow{StartDate: "2024-01-01", EndDate: "2024-01-02", TotalDays: 2}
	exams := []PlanExam{{ExamName: "Mid", Subject: "Algebra", ExamDate: "2024-01-03"}}

	doc, err := normalizePlanOutput(content, window, 2, exams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.DailyPlan) != 1 {
		t.Fatalf("expected 1 day, got %d", len(doc.DailyPlan))
	}
	if doc.DailyPlan[0].Tasks[0].Text != "Solve 10 problems" {
		t.Fatalf("unexpected task text %q", doc.DailyPlan[0].Tasks[0].Text)
	}
	if len(doc.Tips) != 1 || doc.Tips[0] != "Sleep well" {
		t.Fatalf("unexpected tips %v", doc.Tips)
	}
	if doc.CompletedTasks == nil || len(doc.CompletedTasks) != 0 {
		t.Fatalf("expected an empty completion map, got %v", doc.CompletedTasks)
	}
}

func TestNormalizePlanOutput_FallbackOnMalformedOutput(t *testing.T) {
	window := StudyWindow{StartDate: "2024-01-01", EndDate: "2024-01-01", TotalDays: 1}
	exams := []PlanExam{
		{ExamName: "Mid", Subject: "Algebra", ExamDate: "2024-01-01"},
		{ExamName: "Quiz", Subject: "Biology", ExamDate: "2024-01-01"},
		{ExamName: "Final", Subject: "History", ExamDate: "2024-01-01"},
	}

	doc, err := normalizePlanOutput("not json at all", window, 2, exams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.DailyPlan) != 1 {
		t.Fatalf("expected a single fallback day, got %d", len(doc.DailyPlan))
	}
	day := doc.DailyPlan[0]
	if day.Date != "2024-01-01" {
		t.Fatalf("fallback day must start at the window start, got %s", day.Date)
	}
	if day.Day != "Monday" {
		t.Fatalf("expected weekday Monday for 2024-01-01, got %q", day.Day)
	}
	if day.Hours != 2 {
		t.Fatalf("expected the daily budget on the fallback day, got %d", day.Hours)
	}
	if len(day.Tasks) != 3 {
		t.Fatalf("expected one task per exam, got %d", len(day.Tasks))
	}
	// 2h * 60min / 3 exams
	for _, task := range day.Tasks {
		if task.TimeEstimate != 40 {
			t.Fatalf("expected 40 minutes per task, got %d", task.TimeEstimate)
		}
		if task.Technique != "Active Recall" {
			t.Fatalf("expected Active Recall, got %q", task.Technique)
		}
	}
	if day.Tasks[0].ExamName != "Mid" {
		t.Fatalf("fallback tasks must follow chronological exam order, got %q", day.Tasks[0].ExamName)
	}
}

func TestNormalizePlanOutput_FallbackOnEmptyDailyPlan(t *testing.T) {
	window := StudyWindow{StartDate: "2024-01-01", EndDate: "2024-01-01", TotalDays: 1}
	exams := []PlanExam{{ExamName: "Mid", Subject: "Algebra", ExamDate: "2024-01-01"}}

	doc, err := normalizePlanOutput("{\"dailyPlan\":[],\"tips\":[]}", window, 3, exams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.DailyPlan) != 1 || len(doc.DailyPlan[0].Tasks) != 1 {
		t.Fatalf("expected one fallback day with one task")
	}
	if doc.DailyPlan[0].Tasks[0].TimeEstimate != 180 {
		t.Fatalf("expected 180 minutes for a single exam, got %d", doc.DailyPlan[0].Tasks[0].TimeEstimate)
	}
}

func TestNormalizePlanOutput_SortsDaysAscending(t *testing.T) {
	content := "{\"dailyPlan\":[{\"date\":\"2024-01-03\",\"tasks\":[]},{\"date\":\"2024-01-01\",\"tasks\":[]},{\"date\":\"2024-01-02\",\"tasks\":[]}]}"
	window := StudyWindow{StartDate: "2024-01-01", EndDate: "2024-01-03", TotalDays: 3}
	exams := []PlanExam{{ExamName: "Mid", Subject: "Algebra", ExamDate: "2024-01-04"}}

	doc, err := normalizePlanOutput(content, window, 2, exams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, want := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		if doc.DailyPlan[i].Date != want {
			t.Fatalf("expected day %d to be %s, got %s", i, want, doc.DailyPlan[i].Date)
		}
	}
}

func TestNormalizePlanOutput_MergesDuplicateDates(t *testing.T) {
	content := `{"dailyPlan":[
		{"date":"2024-01-02","day":"","tasks":[{"text":"Review notes","examName":"Mid","subject":"Algebra","technique":"Active Recall","timeEstimate":30}],"hours":1},
		{"date":"2024-01-01","day":"Monday","tasks":[{"text":"Read chapter 1","examName":"Mid","subject":"Algebra","technique":"Spaced Repetition","timeEstimate":45}],"hours":2},
		{"date":"2024-01-02","day":"Tuesday","tasks":[{"text":"Practice set","examName":"Mid","subject":"Algebra","technique":"Practice Problems","timeEstimate":60}],"hours":2}
	]}`
	window := StudyWindow{StartDate: "2024-01-01", EndDate: "2024-01-02", TotalDays: 2}
	exams := []PlanExam{{ExamName: "Mid", Subject: "Algebra", ExamDate: "2024-01-03"}}

	doc, err := normalizePlanOutput(content, window, 2, exams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.DailyPlan) != 2 {
		t.Fatalf("expected duplicate dates to collapse into 2 days, got %d", len(doc.DailyPlan))
	}
	if doc.DailyPlan[0].Date != "2024-01-01" || doc.DailyPlan[1].Date != "2024-01-02" {
		t.Fatalf("unexpected dates %s, %s", doc.DailyPlan[0].Date, doc.DailyPlan[1].Date)
	}
	merged := doc.DailyPlan[1]
	if len(merged.Tasks) != 2 {
		t.Fatalf("expected merged day to carry both tasks, got %d", len(merged.Tasks))
	}
	// first-seen tasks keep their position so existing task ids stay valid
	if merged.Tasks[0].Text != "Review notes" || merged.Tasks[1].Text != "Practice set" {
		t.Fatalf("unexpected task order %q, %q", merged.Tasks[0].Text, merged.Tasks[1].Text)
	}
	if merged.Day != "Tuesday" {
		t.Fatalf("expected the first non-empty day name, got %q", merged.Day)
	}
	if merged.Hours != 2 {
		t.Fatalf("expected the larger hours value, got %d", merged.Hours)
	}
}

func TestNormalizePlanOutput_FatalWithoutExams(t *testing.T) {
	window := StudyWindow{StartDate: "2024-01-01", EndDate: "2024-01-01", TotalDays: 1}
	if _, err := normalizePlanOutput("garbage", window, 2, nil); err == nil {
		t.Fatalf("expected error when no fallback is possible")
	}
}
