package services

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/studypilot/studypilot-backend/internal/apierr"
	"github.com/studypilot/studypilot-backend/internal/types"
)

// normalizePlanOutput turns raw model output into a well-formed plan
// document. Malformed or empty output degrades to a deterministic single-day
// fallback rather than failing: the student always gets a plan when at least
// one exam exists.
func normalizePlanOutput(content string, window StudyWindow, studyHoursPerDay int, sortedExams []PlanExam) (*types.PlanDocument, error) {
	var doc types.PlanDocument
	if err := json.Unmarshal([]byte(stripCodeFences(content)), &doc); err != nil {
		doc = types.PlanDocument{}
	}

	if len(doc.DailyPlan) == 0 {
		if len(sortedExams) == 0 {
			return nil, apierr.Malformed(fmt.Errorf("failed to parse study plan from AI response"))
		}
		doc.DailyPlan = []types.DailyPlan{fallbackDay(window.StartDate, studyHoursPerDay, sortedExams)}
	}

	sort.SliceStable(doc.DailyPlan, func(i, j int) bool {
		return doc.DailyPlan[i].Date < doc.DailyPlan[j].Date
	})
	doc.DailyPlan = mergeDuplicateDates(doc.DailyPlan)

	if doc.Tips == nil {
		doc.Tips = []string{}
	}
	if doc.CompletedTasks == nil {
		doc.CompletedTasks = map[string]bool{}
	}
	return &doc, nil
}

// mergeDuplicateDates collapses sorted days that share a date into one day,
// keeping task order so positional task ids stay stable. Dates must be unique
// within a plan or task ids collide across days.
func mergeDuplicateDates(days []types.DailyPlan) []types.DailyPlan {
	merged := make([]types.DailyPlan, 0, len(days))
	for _, day := range days {
		if n := len(merged); n > 0 && merged[n-1].Date == day.Date {
			prev := &merged[n-1]
			prev.Tasks = append(prev.Tasks, day.Tasks...)
			if prev.Day == "" {
				prev.Day = day.Day
			}
			if day.Hours > prev.Hours {
				prev.Hours = day.Hours
			}
			continue
		}
		merged = append(merged, day)
	}
	return merged
}

// fallbackDay builds one intensive review day: one Active Recall task per
// exam, splitting the daily budget evenly.
func fallbackDay(startDate string, studyHoursPerDay int, sortedExams []PlanExam) types.DailyPlan {
	dayName := ""
	if parsed, err := time.Parse(dateLayout, startDate); err == nil {
		dayName = parsed.Weekday().String()
	}
	perTask := int(math.Round(float64(studyHoursPerDay*60) / float64(len(sortedExams))))
	tasks := make([]types.Task, 0, len(sortedExams))
	for _, exam := range sortedExams {
		tasks = append(tasks, types.Task{
			Text:         fmt.Sprintf("Review key concepts and practice problems for %s", exam.ExamName),
			ExamName:     exam.ExamName,
			Subject:      exam.Subject,
			Technique:    "Active Recall",
			TimeEstimate: perTask,
		})
	}
	return types.DailyPlan{
		Date:  startDate,
		Day:   dayName,
		Tasks: tasks,
		Hours: studyHoursPerDay,
	}
}
