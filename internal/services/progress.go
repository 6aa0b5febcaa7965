package services

import (
	"fmt"
	"math"
	"time"

	"github.com/studypilot/studypilot-backend/internal/types"
)

// ProgressSummary is the derived view over a plan document: no progress state
// is stored beyond the completion map.
type ProgressSummary struct {
	Overall    OverallProgress `json:"overall"`
	PerSubject map[string]int  `json:"perSubject"`
	Today      *types.DailyPlan `json:"today"`
}

type OverallProgress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// TaskID is the positional completion key for the index-th task on a date.
func TaskID(date string, index int) string {
	return fmt.Sprintf("%s-%d", date, index)
}

// ComputeProgress walks the daily plan and counts completions against the
// positional key map. Per-subject percentages are rounded to integers;
// subjects with no tasks are omitted.
func ComputeProgress(doc *types.PlanDocument, today string) ProgressSummary {
	summary := ProgressSummary{PerSubject: map[string]int{}}
	if doc == nil || len(doc.DailyPlan) == 0 {
		return summary
	}

	subjectTotal := map[string]int{}
	subjectDone := map[string]int{}
	for _, day := range doc.DailyPlan {
		for i, task := range day.Tasks {
			summary.Overall.Total++
			subjectTotal[task.Subject]++
			if doc.CompletedTasks[TaskID(day.Date, i)] {
				summary.Overall.Completed++
				subjectDone[task.Subject]++
			}
		}
	}
	for subject, total := range subjectTotal {
		if total == 0 {
			continue
		}
		summary.PerSubject[subject] = int(math.Round(float64(subjectDone[subject]) / float64(total) * 100))
	}

	if today == "" {
		today = time.Now().Format(dateLayout)
	}
	for i := range doc.DailyPlan {
		if doc.DailyPlan[i].Date == today {
			summary.Today = &doc.DailyPlan[i]
			break
		}
	}
	if summary.Today == nil {
		summary.Today = &doc.DailyPlan[0]
	}
	return summary
}
