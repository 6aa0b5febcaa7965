package services

import (
	"sort"
	"time"

	"github.com/studypilot/studypilot-backend/internal/apierr"
)

// PlanExam is one exam as fed into plan generation: denormalized so the
// prompt builder needs no further lookups.
type PlanExam struct {
	ExamName string
	Subject  string
	ExamDate string
	Syllabus string
}

// StudyWindow is the planning period derived from the start date and the
// exam schedule. Dates are YYYY-MM-DD.
type StudyWindow struct {
	StartDate     string
	EndDate       string
	TotalDays     int
	DaysUntilExam int
}

// SortExamsByDate orders exams chronologically, preserving input order for
// equal dates. The plan prompt numbers exams in this order, so stability
// matters.
func SortExamsByDate(exams []PlanExam) []PlanExam {
	sorted := make([]PlanExam, len(exams))
	copy(sorted, exams)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ExamDate < sorted[j].ExamDate
	})
	return sorted
}

// ComputeStudyWindow derives the study period ending one day before the last
// exam, except when the exam is within two days, in which case the exam day
// itself stays in the window. The window always covers at least one day.
func ComputeStudyWindow(startDate string, exams []PlanExam) (StudyWindow, error) {
	if len(exams) == 0 {
		return StudyWindow{}, apierr.Validation("at least one exam is required")
	}
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return StudyWindow{}, apierr.Validation("start date must be YYYY-MM-DD")
	}

	sorted := SortExamsByDate(exams)
	last, err := time.Parse(dateLayout, sorted[len(sorted)-1].ExamDate)
	if err != nil {
		return StudyWindow{}, apierr.Validation("exam date %q must be YYYY-MM-DD", sorted[len(sorted)-1].ExamDate)
	}
	for _, exam := range sorted {
		d, pErr := time.Parse(dateLayout, exam.ExamDate)
		if pErr != nil {
			return StudyWindow{}, apierr.Validation("exam date %q must be YYYY-MM-DD", exam.ExamDate)
		}
		if d.Before(start) {
			return StudyWindow{}, apierr.Validation("exam %q is before the start date", exam.ExamName)
		}
	}

	daysUntilExam := daysBetweenCeil(start, last)

	end := last
	if daysUntilExam > 2 {
		end = end.AddDate(0, 0, -1)
	}

	totalDays := daysBetweenCeil(start, end) + 1
	if totalDays < 1 {
		totalDays = 1
	}

	return StudyWindow{
		StartDate:     start.Format(dateLayout),
		EndDate:       end.Format(dateLayout),
		TotalDays:     totalDays,
		DaysUntilExam: daysUntilExam,
	}, nil
}

func daysBetweenCeil(from, to time.Time) int {
	diff := to.Sub(from)
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) > 0 {
		days++
	}
	return days
}
