package services

import (
	"fmt"
	"sort"
	"strings"
)

// MaterialExcerpt is a truncated preview of one uploaded file, grouped by
// subject in the plan prompt.
type MaterialExcerpt struct {
	FileName string
	Content  string
}

const planSystemPrompt = "You are an expert study planning assistant. Create detailed, realistic study plans with SPECIFIC and ACTIONABLE tasks. Use SEQUENTIAL FOCUS strategy: prioritize the nearest exam first, then shift focus to the next exam after it passes. Each task must include the exam it's for, a recommended study technique, AND a time estimate in minutes. Return ONLY a JSON object with this structure: {\"dailyPlan\": [{\"date\": \"2024-01-15\", \"day\": \"Monday\", \"tasks\": [{\"text\": \"Complete 10 problems on quadratic equations\", \"examName\": \"Algebra Mid\", \"subject\": \"Algebra\", \"technique\": \"Practice Problems\", \"timeEstimate\": 30}], \"hours\": 2}], \"tips\": [\"Tip 1\", \"Tip 2\"]}. Available techniques: Feynman Technique (explain concepts simply), Active Recall (test yourself), Spaced Repetition (review at intervals), Practice Problems (solve exercises), Pomodoro (25min focus blocks), Mind Mapping (visual connections), Summarizing (condense notes)."

// buildPlanPrompt assembles the user message for plan generation. Exams must
// already be sorted chronologically: the sequential-focus instructions refer
// to them by position.
func buildPlanPrompt(exams []PlanExam, window StudyWindow, studyHoursPerDay int, additionalNotes string, materials map[string][]MaterialExcerpt) string {
	examLines := make([]string, 0, len(exams))
	for i, exam := range exams {
		line := fmt.Sprintf("%d. %s - %s on %s", i+1, exam.Subject, exam.ExamName, exam.ExamDate)
		if strings.TrimSpace(exam.Syllabus) != "" {
			line += fmt.Sprintf("\n   Topics/Syllabus: %s", exam.Syllabus)
		}
		examLines = append(examLines, line)
	}
	examsList := strings.Join(examLines, "\n\n")

	var materialSection strings.Builder
	if len(materials) > 0 {
		materialSection.WriteString("\n\nSTUDY MATERIALS CONTENT (use these to create specific, topic-based tasks):\n")
		subjects := make([]string, 0, len(materials))
		for subject := range materials {
			subjects = append(subjects, subject)
		}
		sort.Strings(subjects)
		for _, subject := range subjects {
			excerpts := materials[subject]
			if len(excerpts) == 0 {
				continue
			}
			fmt.Fprintf(&materialSection, "\n--- %s Materials ---\n", subject)
			for _, excerpt := range excerpts {
				fmt.Fprintf(&materialSection, "File: %s\nContent Preview:\n%s\n\n", excerpt.FileName, excerpt.Content)
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a personalized study plan for these exams using SEQUENTIAL FOCUS strategy:\n\n%s\n%s\n", examsList, materialSection.String())

	dayWord := "days"
	if window.TotalDays == 1 {
		dayWord = "day"
	}
	fmt.Fprintf(&b, "Study Period: %s to %s (%d %s)\n", window.StartDate, window.EndDate, window.TotalDays, dayWord)
	fmt.Fprintf(&b, "Available study hours per day: %d\n", studyHoursPerDay)
	if additionalNotes != "" {
		fmt.Fprintf(&b, "\nStudent's Notes/Preferences: %s\n", additionalNotes)
	}
	urgent := window.DaysUntilExam <= 1
	if urgent {
		b.WriteString("\n⚠️ URGENT: Exam is TODAY or TOMORROW! Create an intensive last-minute review plan.\n")
	}

	b.WriteString(`
SEQUENTIAL FOCUS STRATEGY:
- Focus heavily on exam #1 (nearest) until 1-2 days before it
- After exam #1, shift focus to exam #2
- Continue this pattern for all exams
- Increase study intensity as each exam approaches
- Assign appropriate study techniques based on the topic and task type
`)
	if urgent {
		b.WriteString("- For same-day/next-day exams: Focus on quick review, key concepts, and practice problems\n")
	}

	fmt.Fprintf(&b, `
TASK REQUIREMENTS:
- Each task MUST include which exam it's for (examName and subject)
- Each task MUST include a study technique from: Feynman Technique, Active Recall, Spaced Repetition, Practice Problems, Pomodoro, Mind Mapping, Summarizing
- Each task MUST include a timeEstimate in minutes (e.g., 15, 30, 45, 60)
- Time estimates should sum to approximately %d hours (%d minutes) per day
- Be SPECIFIC and ACTIONABLE (e.g., "Solve 15 factorization problems" not just "Study algebra")
- Include measurable outcomes (numbers, specific topics)
- Distribute %d hours realistically per day (2-4 tasks)
- Ramp up intensity 3-4 days before each exam
`, studyHoursPerDay, studyHoursPerDay*60, studyHoursPerDay)
	if additionalNotes != "" {
		b.WriteString("- Consider the student's preferences and constraints mentioned above\n")
	}
	if materialSection.Len() > 0 {
		b.WriteString("- IMPORTANT: Use the STUDY MATERIALS CONTENT above to create highly specific tasks based on actual topics, chapters, and concepts from the student's notes. Reference specific topics, formulas, theorems, or concepts mentioned in the materials.\n")
	}

	fmt.Fprintf(&b, "\nIMPORTANT: You MUST return a dailyPlan array with at least %d day(s). Each day MUST have tasks.\n", window.TotalDays)
	fmt.Fprintf(&b, "\nReturn ONLY the JSON object with the dailyPlan structure covering all %d days.", window.TotalDays)
	return b.String()
}
