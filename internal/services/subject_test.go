package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/studypilot/studypilot-backend/internal/repos"
)

func newSubjectExamServices(t *testing.T) (SubjectService, ExamService) {
	t.Helper()
	gdb := newTestDB(t)
	log := newTestLogger(t)
	subjectRepo := repos.NewSubjectRepo(gdb, log)
	examRepo := repos.NewExamRepo(gdb, log)
	return NewSubjectService(gdb, log, subjectRepo, examRepo),
		NewExamService(gdb, log, subjectRepo, examRepo)
}

func TestCreateSubject_DefaultColor(t *testing.T) {
	subjects, _ := newSubjectExamServices(t)
	subject, err := subjects.CreateSubject(context.Background(), uuid.New(), "Algebra", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if subject.Color != "#8b5cf6" {
		t.Fatalf("expected default color, got %q", subject.Color)
	}
}

func TestCreateSubject_RequiresName(t *testing.T) {
	subjects, _ := newSubjectExamServices(t)
	if _, err := subjects.CreateSubject(context.Background(), uuid.New(), "   ", ""); err == nil {
		t.Fatalf("expected validation error for a blank name")
	}
}

func TestDeleteSubject_CascadesExams(t *testing.T) {
	subjects, exams := newSubjectExamServices(t)
	userID := uuid.New()

	subject, err := subjects.CreateSubject(context.Background(), userID, "History", "#123456")
	if err != nil {
		t.Fatalf("create subject: %v", err)
	}
	future := time.Now().AddDate(0, 1, 0).Format("2006-01-02")
	if _, err := exams.CreateExam(context.Background(), userID, subject.ID, "Final", future, ""); err != nil {
		t.Fatalf("create exam: %v", err)
	}

	if err := subjects.DeleteSubject(context.Background(), userID, subject.ID); err != nil {
		t.Fatalf("delete subject: %v", err)
	}

	remaining, err := exams.ListUpcomingExams(context.Background(), userID)
	if err != nil {
		t.Fatalf("list exams: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected no orphan exams, got %d", len(remaining))
	}
	listed, err := subjects.ListSubjects(context.Background(), userID)
	if err != nil {
		t.Fatalf("list subjects: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("expected no subjects left, got %d", len(listed))
	}
}

func TestDeleteSubject_ScopedToOwner(t *testing.T) {
	subjects, _ := newSubjectExamServices(t)
	subject, err := subjects.CreateSubject(context.Background(), uuid.New(), "Physics", "")
	if err != nil {
		t.Fatalf("create subject: %v", err)
	}
	if err := subjects.DeleteSubject(context.Background(), uuid.New(), subject.ID); err == nil {
		t.Fatalf("expected not found for a non-owner")
	}
}

func TestCreateExam_RejectsPastDate(t *testing.T) {
	subjects, exams := newSubjectExamServices(t)
	userID := uuid.New()
	subject, err := subjects.CreateSubject(context.Background(), userID, "Biology", "")
	if err != nil {
		t.Fatalf("create subject: %v", err)
	}
	if _, err := exams.CreateExam(context.Background(), userID, subject.ID, "Quiz", "2001-01-01", ""); err == nil {
		t.Fatalf("expected validation error for a past date")
	}
}

func TestCreateExam_RejectsBadDateFormat(t *testing.T) {
	subjects, exams := newSubjectExamServices(t)
	userID := uuid.New()
	subject, err := subjects.CreateSubject(context.Background(), userID, "Chem", "")
	if err != nil {
		t.Fatalf("create subject: %v", err)
	}
	if _, err := exams.CreateExam(context.Background(), userID, subject.ID, "Quiz", "01/02/2030", ""); err == nil {
		t.Fatalf("expected validation error for a malformed date")
	}
}
