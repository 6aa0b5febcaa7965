package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studypilot/studypilot-backend/internal/apierr"
	"github.com/studypilot/studypilot-backend/internal/logger"
	"github.com/studypilot/studypilot-backend/internal/repos"
	"github.com/studypilot/studypilot-backend/internal/types"
)

const dateLayout = "2006-01-02"

type ExamService interface {
	CreateExam(ctx context.Context, userID, subjectID uuid.UUID, examName, examDate, description string) (*types.Exam, error)
	ListUpcomingExams(ctx context.Context, userID uuid.UUID) ([]*types.Exam, error)
	ListExamsBySubject(ctx context.Context, userID, subjectID uuid.UUID) ([]*types.Exam, error)
	UpdateExam(ctx context.Context, userID, examID uuid.UUID, examName, examDate, description string) error
	DeleteExam(ctx context.Context, userID, examID uuid.UUID) error
}

type examService struct {
	db          *gorm.DB
	log         *logger.Logger
	subjectRepo repos.SubjectRepo
	examRepo    repos.ExamRepo
}

func NewExamService(db *gorm.DB, baseLog *logger.Logger, subjectRepo repos.SubjectRepo, examRepo repos.ExamRepo) ExamService {
	return &examService{
		db:          db,
		log:         baseLog.With("service", "ExamService"),
		subjectRepo: subjectRepo,
		examRepo:    examRepo,
	}
}

func (es *examService) CreateExam(ctx context.Context, userID, subjectID uuid.UUID, examName, examDate, description string) (*types.Exam, error) {
	examName = strings.TrimSpace(examName)
	if examName == "" {
		return nil, apierr.Validation("exam name is required")
	}
	parsed, err := time.Parse(dateLayout, examDate)
	if err != nil {
		return nil, apierr.Validation("exam date must be YYYY-MM-DD")
	}
	// soft validation: past dates rejected at creation, existing rows may
	// still hold stale dates
	today := time.Now().Format(dateLayout)
	if parsed.Format(dateLayout) < today {
		return nil, apierr.Validation("exam date cannot be in the past")
	}

	subjects, err := es.subjectRepo.GetByIDs(ctx, nil, []uuid.UUID{subjectID})
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("load subject: %w", err))
	}
	if len(subjects) == 0 || subjects[0].UserID != userID {
		return nil, apierr.NotFound("subject not found")
	}

	exam := &types.Exam{
		ID:          uuid.New(),
		UserID:      userID,
		SubjectID:   subjectID,
		ExamName:    examName,
		ExamDate:    parsed.Format(dateLayout),
		Description: strings.TrimSpace(description),
	}
	if _, err := es.examRepo.Create(ctx, nil, []*types.Exam{exam}); err != nil {
		es.log.Error("CreateExam failed", "error", err, "user_id", userID)
		return nil, apierr.Persistence(fmt.Errorf("create exam: %w", err))
	}
	return exam, nil
}

func (es *examService) ListUpcomingExams(ctx context.Context, userID uuid.UUID) ([]*types.Exam, error) {
	today := time.Now().Format(dateLayout)
	exams, err := es.examRepo.GetUpcomingByUserID(ctx, nil, userID, today)
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("list upcoming exams: %w", err))
	}
	return exams, nil
}

func (es *examService) ListExamsBySubject(ctx context.Context, userID, subjectID uuid.UUID) ([]*types.Exam, error) {
	subjects, err := es.subjectRepo.GetByIDs(ctx, nil, []uuid.UUID{subjectID})
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("load subject: %w", err))
	}
	if len(subjects) == 0 || subjects[0].UserID != userID {
		return nil, apierr.NotFound("subject not found")
	}
	exams, err := es.examRepo.GetBySubjectIDs(ctx, nil, []uuid.UUID{subjectID})
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("list exams: %w", err))
	}
	return exams, nil
}

func (es *examService) UpdateExam(ctx context.Context, userID, examID uuid.UUID, examName, examDate, description string) error {
	exam, err := es.ownedExam(ctx, userID, examID)
	if err != nil {
		return err
	}
	updates := map[string]interface{}{}
	if trimmed := strings.TrimSpace(examName); trimmed != "" {
		updates["exam_name"] = trimmed
	}
	if examDate != "" {
		parsed, pErr := time.Parse(dateLayout, examDate)
		if pErr != nil {
			return apierr.Validation("exam date must be YYYY-MM-DD")
		}
		updates["exam_date"] = parsed.Format(dateLayout)
	}
	if description != "" {
		updates["description"] = strings.TrimSpace(description)
	}
	if len(updates) == 0 {
		return nil
	}
	if err := es.examRepo.Update(ctx, nil, exam.ID, updates); err != nil {
		return apierr.Persistence(fmt.Errorf("update exam: %w", err))
	}
	return nil
}

func (es *examService) DeleteExam(ctx context.Context, userID, examID uuid.UUID) error {
	exam, err := es.ownedExam(ctx, userID, examID)
	if err != nil {
		return err
	}
	if err := es.examRepo.DeleteByIDs(ctx, nil, []uuid.UUID{exam.ID}); err != nil {
		return apierr.Persistence(fmt.Errorf("delete exam: %w", err))
	}
	return nil
}

func (es *examService) ownedExam(ctx context.Context, userID, examID uuid.UUID) (*types.Exam, error) {
	exams, err := es.examRepo.GetByIDs(ctx, nil, []uuid.UUID{examID})
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("load exam: %w", err))
	}
	if len(exams) == 0 || exams[0].UserID != userID {
		return nil, apierr.NotFound("exam not found")
	}
	return exams[0], nil
}
