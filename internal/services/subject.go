package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studypilot/studypilot-backend/internal/apierr"
	"github.com/studypilot/studypilot-backend/internal/logger"
	"github.com/studypilot/studypilot-backend/internal/repos"
	"github.com/studypilot/studypilot-backend/internal/types"
)

type SubjectService interface {
	CreateSubject(ctx context.Context, userID uuid.UUID, name, color string) (*types.Subject, error)
	ListSubjects(ctx context.Context, userID uuid.UUID) ([]*types.Subject, error)
	UpdateSubject(ctx context.Context, userID, subjectID uuid.UUID, name, color string) error
	// DeleteSubject removes the subject and all of its exams in one
	// transaction: no orphan exam may survive its subject.
	DeleteSubject(ctx context.Context, userID, subjectID uuid.UUID) error
}

type subjectService struct {
	db          *gorm.DB
	log         *logger.Logger
	subjectRepo repos.SubjectRepo
	examRepo    repos.ExamRepo
}

func NewSubjectService(db *gorm.DB, baseLog *logger.Logger, subjectRepo repos.SubjectRepo, examRepo repos.ExamRepo) SubjectService {
	return &subjectService{
		db:          db,
		log:         baseLog.With("service", "SubjectService"),
		subjectRepo: subjectRepo,
		examRepo:    examRepo,
	}
}

func (ss *subjectService) CreateSubject(ctx context.Context, userID uuid.UUID, name, color string) (*types.Subject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apierr.Validation("subject name is required")
	}
	if color == "" {
		color = "#8b5cf6"
	}
	subject := &types.Subject{
		ID:     uuid.New(),
		UserID: userID,
		Name:   name,
		Color:  color,
	}
	if _, err := ss.subjectRepo.Create(ctx, nil, []*types.Subject{subject}); err != nil {
		ss.log.Error("CreateSubject failed", "error", err, "user_id", userID)
		return nil, apierr.Persistence(fmt.Errorf("create subject: %w", err))
	}
	return subject, nil
}

func (ss *subjectService) ListSubjects(ctx context.Context, userID uuid.UUID) ([]*types.Subject, error) {
	subjects, err := ss.subjectRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("list subjects: %w", err))
	}
	return subjects, nil
}

func (ss *subjectService) UpdateSubject(ctx context.Context, userID, subjectID uuid.UUID, name, color string) error {
	subject, err := ss.ownedSubject(ctx, userID, subjectID)
	if err != nil {
		return err
	}
	updates := map[string]interface{}{}
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		updates["name"] = trimmed
	}
	if color != "" {
		updates["color"] = color
	}
	if len(updates) == 0 {
		return nil
	}
	if err := ss.subjectRepo.Update(ctx, nil, subject.ID, updates); err != nil {
		return apierr.Persistence(fmt.Errorf("update subject: %w", err))
	}
	return nil
}

func (ss *subjectService) DeleteSubject(ctx context.Context, userID, subjectID uuid.UUID) error {
	subject, err := ss.ownedSubject(ctx, userID, subjectID)
	if err != nil {
		return err
	}
	txErr := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ss.examRepo.DeleteBySubjectIDs(ctx, tx, []uuid.UUID{subject.ID}); err != nil {
			return fmt.Errorf("cascade delete exams: %w", err)
		}
		if err := ss.subjectRepo.DeleteByIDs(ctx, tx, []uuid.UUID{subject.ID}); err != nil {
			return fmt.Errorf("delete subject: %w", err)
		}
		return nil
	})
	if txErr != nil {
		ss.log.Error("DeleteSubject failed", "error", txErr, "user_id", userID)
		return apierr.Persistence(txErr)
	}
	return nil
}

func (ss *subjectService) ownedSubject(ctx context.Context, userID, subjectID uuid.UUID) (*types.Subject, error) {
	subjects, err := ss.subjectRepo.GetByIDs(ctx, nil, []uuid.UUID{subjectID})
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("load subject: %w", err))
	}
	if len(subjects) == 0 || subjects[0].UserID != userID {
		return nil, apierr.NotFound("subject not found")
	}
	return subjects[0], nil
}
