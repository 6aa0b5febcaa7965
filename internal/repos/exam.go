package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studypilot/studypilot-backend/internal/logger"
	"github.com/studypilot/studypilot-backend/internal/types"
)

type ExamRepo interface {
	Create(ctx context.Context, tx *gorm.DB, exams []*types.Exam) ([]*types.Exam, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Exam, error)
	GetBySubjectIDs(ctx context.Context, tx *gorm.DB, subjectIDs []uuid.UUID) ([]*types.Exam, error)
	GetUpcomingByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, fromDate string) ([]*types.Exam, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	DeleteBySubjectIDs(ctx context.Context, tx *gorm.DB, subjectIDs []uuid.UUID) error
	CountUpcomingByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, fromDate string) (int64, error)
}

type examRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExamRepo(db *gorm.DB, baseLog *logger.Logger) ExamRepo {
	return &examRepo{db: db, log: baseLog.With("repo", "ExamRepo")}
}

func (r *examRepo) Create(ctx context.Context, tx *gorm.DB, exams []*types.Exam) ([]*types.Exam, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(exams) == 0 {
		return []*types.Exam{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&exams).Error; err != nil {
		return nil, err
	}
	return exams, nil
}

func (r *examRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Exam, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Exam
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *examRepo) GetBySubjectIDs(ctx context.Context, tx *gorm.DB, subjectIDs []uuid.UUID) ([]*types.Exam, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Exam
	if len(subjectIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("subject_id IN ?", subjectIDs).
		Order("exam_date ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *examRepo) GetUpcomingByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, fromDate string) ([]*types.Exam, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Exam
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND exam_date >= ?", userID, fromDate).
		Order("exam_date ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *examRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Exam{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *examRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Exam{}).Error
}

func (r *examRepo) DeleteBySubjectIDs(ctx context.Context, tx *gorm.DB, subjectIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(subjectIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("subject_id IN ?", subjectIDs).
		Delete(&types.Exam{}).Error
}

func (r *examRepo) CountUpcomingByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, fromDate string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Exam{}).
		Where("user_id = ? AND exam_date >= ?", userID, fromDate).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
