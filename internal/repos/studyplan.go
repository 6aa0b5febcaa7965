package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studypilot/studypilot-backend/internal/logger"
	"github.com/studypilot/studypilot-backend/internal/types"
)

type StudyPlanRepo interface {
	Create(ctx context.Context, tx *gorm.DB, plan *types.StudyPlan) (*types.StudyPlan, error)
	// GetCurrentByUserID returns the most recently created plan, or nil when
	// the user has none.
	GetCurrentByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.StudyPlan, error)
	GetByIDForUser(ctx context.Context, tx *gorm.DB, planID, userID uuid.UUID) (*types.StudyPlan, error)
	UpdatePlanData(ctx context.Context, tx *gorm.DB, planID, userID uuid.UUID, planData []byte) error
	DeleteByIDForUser(ctx context.Context, tx *gorm.DB, planID, userID uuid.UUID) error
}

type studyPlanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudyPlanRepo(db *gorm.DB, baseLog *logger.Logger) StudyPlanRepo {
	return &studyPlanRepo{db: db, log: baseLog.With("repo", "StudyPlanRepo")}
}

func (r *studyPlanRepo) Create(ctx context.Context, tx *gorm.DB, plan *types.StudyPlan) (*types.StudyPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(plan).Error; err != nil {
		return nil, err
	}
	return plan, nil
}

func (r *studyPlanRepo) GetCurrentByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.StudyPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var plan types.StudyPlan
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *studyPlanRepo) GetByIDForUser(ctx context.Context, tx *gorm.DB, planID, userID uuid.UUID) (*types.StudyPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var plan types.StudyPlan
	err := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", planID, userID).
		First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *studyPlanRepo) UpdatePlanData(ctx context.Context, tx *gorm.DB, planID, userID uuid.UUID, planData []byte) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.StudyPlan{}).
		Where("id = ? AND user_id = ?", planID, userID).
		Update("plan_data", planData).Error
}

func (r *studyPlanRepo) DeleteByIDForUser(ctx context.Context, tx *gorm.DB, planID, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", planID, userID).
		Delete(&types.StudyPlan{}).Error
}
