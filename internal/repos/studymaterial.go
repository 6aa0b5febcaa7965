package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studypilot/studypilot-backend/internal/logger"
	"github.com/studypilot/studypilot-backend/internal/types"
)

type StudyMaterialRepo interface {
	Create(ctx context.Context, tx *gorm.DB, materials []*types.StudyMaterial) ([]*types.StudyMaterial, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.StudyMaterial, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.StudyMaterial, error)
	GetBySubjectID(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID) ([]*types.StudyMaterial, error)
	GetByStorageKey(ctx context.Context, tx *gorm.DB, storageKey string) (*types.StudyMaterial, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	CountByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
}

type studyMaterialRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudyMaterialRepo(db *gorm.DB, baseLog *logger.Logger) StudyMaterialRepo {
	return &studyMaterialRepo{db: db, log: baseLog.With("repo", "StudyMaterialRepo")}
}

func (r *studyMaterialRepo) Create(ctx context.Context, tx *gorm.DB, materials []*types.StudyMaterial) ([]*types.StudyMaterial, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(materials) == 0 {
		return []*types.StudyMaterial{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

func (r *studyMaterialRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.StudyMaterial, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.StudyMaterial
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

func (r *studyMaterialRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.StudyMaterial, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.StudyMaterial
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("uploaded_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *studyMaterialRepo) GetBySubjectID(ctx context.Context, tx *gorm.DB, subjectID uuid.UUID) ([]*types.StudyMaterial, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.StudyMaterial
	if err := transaction.WithContext(ctx).
		Where("subject_id = ?", subjectID).
		Order("uploaded_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *studyMaterialRepo) GetByStorageKey(ctx context.Context, tx *gorm.DB, storageKey string) (*types.StudyMaterial, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var material types.StudyMaterial
	err := transaction.WithContext(ctx).
		Where("storage_key = ?", storageKey).
		First(&material).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *studyMaterialRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.StudyMaterial{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *studyMaterialRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.StudyMaterial{}).Error
}

func (r *studyMaterialRepo) CountByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.StudyMaterial{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
