package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studypilot/studypilot-backend/internal/logger"
	"github.com/studypilot/studypilot-backend/internal/types"
)

// GeneratedContentRepo is insert-only: generated rows are immutable and
// regeneration always creates a new row.
type GeneratedContentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.GeneratedContent) ([]*types.GeneratedContent, error)
	GetByMaterialID(ctx context.Context, tx *gorm.DB, materialID uuid.UUID) ([]*types.GeneratedContent, error)
	CountByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
}

type generatedContentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGeneratedContentRepo(db *gorm.DB, baseLog *logger.Logger) GeneratedContentRepo {
	return &generatedContentRepo{db: db, log: baseLog.With("repo", "GeneratedContentRepo")}
}

func (r *generatedContentRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.GeneratedContent) ([]*types.GeneratedContent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.GeneratedContent{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *generatedContentRepo) GetByMaterialID(ctx context.Context, tx *gorm.DB, materialID uuid.UUID) ([]*types.GeneratedContent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.GeneratedContent
	if err := transaction.WithContext(ctx).
		Where("material_id = ?", materialID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *generatedContentRepo) CountByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.GeneratedContent{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
