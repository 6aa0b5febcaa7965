package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studypilot/studypilot-backend/internal/apierr"
	"github.com/studypilot/studypilot-backend/internal/logger"
	"github.com/studypilot/studypilot-backend/internal/repos"
)

type DashboardStats struct {
	Subjects         int64 `json:"subjects"`
	UpcomingExams    int64 `json:"upcomingExams"`
	Materials        int64 `json:"materials"`
	GeneratedContent int64 `json:"generatedContent"`
}

type DashboardService interface {
	GetStats(ctx context.Context, userID uuid.UUID) (*DashboardStats, error)
}

type dashboardService struct {
	db           *gorm.DB
	log          *logger.Logger
	subjectRepo  repos.SubjectRepo
	examRepo     repos.ExamRepo
	materialRepo repos.StudyMaterialRepo
	contentRepo  repos.GeneratedContentRepo
}

func NewDashboardService(
	db *gorm.DB,
	baseLog *logger.Logger,
	subjectRepo repos.SubjectRepo,
	examRepo repos.ExamRepo,
	materialRepo repos.StudyMaterialRepo,
	contentRepo repos.GeneratedContentRepo,
) DashboardService {
	return &dashboardService{
		db:           db,
		log:          baseLog.With("service", "DashboardService"),
		subjectRepo:  subjectRepo,
		examRepo:     examRepo,
		materialRepo: materialRepo,
		contentRepo:  contentRepo,
	}
}

func (ds *dashboardService) GetStats(ctx context.Context, userID uuid.UUID) (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	if stats.Subjects, err = ds.subjectRepo.CountByUserID(ctx, nil, userID); err != nil {
		return nil, apierr.Persistence(fmt.Errorf("count subjects: %w", err))
	}
	today := time.Now().Format(dateLayout)
	if stats.UpcomingExams, err = ds.examRepo.CountUpcomingByUserID(ctx, nil, userID, today); err != nil {
		return nil, apierr.Persistence(fmt.Errorf("count upcoming exams: %w", err))
	}
	if stats.Materials, err = ds.materialRepo.CountByUserID(ctx, nil, userID); err != nil {
		return nil, apierr.Persistence(fmt.Errorf("count materials: %w", err))
	}
	if stats.GeneratedContent, err = ds.contentRepo.CountByUserID(ctx, nil, userID); err != nil {
		return nil, apierr.Persistence(fmt.Errorf("count generated content: %w", err))
	}
	return stats, nil
}
