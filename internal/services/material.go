package services

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studypilot/studypilot-backend/internal/apierr"
	"github.com/studypilot/studypilot-backend/internal/logger"
	"github.com/studypilot/studypilot-backend/internal/repos"
	"github.com/studypilot/studypilot-backend/internal/types"
)

type UploadedFileInfo struct {
	OriginalName string
	MimeType     string
	SizeBytes    int64
	Reader       io.Reader
}

type MaterialService interface {
	// UploadMaterial writes the object to the bucket and inserts the
	// metadata row. A failed bucket write marks the row upload_failed rather
	// than rolling it back, so the failure is visible and retriable.
	UploadMaterial(ctx context.Context, userID uuid.UUID, subjectID *uuid.UUID, upload UploadedFileInfo) (*types.StudyMaterial, error)
	ListMaterials(ctx context.Context, userID uuid.UUID) ([]*types.StudyMaterial, error)
	// DeleteMaterial removes the storage object first, then the metadata row.
	DeleteMaterial(ctx context.Context, userID, materialID uuid.UUID) error
	// ExtractMaterialText downloads the object behind storageKey and returns
	// its plain text, subject to the extraction length bounds.
	ExtractMaterialText(ctx context.Context, userID uuid.UUID, storageKey string) (string, error)
}

type materialService struct {
	db            *gorm.DB
	log           *logger.Logger
	materialRepo  repos.StudyMaterialRepo
	bucketService BucketService
}

func NewMaterialService(db *gorm.DB, baseLog *logger.Logger, materialRepo repos.StudyMaterialRepo, bucketService BucketService) MaterialService {
	return &materialService{
		db:            db,
		log:           baseLog.With("service", "MaterialService"),
		materialRepo:  materialRepo,
		bucketService: bucketService,
	}
}

func (ms *materialService) UploadMaterial(ctx context.Context, userID uuid.UUID, subjectID *uuid.UUID, upload UploadedFileInfo) (*types.StudyMaterial, error) {
	if upload.OriginalName == "" || upload.Reader == nil {
		return nil, apierr.Validation("a file is required")
	}

	materialID := uuid.New()
	storageKey := fmt.Sprintf("materials/%s/%s", userID.String(), materialID.String())

	material := &types.StudyMaterial{
		ID:         materialID,
		UserID:     userID,
		SubjectID:  subjectID,
		FileName:   upload.OriginalName,
		StorageKey: storageKey,
		FileType:   upload.MimeType,
		SizeBytes:  upload.SizeBytes,
		Status:     "pending_upload",
	}
	if _, err := ms.materialRepo.Create(ctx, nil, []*types.StudyMaterial{material}); err != nil {
		ms.log.Error("UploadMaterial create row failed", "error", err, "user_id", userID)
		return nil, apierr.Persistence(fmt.Errorf("create material row: %w", err))
	}

	if err := ms.bucketService.UploadFile(ctx, storageKey, upload.Reader); err != nil {
		ms.log.Error("UploadMaterial bucket write failed", "error", err, "storage_key", storageKey)
		if uErr := ms.materialRepo.UpdateStatus(ctx, nil, materialID, "upload_failed"); uErr != nil {
			ms.log.Error("failed to mark material upload_failed", "error", uErr, "material_id", materialID)
		}
		return nil, apierr.Upstream(fmt.Errorf("upload material: %w", err))
	}

	material.FileURL = ms.bucketService.GetPublicURL(storageKey)
	material.Status = "uploaded"
	if err := ms.db.WithContext(ctx).Model(&types.StudyMaterial{}).
		Where("id = ?", materialID).
		Updates(map[string]interface{}{"status": "uploaded", "file_url": material.FileURL}).Error; err != nil {
		return nil, apierr.Persistence(fmt.Errorf("finalize material row: %w", err))
	}
	return material, nil
}

func (ms *materialService) ListMaterials(ctx context.Context, userID uuid.UUID) ([]*types.StudyMaterial, error) {
	materials, err := ms.materialRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("list materials: %w", err))
	}
	return materials, nil
}

func (ms *materialService) DeleteMaterial(ctx context.Context, userID, materialID uuid.UUID) error {
	materials, err := ms.materialRepo.GetByIDs(ctx, nil, []uuid.UUID{materialID})
	if err != nil {
		return apierr.Persistence(fmt.Errorf("load material: %w", err))
	}
	if len(materials) == 0 || materials[0].UserID != userID {
		return apierr.NotFound("material not found")
	}
	material := materials[0]

	if material.StorageKey != "" && material.Status != "upload_failed" {
		if err := ms.bucketService.DeleteFile(ctx, material.StorageKey); err != nil {
			ms.log.Error("DeleteMaterial bucket delete failed", "error", err, "storage_key", material.StorageKey)
			return apierr.Upstream(fmt.Errorf("delete material object: %w", err))
		}
	}
	if err := ms.materialRepo.DeleteByIDs(ctx, nil, []uuid.UUID{material.ID}); err != nil {
		return apierr.Persistence(fmt.Errorf("delete material row: %w", err))
	}
	return nil
}

func (ms *materialService) ExtractMaterialText(ctx context.Context, userID uuid.UUID, storageKey string) (string, error) {
	if storageKey == "" {
		return "", apierr.Validation("file path is required")
	}

	material, err := ms.materialRepo.GetByStorageKey(ctx, nil, storageKey)
	if err != nil {
		return "", apierr.Persistence(fmt.Errorf("load material: %w", err))
	}
	if material == nil || material.UserID != userID {
		return "", apierr.NotFound("material not found")
	}

	data, err := ms.bucketService.DownloadFile(ctx, storageKey)
	if err != nil {
		return "", apierr.New(http.StatusInternalServerError, apierr.CodeUpstream, fmt.Errorf("download material: %w", err))
	}

	text, err := ExtractText(material.FileName, material.FileType, data)
	if err != nil {
		return "", apierr.New(http.StatusInternalServerError, apierr.CodeUpstream, fmt.Errorf("extract text: %w", err))
	}
	if len(text) < MinExtractedChars {
		return "", apierr.Validation("could not extract enough text from the file")
	}
	return text, nil
}
