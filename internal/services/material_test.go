package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/studypilot/studypilot-backend/internal/apierr"
	"github.com/studypilot/studypilot-backend/internal/repos"
	"github.com/studypilot/studypilot-backend/internal/types"
)

type stubBucket struct {
	data []byte
	err  error
}

func (s *stubBucket) UploadFile(ctx context.Context, key string, file io.Reader) error {
	return s.err
}

func (s *stubBucket) DownloadFile(ctx context.Context, key string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}

func (s *stubBucket) DeleteFile(ctx context.Context, key string) error { return s.err }

func (s *stubBucket) GetPublicURL(key string) string { return "https://cdn.test/" + key }

func newMaterialService(t *testing.T, bucket BucketService) (MaterialService, repos.StudyMaterialRepo) {
	t.Helper()
	gdb := newTestDB(t)
	log := newTestLogger(t)
	materialRepo := repos.NewStudyMaterialRepo(gdb, log)
	return NewMaterialService(gdb, log, materialRepo, bucket), materialRepo
}

func seedMaterial(t *testing.T, materialRepo repos.StudyMaterialRepo, userID uuid.UUID) *types.StudyMaterial {
	t.Helper()
	id := uuid.New()
	material := &types.StudyMaterial{
		ID:         id,
		UserID:     userID,
		FileName:   "notes.txt",
		StorageKey: fmt.Sprintf("materials/%s/%s", userID, id),
		FileType:   "text/plain",
		Status:     "uploaded",
	}
	if _, err := materialRepo.Create(context.Background(), nil, []*types.StudyMaterial{material}); err != nil {
		t.Fatalf("seed material: %v", err)
	}
	return material
}

func TestExtractMaterialText_ReturnsExtractedText(t *testing.T) {
	body := strings.Repeat("Mitochondria produce ATP through cellular respiration. ", 3)
	bucket := &stubBucket{data: []byte(body)}
	svc, materialRepo := newMaterialService(t, bucket)
	userID := uuid.New()
	material := seedMaterial(t, materialRepo, userID)

	text, err := svc.ExtractMaterialText(context.Background(), userID, material.StorageKey)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "Mitochondria produce ATP") {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestExtractMaterialText_DownloadFailureIs500(t *testing.T) {
	bucket := &stubBucket{err: fmt.Errorf("object unavailable")}
	svc, materialRepo := newMaterialService(t, bucket)
	userID := uuid.New()
	material := seedMaterial(t, materialRepo, userID)

	_, err := svc.ExtractMaterialText(context.Background(), userID, material.StorageKey)
	if err == nil {
		t.Fatalf("expected error")
	}
	if apierr.StatusOf(err) != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", apierr.StatusOf(err))
	}
	if apierr.CodeOf(err) != apierr.CodeUpstream {
		t.Fatalf("expected upstream_error code, got %q", apierr.CodeOf(err))
	}
}

func TestExtractMaterialText_UnreadableFileIs500(t *testing.T) {
	// claims pdf, carries no %PDF header
	bucket := &stubBucket{data: []byte{0x00, 0x01, 0x02, 0x03}}
	svc, materialRepo := newMaterialService(t, bucket)
	userID := uuid.New()
	id := uuid.New()
	material := &types.StudyMaterial{
		ID:         id,
		UserID:     userID,
		FileName:   "report.pdf",
		StorageKey: fmt.Sprintf("materials/%s/%s", userID, id),
		FileType:   "application/pdf",
		Status:     "uploaded",
	}
	if _, err := materialRepo.Create(context.Background(), nil, []*types.StudyMaterial{material}); err != nil {
		t.Fatalf("seed material: %v", err)
	}

	_, err := svc.ExtractMaterialText(context.Background(), userID, material.StorageKey)
	if err == nil {
		t.Fatalf("expected error")
	}
	if apierr.StatusOf(err) != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", apierr.StatusOf(err))
	}
}

func TestExtractMaterialText_ScopedToOwner(t *testing.T) {
	bucket := &stubBucket{data: []byte(strings.Repeat("plain text body ", 10))}
	svc, materialRepo := newMaterialService(t, bucket)
	material := seedMaterial(t, materialRepo, uuid.New())

	_, err := svc.ExtractMaterialText(context.Background(), uuid.New(), material.StorageKey)
	if err == nil || apierr.CodeOf(err) != apierr.CodeNotFound {
		t.Fatalf("expected not_found for a non-owner, got %v", err)
	}
}

func TestExtractMaterialText_TooLittleTextIsValidation(t *testing.T) {
	bucket := &stubBucket{data: []byte("short note")}
	svc, materialRepo := newMaterialService(t, bucket)
	userID := uuid.New()
	material := seedMaterial(t, materialRepo, userID)

	_, err := svc.ExtractMaterialText(context.Background(), userID, material.StorageKey)
	if err == nil || apierr.CodeOf(err) != apierr.CodeValidation {
		t.Fatalf("expected validation error for thin extraction, got %v", err)
	}
}
