package types

import (
	"time"

	"github.com/google/uuid"
)

// StudyMaterial is metadata only; the file body lives in the bucket under
// StorageKey. SubjectID is nullable: unassigned materials are global.
type StudyMaterial struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	SubjectID  *uuid.UUID `gorm:"type:uuid;index" json:"subject_id"`
	FileName   string     `gorm:"column:file_name;not null" json:"file_name"`
	StorageKey string     `gorm:"column:storage_key;not null" json:"storage_key"`
	FileURL    string     `gorm:"column:file_url" json:"file_url"`
	FileType   string     `gorm:"column:file_type" json:"file_type"`
	SizeBytes  int64      `gorm:"column:size_bytes" json:"size_bytes"`
	Status     string     `gorm:"column:status;not null;default:'uploaded'" json:"status"`
	UploadedAt time.Time  `gorm:"column:uploaded_at;not null;default:now()" json:"uploaded_at"`
	UpdatedAt  time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (StudyMaterial) TableName() string { return "study_material" }
