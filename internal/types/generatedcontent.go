package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ContentTypeSummary   = "summary"
	ContentTypeFlashcard = "flashcard"
	ContentTypeQuiz      = "quiz"
)

// GeneratedContent rows are immutable; regeneration inserts a new row.
type GeneratedContent struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	MaterialID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"material_id"`
	ContentType string         `gorm:"column:content_type;not null" json:"content_type"`
	Content     datatypes.JSON `gorm:"column:content;type:jsonb" json:"content"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (GeneratedContent) TableName() string { return "generated_content" }
