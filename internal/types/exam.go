package types

import (
	"time"

	"github.com/google/uuid"
)

// Exam belongs to exactly one Subject. ExamDate is a calendar date stored
// as YYYY-MM-DD; deleting the subject removes its exams.
type Exam struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	SubjectID   uuid.UUID `gorm:"type:uuid;not null;index" json:"subject_id"`
	Subject     *Subject  `gorm:"constraint:OnDelete:CASCADE;foreignKey:SubjectID;references:ID" json:"subject,omitempty"`
	ExamName    string    `gorm:"column:exam_name;not null" json:"exam_name"`
	ExamDate    string    `gorm:"column:exam_date;not null" json:"exam_date"`
	Description string    `gorm:"column:description" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Exam) TableName() string { return "exam" }
