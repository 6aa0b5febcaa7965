package types

import (
	"time"

	"github.com/google/uuid"
)

type Subject struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Color     string    `gorm:"column:color;not null" json:"color"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Subject) TableName() string { return "subject" }
