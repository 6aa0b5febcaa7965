package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// StudyPlan persists one plan aggregate per row; the newest row per user is
// the current plan. PlanData holds the PlanDocument JSON.
type StudyPlan struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	PlanName  string         `gorm:"column:plan_name;not null" json:"plan_name"`
	StartDate string         `gorm:"column:start_date;not null" json:"start_date"`
	EndDate   string         `gorm:"column:end_date" json:"end_date"`
	PlanData  datatypes.JSON `gorm:"column:plan_data;type:jsonb" json:"plan_data"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (StudyPlan) TableName() string { return "study_plan" }

// Task is always embedded in a day's task list, never persisted on its own.
// TimeEstimate is in minutes.
type Task struct {
	Text         string `json:"text"`
	ExamName     string `json:"examName"`
	Subject      string `json:"subject"`
	Technique    string `json:"technique"`
	TimeEstimate int    `json:"timeEstimate"`
}

// DailyPlan covers one calendar date. Task order is append-only: completion
// keys are positional ("{date}-{index}") and inserting mid-list would orphan
// every later key for the day.
type DailyPlan struct {
	Date  string `json:"date"`
	Day   string `json:"day"`
	Tasks []Task `json:"tasks"`
	Hours int    `json:"hours"`
}

// PlanDocument is the plan_data JSON blob: the generated schedule plus the
// sparse completion map.
type PlanDocument struct {
	DailyPlan      []DailyPlan     `json:"dailyPlan"`
	Tips           []string        `json:"tips"`
	CompletedTasks map[string]bool `json:"completedTasks"`
}
