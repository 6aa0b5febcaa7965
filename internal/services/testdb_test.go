package services

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/studypilot/studypilot-backend/internal/logger"
)

// newTestDB opens an isolated in-memory sqlite database. The postgres column
// defaults in the model tags don't exist on sqlite, so the schema is created
// explicitly; all code paths set ids and timestamps from Go anyway.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	ddl := []string{
		`CREATE TABLE subject (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			color TEXT NOT NULL,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE exam (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			subject_id TEXT NOT NULL,
			exam_name TEXT NOT NULL,
			exam_date TEXT NOT NULL,
			description TEXT,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE study_material (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			subject_id TEXT,
			file_name TEXT NOT NULL,
			storage_key TEXT NOT NULL,
			file_url TEXT,
			file_type TEXT,
			size_bytes INTEGER,
			status TEXT NOT NULL,
			uploaded_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE study_plan (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			plan_name TEXT NOT NULL,
			start_date TEXT NOT NULL,
			end_date TEXT,
			plan_data TEXT,
			created_at DATETIME,
			updated_at DATETIME
		)`,
	}
	for _, stmt := range ddl {
		if err := gdb.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return gdb
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}
