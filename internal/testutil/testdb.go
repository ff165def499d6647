// Package testutil provides the shared database fixture for package tests.
package testutil

import (
	"testing"

	"taskflow-api/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewInMemoryDB opens a fresh in-memory SQLite database with the tracker
// schema migrated: users plus tasks, with sessions, comments, assignees and
// tags riding inside the task row as JSON columns. Every call returns an
// isolated database, so tests never observe each other's rows.
func NewInMemoryDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&models.User{}, &models.Task{}); err != nil {
		return nil, err
	}
	return db, nil
}

// SeedUsers inserts user fixtures, failing the test on any insert error.
func SeedUsers(t *testing.T, db *gorm.DB, users ...models.User) {
	t.Helper()
	for i := range users {
		if err := db.Create(&users[i]).Error; err != nil {
			t.Fatalf("seed user %s: %v", users[i].Email, err)
		}
	}
}
