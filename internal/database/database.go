package database

import (
	"log"
	"os"

	"taskflow-api/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// InitDB initializes the database connection and runs migrations
func InitDB() {
	var err error

	// Open SQLite database file (created on first run). Using glebarez/sqlite,
	// a pure Go implementation (no CGO required).
	DB, err = gorm.Open(sqlite.Open(getEnv("TASKFLOW_DB", "taskflow.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	// Auto-migrate the schema (creates tables if they don't exist)
	err = DB.AutoMigrate(
		&models.User{},
		&models.Task{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	seedAdmin()

	log.Println("Database connected and migrated")
}

// seedAdmin creates the bootstrap admin account when the user table is empty
// and ADMIN_EMAIL / ADMIN_PASSWORD are set.
func seedAdmin() {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	var count int64
	if err := DB.Model(&models.User{}).Count(&count).Error; err != nil || count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Println("Failed to hash admin password:", err)
		return
	}
	admin := models.User{
		ID:       uuid.NewString(),
		Name:     getEnv("ADMIN_NAME", "Administrator"),
		Email:    email,
		Password: string(hash),
		Role:     models.RoleAdmin,
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Println("Failed to seed admin user:", err)
		return
	}
	log.Println("Seeded admin user", email)
}

// GetDB returns the database connection
func GetDB() *gorm.DB {
	return DB
}
