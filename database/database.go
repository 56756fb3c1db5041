package database

import (
	"fmt"
	"os"

	"trendora-backend/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=trendora port=5432 sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	// Ensure PostgreSQL has gen_random_uuid() available (pgcrypto extension).
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		return fmt.Errorf("failed to enable pgcrypto extension: %w", err)
	}

	return db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartItem{},
		&models.WatchlistItem{},
		&models.Order{},
		&models.Setting{},
	)
}

// CreateDefaultAdmin seeds the first ADMIN account so the console is usable
// on a fresh database. No-op when the email already exists.
func CreateDefaultAdmin(db *gorm.DB) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" {
		adminEmail = "admin@trendora.shop"
	}
	if adminPassword == "" {
		adminPassword = "admin123"
	}

	var existing models.User
	if err := db.Where("email = ?", adminEmail).First(&existing).Error; err == nil {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Name:     "Admin",
		Email:    adminEmail,
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	logrus.WithField("email", adminEmail).Info("default admin created")
	return nil
}
