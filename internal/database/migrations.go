package database

import (
	"gorm.io/gorm"

	"github.com/medigrid/ambudispatch/internal/models"
	"github.com/medigrid/ambudispatch/pkg/crypto"
)

// DefaultAdminEmail identifies the seeded administrator account.
const DefaultAdminEmail = "admin@ambudispatch.local"

// DefaultAdminPassword is the initial password for the seeded administrator.
// Deployments are expected to rotate it after first login.
const DefaultAdminPassword = "admin123"

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Hospital{},
		&models.AmbulanceRequest{},
		&models.Notification{},
	)
}

// SeedData provisions the default administrator account used for first login.
func SeedData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := crypto.HashPassword(DefaultAdminPassword)
	if err != nil {
		return err
	}

	admin := models.User{
		Name:     "Administrator",
		Email:    DefaultAdminEmail,
		Password: hash,
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	return db.Create(&admin).Error
}
