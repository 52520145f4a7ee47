package migrations

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/0xAdem/ransomguard/internal/models"
)

// Migrate runs the initial database migrations
func Migrate(db *gorm.DB) error {
	// Migrate models individually to avoid GORM confusion about relationships
	err := db.AutoMigrate(&models.User{})
	if err != nil {
		return fmt.Errorf("failed to migrate user model: %v", err)
	}

	err = db.AutoMigrate(&models.FileEvent{})
	if err != nil {
		return fmt.Errorf("failed to migrate file event model: %v", err)
	}

	err = db.AutoMigrate(&models.Alert{})
	if err != nil {
		return fmt.Errorf("failed to migrate alert model: %v", err)
	}

	// Create default admin user if not exists
	var userCount int64
	err = db.Model(&models.User{}).Count(&userCount).Error
	if err != nil {
		return err
	}

	if userCount == 0 {
		password := os.Getenv("ADMIN_PASSWORD")
		if password == "" {
			password = "changeme123"
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		adminUser := models.User{
			ID:             uuid.NewString(),
			Email:          "admin@ransomguard.local",
			HashedPassword: string(hashedPassword),
			FirstName:      "Admin",
			LastName:       "User",
			IsActive:       true,
		}
		err = db.Create(&adminUser).Error
		if err != nil {
			return err
		}
	}

	return nil
}
