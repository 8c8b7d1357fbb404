package database

import (
	"github.com/petsustain/petsustain-backend/internal/models"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.User{},
		&models.UserRole{},
		&models.Donation{},
		&models.Shelter{},
	)
	if err != nil {
		return err
	}

	// Enforce the role domain at the database level
	if db.Migrator().HasTable(&models.UserRole{}) {
		db.Exec(`ALTER TABLE user_roles DROP CONSTRAINT IF EXISTS user_roles_role_check`)
		db.Exec(`ALTER TABLE user_roles ADD CONSTRAINT user_roles_role_check CHECK (role IN ('donor', 'rider', 'shelter', 'admin'))`)
	}

	// Enforce the donation status and quality-check domains
	if db.Migrator().HasTable(&models.Donation{}) {
		db.Exec(`ALTER TABLE donations DROP CONSTRAINT IF EXISTS donations_status_check`)
		db.Exec(`ALTER TABLE donations ADD CONSTRAINT donations_status_check CHECK (status IN ('pending', 'assigned', 'picked_up', 'rejected', 'delivered'))`)

		db.Exec(`ALTER TABLE donations DROP CONSTRAINT IF EXISTS donations_quality_check_check`)
		db.Exec(`ALTER TABLE donations ADD CONSTRAINT donations_quality_check_check CHECK (quality_check IN ('', 'approved', 'bio_waste'))`)

		// photo_url arrived after the first deploy; older tables need the column
		var columnExists bool
		err := db.Raw(`
			SELECT EXISTS (
				SELECT 1
				FROM information_schema.columns
				WHERE table_name = 'donations'
				AND column_name = 'photo_url'
			)`).Scan(&columnExists).Error
		if err != nil {
			return err
		}

		if !columnExists {
			if err := db.Exec(`ALTER TABLE donations ADD COLUMN photo_url text DEFAULT ''`).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
