package database

import (
	"fmt"
	"log"

	"github.com/anjiri1684/eduplatform/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open creates a gorm handle on top of any dialector with the settings the
// application relies on. Tests pass an in-memory sqlite dialector.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		DisableNestedTransaction:                 true,
	})
}

func ConnectDB(dsn string) (*gorm.DB, error) {
	db, err := Open(postgres.Open(dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("✅ Database connected successfully")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Payment{},
		&models.Enrollment{},
		&models.BankTransferPayment{},
		&models.Invoice{},
		&models.WebhookEvent{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Println("✅ Database migration successful")
	return nil
}
