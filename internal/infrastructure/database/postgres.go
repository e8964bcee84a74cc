package database

import (
	"fmt"
	"log"

	"github.com/mverbeke/kassa-api/internal/config"
	"github.com/mverbeke/kassa-api/internal/domain/entity"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Catalog entities
		&entity.Product{},
		&entity.StockMovement{},

		// Sales entities
		&entity.Sale{},
		&entity.SaleItem{},

		// Customer entities
		&entity.LoyaltyCard{},

		// Staff entities
		&entity.Employee{},

		// System entities
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds an admin employee when configured via environment
// variables, so a fresh install can log in to the register
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPIN := viper.GetString("ADMIN_PIN")
	adminName := viper.GetString("ADMIN_NAME")

	if adminEmail != "" && adminPIN != "" {
		var existing entity.Employee
		if err := db.Where("email = ?", adminEmail).First(&existing).Error; err != nil {
			if adminName == "" {
				adminName = "Store Admin"
			}
			firstName := adminName
			lastName := ""
			for i, c := range adminName {
				if c == ' ' {
					firstName = adminName[:i]
					lastName = adminName[i+1:]
					break
				}
			}
			admin := entity.Employee{
				FirstName: firstName,
				LastName:  lastName,
				Email:     adminEmail,
				Role:      "admin",
				Active:    true,
			}
			if err := admin.SetPIN(adminPIN); err != nil {
				log.Printf("Warning: failed to hash admin PIN: %v", err)
			} else if err := db.Create(&admin).Error; err != nil {
				log.Printf("Warning: failed to create admin employee: %v", err)
			} else {
				log.Printf("Admin employee created: %s", adminEmail)
			}
		} else {
			log.Printf("Admin employee already exists: %s", adminEmail)
		}
	}

	log.Println("Default data seeding completed")
	return nil
}
