package database

import (
	"fmt"

	"halwahouse/internal/models"

	"github.com/jinzhu/gorm"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

var DB *gorm.DB

// Open opens a database connection for the given driver ("sqlite3" or
// "postgres") and runs schema migration for the kitchen entities.
func Open(driver, dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the tables for all kitchen entities
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.ProcessType{},
		&models.HalwaType{},
		&models.HalwaProcessMap{},
		&models.KitchenBatch{},
		&models.KitchenProcess{},
	).Error; err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}
	return nil
}

// InitDB initializes the shared database connection
func InitDB(driver, dsn string) error {
	db, err := Open(driver, dsn)
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// CloseDB closes the database connection
func CloseDB() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
