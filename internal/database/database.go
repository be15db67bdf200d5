package database

import (
	"fmt"

	"gorm.io/gorm"

	"spot-rental-api/internal/config"
	"spot-rental-api/internal/models"
)

// DB wraps a gorm.DB and carries all store methods used by the handlers.
type DB struct {
	db *gorm.DB
}

// Open connects to the database selected in the configuration.
func Open(cfg config.DatabaseConfig) (*DB, error) {
	switch cfg.Type {
	case "mysql", "":
		return OpenMySQL(cfg.MySQL)
	case "postgres":
		return OpenPostgres(cfg.Postgres)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}

// NewFromGorm wraps an existing gorm.DB instance. Used by tests to run the
// store against an in-memory database.
func NewFromGorm(db *gorm.DB) *DB {
	return &DB{db: db}
}

// Gorm returns the underlying gorm.DB instance.
func (d *DB) Gorm() *gorm.DB {
	return d.db
}

// Close closes the underlying connection pool.
func (d *DB) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// InitSchema creates tables using GORM AutoMigrate
func (d *DB) InitSchema() error {
	return d.db.AutoMigrate(
		&models.User{},
		&models.Spot{},
		&models.Review{},
		&models.SpotImage{},
		&models.SpotDeleteLog{},
		&models.SpotStatsSnapshot{},
	)
}
