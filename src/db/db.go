package db

import (
	"context"
	"errors"
	"log"
	"os"

	"sltourism/src/config"
	"sltourism/src/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

var ErrNoDatabase = errors.New("database not configured")

// Open connects with the driver named by DATABASE_DRIVER: postgres (default)
// or sqlite, where DATABASE_NAME is the file path.
func Open() (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	switch os.Getenv("DATABASE_DRIVER") {
	case "sqlite":
		name := os.Getenv("DATABASE_NAME")
		if name == "" {
			name = "sri_lanka_image_db.sqlite"
		}
		return gorm.Open(sqlite.Open(name), cfg)
	case "", "postgres":
		if os.Getenv("DATABASE_HOST") == "" {
			return nil, ErrNoDatabase
		}
		return gorm.Open(postgres.Open(config.GetDSN()), cfg)
	}
	return nil, errors.New("unknown DATABASE_DRIVER")
}

// GetDb returns the shared connection, or nil when none can be made. The
// picture database is optional; callers fall back to the key-value store.
func GetDb() *gorm.DB {
	if db != nil {
		return db
	}
	_db, err := Open()
	if err != nil {
		log.Printf("Error connecting to database: %s\n", err.Error())
		return nil
	}
	sqlDB, err := _db.DB()
	if err != nil {
		log.Printf("Error establishing connection to database: %s\n", err.Error())
		return nil
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	db = _db
	return _db
}

func NewDB(newdb *gorm.DB) {
	db = newdb
}

// Migrate creates the images, metadata and thumbnails tables.
func Migrate(d *gorm.DB) error {
	return d.AutoMigrate(&models.Image{}, &models.ImageMetadata{}, &models.Thumbnail{})
}

func Ping(ctx context.Context) error {
	if db == nil {
		return ErrNoDatabase
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close() error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	db = nil
	return sqlDB.Close()
}
