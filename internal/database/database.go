package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"github.com/mugiwarahub/mugiwara/internal/config"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the global database instance
var DB *gorm.DB

// Init opens cfg.Path and stores it in DB
func Init(cfg *config.DatabaseConfig) error {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := Open(cfg.Path, cfg)
	if err != nil {
		return fmt.Errorf("%w\n\n"+
			"Hint: If the database is from an incompatible version, delete it and restart:\n"+
			"  rm -f %s", err, cfg.Path)
	}

	DB = db
	return nil
}

// Open opens dsn, applies pragmas and brings the schema up to date
func Open(dsn string, cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	conns := max(cfg.MaxConnections, 1)
	sqlDB.SetMaxOpenConns(conns)
	sqlDB.SetMaxIdleConns(max(conns/2, 1))

	for _, p := range pragmas(cfg) {
		if err := db.Exec("PRAGMA " + p).Error; err != nil {
			return nil, fmt.Errorf("PRAGMA %s: %w", p, err)
		}
	}

	// SQL files first; AutoMigrate only adds what they leave out
	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run auto migrations: %w", err)
	}
	return db, nil
}

func pragmas(cfg *config.DatabaseConfig) []string {
	list := []string{"foreign_keys=ON"}
	if cfg.WALMode {
		list = append(list, "journal_mode=WAL")
	}
	if cfg.AutoVacuum {
		list = append(list, "auto_vacuum=INCREMENTAL")
	}
	return list
}

// OpenMemory opens a private in-memory database with the full schema.
// A single connection is used since every sqlite memory connection is its own database.
func OpenMemory() (*gorm.DB, error) {
	return Open("file::memory:", &config.DatabaseConfig{MaxConnections: 1})
}

// Close closes the database connection
func Close() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
