package database

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"time"

	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SchemaMigration records one applied SQL file, keyed by its date prefix.
type SchemaMigration struct {
	Name      string    `gorm:"primaryKey"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

func (SchemaMigration) TableName() string { return "schema_migrations" }

type sqlFile struct {
	file    string
	version string
	body    string
}

// RunMigrations applies the embedded SQL files that schema_migrations has not
// seen yet, oldest first, each in its own transaction.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	files, err := loadSQLFiles(migrationsFS)
	if err != nil {
		return err
	}

	var done []string
	if err := db.Model(&SchemaMigration{}).Pluck("name", &done).Error; err != nil {
		return fmt.Errorf("list applied migrations: %w", err)
	}

	for _, f := range files {
		if slices.Contains(done, f.version) {
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(f.body).Error; err != nil {
				return err
			}
			return tx.Create(&SchemaMigration{Name: f.version}).Error
		})
		if err != nil {
			return fmt.Errorf("apply %s: %w", f.file, err)
		}
		slog.Debug("applied migration", "file", f.file)
	}

	return nil
}

func loadSQLFiles(fsys fs.FS) ([]sqlFile, error) {
	paths, err := fs.Glob(fsys, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}

	files := make([]sqlFile, 0, len(paths))
	for _, p := range paths {
		body, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		name := p[strings.LastIndex(p, "/")+1:]
		files = append(files, sqlFile{file: name, version: extractMigrationName(name), body: string(body)})
	}

	slices.SortFunc(files, func(a, b sqlFile) int { return strings.Compare(a.version, b.version) })
	return files, nil
}

var migrationNameRe = regexp.MustCompile(`^(\d{8})_.+\.sql$`)

// extractMigrationName returns the YYYYMMDD prefix of a migration file, or the
// whole name when it does not follow that layout.
func extractMigrationName(filename string) string {
	if m := migrationNameRe.FindStringSubmatch(filename); m != nil {
		return m[1]
	}
	return filename
}
