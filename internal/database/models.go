package database

import (
	"time"

	"gorm.io/gorm"
)

// History is the local mirror of a continue-watching entry with playback progress
type History struct {
	ID              uint      `gorm:"primaryKey"`
	AnimeID         int       `gorm:"not null;index"`
	AnimeTitle      string    `gorm:"not null"`
	Image           string    `gorm:"default:''"`
	Episode         int       `gorm:"not null;default:1"`
	WatchID         string    `gorm:"not null;default:''"` // route key used to resume
	ProviderName    string    `gorm:"default:''"`          // provider that served the sources
	ProgressSeconds int       `gorm:"not null;default:0"`
	TotalSeconds    int       `gorm:"not null;default:0"`
	ProgressPercent float64   `gorm:"not null;default:0"`
	WatchedAt       time.Time `gorm:"index;default:CURRENT_TIMESTAMP"`
	Completed       bool      `gorm:"default:false"`
}

func (History) TableName() string { return "history" }

// Setting is one row of the key/value settings store
type Setting struct {
	Key       string    `gorm:"primaryKey"`
	Value     string    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}

func (Setting) TableName() string { return "settings" }

// SavedAnime records the title and image of an anime the user has opened,
// so continue-watching entries can be created from a watch route alone.
type SavedAnime struct {
	AnimeID   int       `gorm:"primaryKey;autoIncrement:false"`
	Title     string    `gorm:"not null"`
	Image     string    `gorm:"default:''"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}

func (SavedAnime) TableName() string { return "saved_anime" }

// WatchlistCache holds the last watchlist fetched from the backend
type WatchlistCache struct {
	AnimeID       int    `gorm:"primaryKey;autoIncrement:false"`
	EnglishTitle  string `gorm:"default:''"`
	JapaneseTitle string `gorm:"default:''"`
	ImageURL      string `gorm:"column:image_url;default:''"`
	Synopsis      string `gorm:"default:''"`
	Position      int    `gorm:"not null;default:0"`
	FetchedAt     time.Time
}

func (WatchlistCache) TableName() string { return "watchlist_cache" }

// AudioPreference stores the per-anime sub/dub choice and last picked quality
type AudioPreference struct {
	ID         uint      `gorm:"primaryKey"`
	AnimeID    int       `gorm:"not null;uniqueIndex"`
	Preference string    `gorm:"not null"` // "dub" or "sub"
	Quality    string    `gorm:"default:''"`
	CreatedAt  time.Time `gorm:"default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}

func (AudioPreference) TableName() string { return "audio_preferences" }

// Migrate lets gorm add columns the SQL migrations do not create yet.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&History{},
		&Setting{},
		&SavedAnime{},
		&WatchlistCache{},
		&AudioPreference{},
	)
}
