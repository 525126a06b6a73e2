package history

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mugiwarahub/mugiwara/internal/database"
)

// Authenticator reports whether a user session exists
type Authenticator interface {
	LoggedIn() bool
}

// Details remembers the title and image of anime the user opened while
// logged in, so a continue-watching entry can be built from a WatchID alone
type Details struct {
	db   *gorm.DB
	auth Authenticator
}

func NewDetails(db *gorm.DB, auth Authenticator) *Details {
	return &Details{db: db, auth: auth}
}

// SaveDetails stores an entry once. It does nothing without a session and
// never overwrites an existing entry. Reports whether a row was written.
func (d *Details) SaveDetails(animeID int, title, image string) (bool, error) {
	if d.auth == nil || !d.auth.LoggedIn() {
		return false, nil
	}
	if animeID <= 0 {
		return false, fmt.Errorf("invalid anime id %d", animeID)
	}

	res := d.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&database.SavedAnime{
		AnimeID:   animeID,
		Title:     title,
		Image:     image,
		CreatedAt: time.Now(),
	})
	if res.Error != nil {
		return false, fmt.Errorf("failed to save anime details: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// GetDetails returns the saved entry, nil when there is none
func (d *Details) GetDetails(animeID int) (*database.SavedAnime, error) {
	var saved database.SavedAnime
	err := d.db.First(&saved, "anime_id = ?", animeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// ReplaceWatchlist swaps the cached watchlist for rows, keeping their order
func (s *Service) ReplaceWatchlist(rows []database.WatchlistCache) error {
	now := s.now()
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&database.WatchlistCache{}).Error; err != nil {
			return err
		}
		for i := range rows {
			rows[i].Position = i
			rows[i].FetchedAt = now
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error
	})
}

// CachedWatchlist returns the last stored watchlist
func (s *Service) CachedWatchlist() ([]database.WatchlistCache, error) {
	var rows []database.WatchlistCache
	if err := s.db.Order("position ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read cached watchlist: %w", err)
	}
	return rows, nil
}
