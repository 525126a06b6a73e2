package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mugiwarahub/mugiwara/pkg/types"
)

// GetAudioPreference returns the remembered sub/dub choice for an anime, or
// nil when the user never picked one.
func GetAudioPreference(db *gorm.DB, animeID int) (*AudioPreference, error) {
	var pref AudioPreference
	err := db.Where(&AudioPreference{AnimeID: animeID}).Take(&pref).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	case err != nil:
		return nil, err
	}
	return &pref, nil
}

// SaveAudioPreference upserts on anime_id, so each anime keeps one row.
func SaveAudioPreference(db *gorm.DB, animeID int, preference, quality string) error {
	if preference != types.AudioSub && preference != types.AudioDub {
		return fmt.Errorf("invalid audio preference %q: want %s or %s", preference, types.AudioSub, types.AudioDub)
	}

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "anime_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"preference", "quality", "updated_at"}),
	}).Create(&AudioPreference{AnimeID: animeID, Preference: preference, Quality: quality}).Error
}

// ClearAudioPreference forgets the choice once the final episode is watched.
func ClearAudioPreference(db *gorm.DB, animeID int) error {
	return db.Where("anime_id = ?", animeID).Delete(&AudioPreference{}).Error
}
