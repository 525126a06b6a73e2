package database

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetSetting returns the value stored under key, or "" when absent
func GetSetting(db *gorm.DB, key string) (string, error) {
	var rows []Setting
	if err := db.Where(&Setting{Key: key}).Limit(1).Find(&rows).Error; err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0].Value, nil
}

func SetSetting(db *gorm.DB, key, value string) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&Setting{Key: key, Value: value, UpdatedAt: time.Now()}).Error
}

// DeleteSetting removes key. Missing keys are not an error.
func DeleteSetting(db *gorm.DB, key string) error {
	return db.Where("key = ?", key).Delete(&Setting{}).Error
}
