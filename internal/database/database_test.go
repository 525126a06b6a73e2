package database

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mugiwarahub/mugiwara/internal/config"
)

func TestOpen_FileMigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mugiwara.db")
	cfg := &config.DatabaseConfig{Path: path, MaxConnections: 2, WALMode: true}

	db, err := Open(path, cfg)
	require.NoError(t, err)
	require.NoError(t, SetSetting(db, "k", "v"))
	sqlDB, _ := db.DB()
	require.NoError(t, sqlDB.Close())

	// Reopening must not reapply migrations or lose data
	db, err = Open(path, cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	v, err := GetSetting(db, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	var applied int64
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM schema_migrations").Scan(&applied).Error)
	assert.Equal(t, int64(2), applied)
}

func TestSettings(t *testing.T) {
	db, err := OpenMemory()
	require.NoError(t, err)

	v, err := GetSetting(db, "session.token")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, SetSetting(db, "session.token", "a"))
	require.NoError(t, SetSetting(db, "session.token", "b"))
	v, err = GetSetting(db, "session.token")
	require.NoError(t, err)
	assert.Equal(t, "b", v)

	require.NoError(t, DeleteSetting(db, "session.token"))
	require.NoError(t, DeleteSetting(db, "missing"))
	v, err = GetSetting(db, "session.token")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestAudioPreferences(t *testing.T) {
	db, err := OpenMemory()
	require.NoError(t, err)

	pref, err := GetAudioPreference(db, 21)
	require.NoError(t, err)
	assert.Nil(t, pref)

	assert.Error(t, SaveAudioPreference(db, 21, "raw", ""))

	require.NoError(t, SaveAudioPreference(db, 21, "dub", "720p"))
	require.NoError(t, SaveAudioPreference(db, 21, "sub", "1080p"))

	pref, err = GetAudioPreference(db, 21)
	require.NoError(t, err)
	require.NotNil(t, pref)
	assert.Equal(t, "sub", pref.Preference)
	assert.Equal(t, "1080p", pref.Quality)

	require.NoError(t, ClearAudioPreference(db, 21))
	pref, err = GetAudioPreference(db, 21)
	require.NoError(t, err)
	assert.Nil(t, pref)
}

func TestExtractMigrationName(t *testing.T) {
	assert.Equal(t, "20260301", extractMigrationName("20260301_initial_schema.sql"))
	assert.Equal(t, "notes.txt", extractMigrationName("notes.txt"))
}

func TestLoadSQLFiles_Order(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/20260412_watchlist_cache.sql": {Data: []byte("SELECT 2;")},
		"migrations/20260301_initial_schema.sql":  {Data: []byte("SELECT 1;")},
		"migrations/README.md":                    {Data: []byte("ignored")},
	}

	files, err := loadSQLFiles(fsys)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "20260301", files[0].version)
	assert.Equal(t, "20260301_initial_schema.sql", files[0].file)
	assert.Equal(t, "SELECT 2;", files[1].body)
}
