package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mugiwarahub/mugiwara/internal/database"
)

type fakeAuth bool

func (f fakeAuth) LoggedIn() bool { return bool(f) }

func TestDetails_SaveDetails(t *testing.T) {
	db := openTestDB(t)

	t.Run("needs a session", func(t *testing.T) {
		d := NewDetails(db, fakeAuth(false))
		saved, err := d.SaveDetails(21, "One Piece", "op.jpg")
		require.NoError(t, err)
		assert.False(t, saved)

		got, err := d.GetDetails(21)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("first save wins", func(t *testing.T) {
		d := NewDetails(db, fakeAuth(true))
		saved, err := d.SaveDetails(21, "One Piece", "op.jpg")
		require.NoError(t, err)
		assert.True(t, saved)

		saved, err = d.SaveDetails(21, "Renamed", "new.jpg")
		require.NoError(t, err)
		assert.False(t, saved)

		got, err := d.GetDetails(21)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "One Piece", got.Title)
		assert.Equal(t, "op.jpg", got.Image)
	})
}

func TestService_WatchlistCache(t *testing.T) {
	s, _ := newTestService(t)

	require.NoError(t, s.ReplaceWatchlist([]database.WatchlistCache{
		{AnimeID: 5, EnglishTitle: "Cowboy Bebop"},
		{AnimeID: 1, EnglishTitle: "Akira"},
	}))

	rows, err := s.CachedWatchlist()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 5, rows[0].AnimeID)
	assert.Equal(t, 1, rows[1].Position)

	require.NoError(t, s.ReplaceWatchlist(nil))
	rows, err = s.CachedWatchlist()
	require.NoError(t, err)
	assert.Empty(t, rows)
}
