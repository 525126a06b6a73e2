package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInfoCache_Expiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewInfoCache(time.Minute, 10)
	c.now = func() time.Time { return now }

	c.Set(21, &AnimeInfo{ID: "21"})
	info, ok := c.Get(21)
	assert.True(t, ok)
	assert.Equal(t, "21", info.ID)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get(21)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestInfoCache_EvictsOldest(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewInfoCache(time.Hour, 2)
	c.now = func() time.Time { return now }

	c.Set(1, &AnimeInfo{ID: "1"})
	now = now.Add(time.Second)
	c.Set(2, &AnimeInfo{ID: "2"})
	now = now.Add(time.Second)
	c.Set(3, &AnimeInfo{ID: "3"})

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get(1)
	assert.False(t, ok)
	_, ok = c.Get(3)
	assert.True(t, ok)

	c.Forget(3)
	_, ok = c.Get(3)
	assert.False(t, ok)
}
