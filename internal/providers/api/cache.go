package api

import (
	"sync"
	"time"
)

const (
	defaultInfoTTL    = 30 * time.Minute
	defaultInfoMaxLen = 256
)

type cachedInfo struct {
	info    *AnimeInfo
	expires time.Time
}

// InfoCache keeps /api/info answers by AniList id. Entries expire after ttl so
// airing shows pick up new episodes; the oldest entry is evicted when full.
type InfoCache struct {
	mu     sync.Mutex
	ttl    time.Duration
	maxLen int
	now    func() time.Time
	data   map[int]cachedInfo
}

func NewInfoCache(ttl time.Duration, maxLen int) *InfoCache {
	if ttl <= 0 {
		ttl = defaultInfoTTL
	}
	if maxLen <= 0 {
		maxLen = defaultInfoMaxLen
	}
	return &InfoCache{
		ttl:    ttl,
		maxLen: maxLen,
		now:    time.Now,
		data:   make(map[int]cachedInfo),
	}
}

func (c *InfoCache) Get(anilistID int) (*AnimeInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.data[anilistID]
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expires) {
		delete(c.data, anilistID)
		return nil, false
	}
	return entry.info, true
}

func (c *InfoCache) Set(anilistID int, info *AnimeInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.data[anilistID]; !ok && len(c.data) >= c.maxLen {
		c.evictOldest()
	}
	c.data[anilistID] = cachedInfo{info: info, expires: c.now().Add(c.ttl)}
}

// Forget drops one entry, e.g. after the user asks for a refresh
func (c *InfoCache) Forget(anilistID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, anilistID)
}

func (c *InfoCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

func (c *InfoCache) evictOldest() {
	oldest, found := 0, false
	var oldestExpiry time.Time
	for id, entry := range c.data {
		if !found || entry.expires.Before(oldestExpiry) {
			oldest, oldestExpiry, found = id, entry.expires, true
		}
	}
	if found {
		delete(c.data, oldest)
	}
}
