package world

import (
	"fmt"
	"strings"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/samdwyer/dungeondepths/internal/rng"
)

// LevelCache memoises generated levels. Generation is a pure function of the
// source position, parameters and enemy types, so a hit is indistinguishable
// from regenerating. Entries are copied in and out; callers own what they get.
type LevelCache struct {
	cache *ristretto.Cache[string, *Level]
}

// NewLevelCache creates a cache holding roughly maxLevels levels.
func NewLevelCache(maxLevels int64) (*LevelCache, error) {
	if maxLevels < 1 {
		maxLevels = 1
	}
	cache, err := ristretto.NewCache(&ristretto.Config[string, *Level]{
		NumCounters: maxLevels * 10,
		MaxCost:     maxLevels,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create level cache: %w", err)
	}
	return &LevelCache{cache: cache}, nil
}

// Close releases the cache's background goroutines.
func (c *LevelCache) Close() {
	c.cache.Close()
}

func (c *LevelCache) key(src *rng.Source, p Params, types []string) string {
	return fmt.Sprintf("%d@%d|%dx%d|%d|%d-%d|%s",
		src.Seed(), src.Draws(),
		p.Width, p.Height, p.MaxRooms, p.MinRoomSize, p.MaxRoomSize,
		strings.Join(types, ","))
}

func (c *LevelCache) get(key string) (*Level, bool) {
	level, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	return level.Clone(), true
}

func (c *LevelCache) put(key string, level *Level) {
	c.cache.Set(key, level.Clone(), 1)
	c.cache.Wait()
}
