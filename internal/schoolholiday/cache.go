package schoolholiday

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/username/urlaubsplaner/internal/holiday"
	"go.uber.org/zap"
)

// DefaultTTL is how long a cached remote result stays valid
const DefaultTTL = 30 * 24 * time.Hour

// Cache stores the last successful remote result per (year, region) in a
// JSON file. Entries older than the TTL are treated as absent and removed
// when a read finds them.
type Cache struct {
	filePath string
	ttl      time.Duration
	logger   *zap.Logger
	entries  map[string]cacheEntry
	now      func() time.Time
}

type cacheEntry struct {
	Periods   []Period  `json:"periods"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// NewCache creates a cache backed by the given file. The file is loaded
// lazily on first use; a missing or corrupt file is an empty cache.
func NewCache(filePath string, ttl time.Duration, logger *zap.Logger) *Cache {
	if ttl == 0 {
		ttl = DefaultTTL
	}

	return &Cache{
		filePath: filePath,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

func cacheKey(year int, region holiday.Region) string {
	return fmt.Sprintf("%d-%s", year, region)
}

// Get returns the cached periods for (year, region) if present and fresh.
// A stale entry is deleted before the miss is reported.
func (c *Cache) Get(year int, region holiday.Region) ([]Period, bool) {
	c.load()

	key := cacheKey(year, region)
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	if c.now().Sub(entry.FetchedAt) > c.ttl {
		delete(c.entries, key)
		if err := c.persist(); err != nil {
			c.logger.Warn("Failed to persist cache after eviction", zap.Error(err))
		}
		c.logger.Debug("Evicted stale school holiday cache entry",
			zap.String("key", key),
			zap.Time("fetched_at", entry.FetchedAt))
		return nil, false
	}

	return entry.Periods, true
}

// Put stores a remote result with the current time as fetch timestamp
func (c *Cache) Put(year int, region holiday.Region, periods []Period) {
	c.load()

	c.entries[cacheKey(year, region)] = cacheEntry{
		Periods:   periods,
		FetchedAt: c.now(),
	}

	if err := c.persist(); err != nil {
		c.logger.Warn("Failed to persist school holiday cache", zap.Error(err))
	}
}

// load reads the cache file once. Unreadable or corrupt data is logged and
// treated as an empty cache.
func (c *Cache) load() {
	if c.entries != nil {
		return
	}
	c.entries = make(map[string]cacheEntry)

	data, err := os.ReadFile(c.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Warn("Failed to read cache file",
				zap.String("file", c.filePath),
				zap.Error(err))
		}
		return
	}

	if err := json.Unmarshal(data, &c.entries); err != nil {
		c.logger.Warn("Corrupt cache file, starting empty",
			zap.String("file", c.filePath),
			zap.Error(err))
		c.entries = make(map[string]cacheEntry)
	}
}

func (c *Cache) persist() error {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	if err := os.WriteFile(c.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}
