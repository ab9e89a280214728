package services

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// WeatherCacheTag marks every rendered weather page.
const WeatherCacheTag = "current_weather"

type tagState struct {
	Revision      uint64
	InvalidatedAt time.Time
}

// CacheTags tracks a revision per tag. Downstream caches compare revisions to
// decide whether a rendered page is stale; nothing upstream is cached here.
type CacheTags struct {
	mu     sync.RWMutex
	tags   map[string]tagState
	logger *zap.Logger
}

func NewCacheTags(logger *zap.Logger) *CacheTags {
	return &CacheTags{
		tags:   make(map[string]tagState),
		logger: logger,
	}
}

func (c *CacheTags) Invalidate(tags ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for _, tag := range tags {
		state := c.tags[tag]
		state.Revision++
		state.InvalidatedAt = now
		c.tags[tag] = state

		c.logger.Debug("Cache tag invalidated",
			zap.String("tag", tag),
			zap.Uint64("revision", state.Revision))
	}
}

func (c *CacheTags) Revision(tag string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tags[tag].Revision
}

func (c *CacheTags) GetStats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := make(map[string]interface{}, len(c.tags))
	for tag, state := range c.tags {
		stats[tag] = map[string]interface{}{
			"revision":       state.Revision,
			"invalidated_at": state.InvalidatedAt,
		}
	}
	return stats
}
