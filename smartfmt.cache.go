package smartfmt

import (
	"sync"

	"go.uber.org/zap"
)

// parseCache keeps parsed templates in memory. When MaxEntries is exceeded
// the oldest entry is evicted. Every clear starts a new generation; formats
// parsed during an older generation are not stored.
type parseCache struct {
	maxEntries int
	logger     *zap.Logger

	mu         sync.RWMutex
	entries    map[string]*Format
	order      []string
	generation uint64
}

func newParseCache(maxEntries int, logger *zap.Logger) *parseCache {
	return &parseCache{
		maxEntries: maxEntries,
		logger:     logger,
		entries:    make(map[string]*Format),
	}
}

// enabled reports whether the cache stores anything. A nil cache is disabled.
func (c *parseCache) enabled() bool {
	return c != nil && c.maxEntries > 0
}

func (c *parseCache) get(template string) (*Format, bool) {
	if !c.enabled() {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	format, ok := c.entries[template]
	if ok {
		c.logger.Debug(LogMsgParseCacheHit, zap.Int(LogFieldTemplateLength, len(template)))
	}
	return format, ok
}

// current returns the generation to pass to putAt after parsing
func (c *parseCache) current() uint64 {
	if !c.enabled() {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

func (c *parseCache) put(template string, format *Format) {
	c.putAt(c.current(), template, format)
}

// putAt stores format unless the cache was cleared since generation
func (c *parseCache) putAt(generation uint64, template string, format *Format) {
	if !c.enabled() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation {
		c.logger.Debug(LogMsgParseCacheStale, zap.Int(LogFieldTemplateLength, len(template)))
		return
	}
	if _, exists := c.entries[template]; exists {
		return
	}
	for len(c.order) >= c.maxEntries {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
		c.logger.Debug(LogMsgParseCacheEvict, zap.Int(LogFieldCacheSize, len(c.entries)))
	}
	c.entries[template] = format
	c.order = append(c.order, template)
}

// clear drops every entry. Formats depend on the registered formatter names
// and parser characters, so the engine clears the cache when those change.
func (c *parseCache) clear() {
	if !c.enabled() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Format)
	c.order = nil
	c.generation++
}

func (c *parseCache) len() int {
	if !c.enabled() {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
