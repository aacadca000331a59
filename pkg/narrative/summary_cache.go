package narrative

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"awardfinder/pkg/logger"

	"golang.org/x/sync/singleflight"
)

// FallbackLine is served whenever no highlights could be generated.
const FallbackLine = "Highlights are not available for this trip yet."

type Describer interface {
	Describe(ctx context.Context, destination string, nights int) ([]string, error)
}

// SummaryCache keeps generated highlights for the life of the process.
// Concurrent callers for the same destination and stay length share a single
// upstream call. Failures are never stored, so a later call tries again.
type SummaryCache struct {
	describer Describer
	logger    logger.Client

	mu      sync.RWMutex
	entries map[string][]string
	group   singleflight.Group
}

func NewSummaryCache(describer Describer, log logger.Client) *SummaryCache {
	if log == nil {
		log = logger.Nop{}
	}
	return &SummaryCache{
		describer: describer,
		logger:    log,
		entries:   make(map[string][]string),
	}
}

// Get never fails; on error it returns the fallback line.
func (c *SummaryCache) Get(ctx context.Context, destination string, nights int) []string {
	key := summaryKey(destination, nights)

	c.mu.RLock()
	lines, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return copyLines(lines)
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		c.mu.RLock()
		cached, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return cached, nil
		}

		// The shared call must not die with the first caller's request.
		lines, err := c.describer.Describe(context.WithoutCancel(ctx), destination, nights)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = lines
		c.mu.Unlock()
		return lines, nil
	})
	if err != nil {
		c.logger.Warn("highlight generation failed",
			logger.Field{Key: "key", Value: key},
			logger.Field{Key: "shared", Value: shared},
			logger.Field{Key: "err", Value: err},
		)
		return []string{FallbackLine}
	}
	return copyLines(v.([]string))
}

// Len reports how many summaries are stored.
func (c *SummaryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func summaryKey(destination string, nights int) string {
	return fmt.Sprintf("%s:%s", strings.ToUpper(strings.TrimSpace(destination)), strconv.Itoa(nights))
}

func copyLines(lines []string) []string {
	out := make([]string, len(lines))
	copy(out, lines)
	return out
}
