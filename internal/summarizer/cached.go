package summarizer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/Adda-Baaj/news-digest/internal/logger"
	"github.com/Adda-Baaj/news-digest/internal/store"
)

// Cached consults a SummaryCache before delegating to the wrapped Summarizer.
// Only real summaries (output differing from input) are stored.
type Cached struct {
	next  Summarizer
	cache store.SummaryCache
	scope string
	log   logger.Logger
}

// NewCached wraps next. scope separates entries produced under different models or languages.
func NewCached(next Summarizer, cache store.SummaryCache, scope string, log logger.Logger) *Cached {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Cached{next: next, cache: cache, scope: scope, log: log}
}

func (c *Cached) Summarize(ctx context.Context, text string) string {
	key := c.key(text)

	if cached, found, err := c.cache.Get(key); err != nil {
		c.log.WarnObj("summary cache read failed", "summary_cache_error", map[string]any{"error": err.Error()})
	} else if found {
		c.log.DebugObj("summary cache hit", "summary_cache_hit", map[string]any{"key": key})
		return cached
	}

	summary := c.next.Summarize(ctx, text)
	if summary == text {
		return summary
	}
	if err := c.cache.Put(key, summary); err != nil {
		c.log.WarnObj("summary cache write failed", "summary_cache_error", map[string]any{"error": err.Error()})
	}
	return summary
}

func (c *Cached) key(text string) string {
	sum := sha256.Sum256([]byte(c.scope + "\x00" + text))
	return hex.EncodeToString(sum[:])
}
