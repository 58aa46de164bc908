package publishers

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"time"

	"github.com/Adda-Baaj/news-digest/internal/domain"
	"github.com/Adda-Baaj/news-digest/internal/logger"
)

// Logger is the logging contract publishers write to.
type Logger = logger.Logger

func ensureLogger(log Logger) Logger {
	if log == nil {
		return logger.NopLogger{}
	}
	return log
}

// Event is the message delivered to sinks for one extracted article.
type Event struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Date        string    `json:"date,omitempty"`
	Content     string    `json:"content"`
	ExtractedAt time.Time `json:"extracted_at"`
}

// NewEvent builds an Event from an article. ID is stable for a given URL.
func NewEvent(a domain.Article, at time.Time) Event {
	sum := sha1.Sum([]byte(a.URL))
	return Event{
		ID:          hex.EncodeToString(sum[:]),
		Source:      a.Source,
		Title:       a.Title,
		URL:         a.URL,
		Date:        a.Date,
		Content:     a.Content,
		ExtractedAt: at.UTC(),
	}
}

// attributes are the routing attributes attached to queue messages.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"source":   e.Source,
		"event_id": e.ID,
	}
}

// Publisher delivers events to one configured sink.
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}
