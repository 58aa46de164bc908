package crawler

import (
	"context"

	"github.com/Adda-Baaj/news-digest/internal/domain"
)

// EventStatus is the lifecycle stage reported by Stream.
type EventStatus string

const (
	StatusProcessing EventStatus = "processing"
	StatusCompleted  EventStatus = "completed"
	StatusError      EventStatus = "error"
)

// Event is one streamed progress record. Outcome is set for completed events,
// Err for the terminal error event.
type Event struct {
	Status  EventStatus
	URL     string
	Outcome *domain.Outcome
	Err     error
}

// Stream runs the same pipeline as ScrapeBatch but reports progress as it happens:
// a processing event when a URL is dispatched, a completed event when it settles,
// and a final error event if nothing succeeded. The channel is closed when done.
// If ctx is cancelled, remaining events are dropped and the channel is closed
// once the in-flight batch has settled.
func (s *Scraper) Stream(ctx context.Context, urls []string) (<-chan Event, error) {
	plan := dedupe(urls)
	if len(plan) == 0 {
		return nil, domain.ErrNoURLs
	}

	events := make(chan Event, s.opts.BatchSize)
	go func() {
		defer close(events)

		send := func(ev Event) {
			select {
			case events <- ev:
			case <-ctx.Done():
			}
		}

		succeeded := 0
		s.run(ctx, plan,
			func(url string) {
				send(Event{Status: StatusProcessing, URL: url})
			},
			func(_ int, o domain.Outcome) {
				if o.Success() {
					succeeded++
				}
				send(Event{Status: StatusCompleted, URL: o.URL, Outcome: &o})
			},
		)

		if succeeded == 0 {
			send(Event{Status: StatusError, Err: domain.ErrNoArticlesExtracted})
		}
	}()

	return events, nil
}
