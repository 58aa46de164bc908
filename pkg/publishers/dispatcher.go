package publishers

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Adda-Baaj/news-digest/internal/domain"
)

const defaultMaxInFlight = 8

// DeliveryStats counts publish attempts for one dispatch.
type DeliveryStats struct {
	Attempted int64
	Delivered int64
	Failed    int64
}

// Dispatcher fans successful articles out to every publisher that accepts their source.
// A failed publish is logged and counted, never returned.
type Dispatcher struct {
	pubs   []Publisher
	accept map[string]PublisherConfig
	log    Logger
	now    func() time.Time
}

// NewDispatcher pairs built publishers with their configs (matched by ID) for source filtering.
func NewDispatcher(pubs []Publisher, cfgs []PublisherConfig, log Logger) *Dispatcher {
	accept := make(map[string]PublisherConfig, len(cfgs))
	for _, cfg := range cfgs {
		accept[cfg.ID] = cfg
	}
	return &Dispatcher{pubs: pubs, accept: accept, log: ensureLogger(log), now: time.Now}
}

// Dispatch publishes every successful outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, outcomes []domain.Outcome) DeliveryStats {
	var attempted, delivered, failed atomic.Int64
	if len(d.pubs) == 0 {
		return DeliveryStats{}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(defaultMaxInFlight)

	at := d.now()
	for _, o := range outcomes {
		if !o.Success() {
			continue
		}
		evt := NewEvent(*o.Article, at)
		for _, pub := range d.pubs {
			pub := pub // per-iteration copy; go directive predates Go 1.22 loopvar semantics
			if cfg, ok := d.accept[pub.ID()]; ok && !cfg.Accepts(evt.Source) {
				continue
			}
			attempted.Add(1)
			g.Go(func() error {
				if err := pub.Publish(gctx, evt); err != nil {
					failed.Add(1)
					d.log.WarnObj("publish failed", "publish_error", map[string]any{
						"publisher_id": pub.ID(),
						"url":          evt.URL,
						"error":        err.Error(),
					})
					return nil
				}
				delivered.Add(1)
				return nil
			})
		}
	}
	_ = g.Wait()

	stats := DeliveryStats{Attempted: attempted.Load(), Delivered: delivered.Load(), Failed: failed.Load()}
	d.log.InfoObj("articles published", "publish_done", map[string]any{
		"attempted": stats.Attempted,
		"delivered": stats.Delivered,
		"failed":    stats.Failed,
	})
	return stats
}
