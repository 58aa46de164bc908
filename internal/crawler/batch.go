package crawler

import (
	"context"
	"strings"
	"sync"

	"github.com/Adda-Baaj/news-digest/internal/domain"
)

// NormalizeURL trims raw and unifies its scheme on https. Scheme-less input gets https.
func NormalizeURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}
	lower := strings.ToLower(u)
	switch {
	case strings.HasPrefix(lower, "https://"):
		return "https://" + u[len("https://"):]
	case strings.HasPrefix(lower, "http://"):
		return "https://" + u[len("http://"):]
	case strings.Contains(u, "://"):
		return u
	default:
		return "https://" + strings.TrimPrefix(u, "//")
	}
}

// dedupe normalizes urls and drops blanks and repeats, keeping first-appearance order.
func dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	plan := make([]string, 0, len(urls))
	for _, raw := range urls {
		u := NormalizeURL(raw)
		if u == "" {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		plan = append(plan, u)
	}
	return plan
}

type settled struct {
	idx     int
	outcome domain.Outcome
}

// run processes plan in sequential batches. Every URL in a batch runs in its own
// goroutine and the next batch starts only after the whole batch has settled.
// onDispatch and onSettle are called from the calling goroutine only; onSettle
// sees outcomes in completion order.
func (s *Scraper) run(ctx context.Context, plan []string, onDispatch func(url string), onSettle func(idx int, o domain.Outcome)) {
	size := s.opts.BatchSize
	for start := 0; start < len(plan); start += size {
		end := min(start+size, len(plan))
		batch := plan[start:end]

		s.log.DebugObj("dispatching batch", "batch_start", map[string]any{
			"batch":  start/size + 1,
			"offset": start,
			"size":   len(batch),
		})

		results := make(chan settled, len(batch))
		var wg sync.WaitGroup
		for i, url := range batch {
			if onDispatch != nil {
				onDispatch(url)
			}
			wg.Add(1)
			go func(idx int, url string) {
				defer wg.Done()
				results <- settled{idx: idx, outcome: s.scrapeOne(ctx, url)}
			}(start+i, url)
		}

		go func() {
			wg.Wait()
			close(results)
		}()

		succeeded := 0
		for r := range results {
			if r.outcome.Success() {
				succeeded++
			}
			onSettle(r.idx, r.outcome)
		}

		s.log.InfoObj("batch settled", "batch_done", map[string]any{
			"batch":     start/size + 1,
			"size":      len(batch),
			"succeeded": succeeded,
		})
	}
}
