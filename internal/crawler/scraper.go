package crawler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Adda-Baaj/news-digest/internal/domain"
	"github.com/Adda-Baaj/news-digest/internal/logger"
	"github.com/Adda-Baaj/news-digest/internal/summarizer"
	"github.com/Adda-Baaj/news-digest/pkg/sites"
)

const (
	DefaultBatchSize  = 5
	DefaultURLTimeout = 30 * time.Second
)

// Options tunes the orchestrator.
type Options struct {
	BatchSize  int
	URLTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.URLTimeout <= 0 {
		o.URLTimeout = DefaultURLTimeout
	}
	return o
}

// Scraper turns article URLs into outcomes: classify, fetch, extract, summarize.
type Scraper struct {
	fetcher    sites.DocumentFetcher
	summarizer summarizer.Summarizer
	log        logger.Logger
	opts       Options
}

// NewScraper creates a Scraper. A nil fetcher gets the default HTML fetcher,
// a nil summarizer leaves content untouched.
func NewScraper(fetcher sites.DocumentFetcher, sum summarizer.Summarizer, log logger.Logger, opts Options) *Scraper {
	if fetcher == nil {
		fetcher = sites.NewHTMLFetcher(nil, "")
	}
	if sum == nil {
		sum = summarizer.Nop{}
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Scraper{fetcher: fetcher, summarizer: sum, log: log, opts: opts.withDefaults()}
}

// ScrapeBatch processes urls and returns one outcome per distinct normalized URL,
// in order of first appearance. When nothing succeeds the outcomes are returned
// together with domain.ErrNoArticlesExtracted.
func (s *Scraper) ScrapeBatch(ctx context.Context, urls []string) ([]domain.Outcome, error) {
	plan := dedupe(urls)
	if len(plan) == 0 {
		return nil, domain.ErrNoURLs
	}

	out := make([]domain.Outcome, len(plan))
	s.run(ctx, plan, nil, func(idx int, o domain.Outcome) {
		out[idx] = o
	})

	return out, finalErr(out)
}

func finalErr(outcomes []domain.Outcome) error {
	if domain.CountSucceeded(outcomes) == 0 {
		return domain.ErrNoArticlesExtracted
	}
	return nil
}

// scrapeOne runs the pipeline for a single URL. Classification, fetch and
// extraction are bounded by the per-URL timeout; summarization has its own.
func (s *Scraper) scrapeOne(ctx context.Context, url string) domain.Outcome {
	s.log.DebugObj("scraping article", "scrape_start", map[string]any{"url": url})

	profile, ok := sites.Classify(url)
	if !ok {
		return domain.Failed(url, domain.KindUnsupportedSource, fmt.Sprintf("the url %s is not supported", url))
	}

	fields, failure := s.fetchAndExtract(ctx, profile, url)
	if failure != nil {
		s.log.WarnObj("article scrape failed", "scrape_error", map[string]any{
			"url":         url,
			"provider_id": profile.ID,
			"kind":        string(failure.Err.Kind),
			"error":       failure.Err.Message,
		})
		return *failure
	}

	content := s.summarizer.Summarize(ctx, fields.Content)

	s.log.InfoObj("article scraped", "scrape_success", map[string]any{
		"url":         url,
		"provider_id": profile.ID,
		"has_date":    fields.Date != "",
	})

	return domain.Succeeded(domain.Article{
		Title:   fields.Title,
		URL:     url,
		Date:    fields.Date,
		Content: content,
		Source:  profile.ID,
	})
}

type extraction struct {
	fields  sites.Fields
	failure *domain.Outcome
}

// fetchAndExtract reports a timeout as soon as the deadline passes, even when
// the fetcher does not honour ctx.
func (s *Scraper) fetchAndExtract(ctx context.Context, profile sites.Profile, url string) (sites.Fields, *domain.Outcome) {
	urlCtx, cancel := context.WithTimeout(ctx, s.opts.URLTimeout)
	defer cancel()

	done := make(chan extraction, 1)
	go func() {
		done <- s.extract(urlCtx, profile, url)
	}()

	select {
	case res := <-done:
		return res.fields, res.failure
	case <-urlCtx.Done():
		o := domain.Failed(url, domain.KindTimeout, fmt.Sprintf("no result within %s: %v", s.opts.URLTimeout, urlCtx.Err()))
		return sites.Fields{}, &o
	}
}

func (s *Scraper) extract(ctx context.Context, profile sites.Profile, url string) extraction {
	doc, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		o := domain.Failed(url, fetchErrorKind(ctx, err), err.Error())
		return extraction{failure: &o}
	}

	fields, err := sites.Extract(doc, profile)
	if err != nil {
		kind := domain.KindContentNotFound
		if errors.Is(err, sites.ErrTitleNotFound) {
			kind = domain.KindTitleNotFound
		}
		o := domain.Failed(url, kind, err.Error())
		return extraction{failure: &o}
	}

	if fields.Date == "" {
		_, dateErr := sites.DateOf(doc, profile.Date)
		s.log.DebugObj("article date unavailable", "date_unavailable", map[string]any{
			"url":      url,
			"strategy": profile.Date.String(),
			"reason":   fmt.Sprint(dateErr),
		})
	}

	return extraction{fields: fields}
}

func fetchErrorKind(ctx context.Context, err error) domain.ErrorKind {
	var fe *sites.FetchError
	if errors.As(err, &fe) {
		switch fe.Kind {
		case sites.FetchStatus:
			return domain.KindFetchStatus
		case sites.FetchTimeout:
			return domain.KindTimeout
		case sites.FetchEmpty:
			return domain.KindFetchEmpty
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.KindTimeout
	}
	return domain.KindFetchNetwork
}
