package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Adda-Baaj/news-digest/internal/config"
	"github.com/Adda-Baaj/news-digest/internal/crawler"
	"github.com/Adda-Baaj/news-digest/internal/logger"
	"github.com/Adda-Baaj/news-digest/internal/store"
	"github.com/Adda-Baaj/news-digest/internal/summarizer"
	"github.com/Adda-Baaj/news-digest/pkg/httpclient"
	"github.com/Adda-Baaj/news-digest/pkg/publishers"
	"github.com/Adda-Baaj/news-digest/pkg/sites"
)

// app holds the wired components for one command run.
type app struct {
	scraper    *crawler.Scraper
	dispatcher *publishers.Dispatcher
	closers    []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

func newApp(ctx context.Context, cfg *config.Config, log logger.Logger, withPublishers bool) (*app, error) {
	a := &app{}

	fetcher := sites.NewHTMLFetcher(httpclient.NewRestyClient(cfg.HTTP.Timeout), cfg.HTTP.UserAgent)

	sum, err := newSummarizer(cfg.Summarizer, cfg.Cache, log, a)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.scraper = crawler.NewScraper(fetcher, sum, log, crawler.Options{
		BatchSize:  cfg.Scrape.BatchSize,
		URLTimeout: cfg.Scrape.URLTimeout,
	})

	if withPublishers {
		if cfg.Publishers.File == "" {
			a.Close()
			return nil, fmt.Errorf("--publish requires publishers.file to be configured")
		}
		cfgs, err := publishers.LoadConfigs(cfg.Publishers.File)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("load publishers: %w", err)
		}
		pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(nil), cfgs, log)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.dispatcher = publishers.NewDispatcher(pubs, cfgs, log)
	}

	return a, nil
}

func newSummarizer(sc config.SummarizerConfig, cc config.CacheConfig, log logger.Logger, a *app) (summarizer.Summarizer, error) {
	if !sc.Enabled {
		log.InfoObj("summarizer disabled, content is returned as extracted", "summarizer_disabled", nil)
		return summarizer.Nop{}, nil
	}

	var sum summarizer.Summarizer = summarizer.New(
		summarizer.NewAnthropicClient(sc.APIKey, sc.BaseURL),
		summarizer.Options{
			Model:       sc.Model,
			Language:    sc.Language,
			MaxTokens:   sc.MaxTokens,
			Temperature: sc.Temperature,
			Timeout:     sc.Timeout,
		},
		log,
	)

	if cc.Path == "" {
		return sum, nil
	}
	cache, err := store.OpenBolt(cc.Path)
	if err != nil {
		return nil, fmt.Errorf("open summary cache: %w", err)
	}
	a.closers = append(a.closers, cache.Close)

	scope := sc.Model + "|" + sc.Language + "|" + strconv.FormatFloat(sc.Temperature, 'f', -1, 64)
	return summarizer.NewCached(sum, cache, scope, log), nil
}
