package crawler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adda-Baaj/news-digest/internal/domain"
	"github.com/Adda-Baaj/news-digest/pkg/sites"
)

const aitimesPage = `<html><body>
<h3 class="heading">AI 반도체 경쟁 가속</h3>
<ul><li><i class="icon-clock-o"></i> 2024.05.01 10:30</li></ul>
<article id="article-view-content-div"><p>A.</p><p>B.</p></article>
</body></html>`

const techcrunchNoDate = `<html><body>
<h1 class="article-hero__title wp-block-post-title">Funding round</h1>
<div class="entry-content wp-block-post-content"><p>Body.</p></div>
</body></html>`

type fetchFunc func(ctx context.Context, url string) (*goquery.Document, error)

// fakeFetcher serves fixed pages and records how fetches overlap.
type fakeFetcher struct {
	mu        sync.Mutex
	fn        fetchFunc
	calls     map[string]int
	inFlight  int
	maxFlight int
	completed int
	// completedAtStart holds the completed count observed by each fetch when it began.
	completedAtStart []int
}

func newFakeFetcher(fn fetchFunc) *fakeFetcher {
	return &fakeFetcher{fn: fn, calls: map[string]int{}}
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	f.mu.Lock()
	f.calls[url]++
	f.inFlight++
	f.maxFlight = max(f.maxFlight, f.inFlight)
	f.completedAtStart = append(f.completedAtStart, f.completed)
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.completed++
		f.mu.Unlock()
	}()

	return f.fn(ctx, url)
}

func page(html string) fetchFunc {
	return func(context.Context, string) (*goquery.Document, error) {
		return goquery.NewDocumentFromReader(strings.NewReader(html))
	}
}

type recordingSummarizer struct {
	mu    sync.Mutex
	texts []string
}

func (r *recordingSummarizer) Summarize(_ context.Context, text string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts = append(r.texts, text)
	return "- summary"
}

func TestNormalizeURL(t *testing.T) {
	cases := map[string]string{
		"  http://www.aitimes.com/news/1 ": "https://www.aitimes.com/news/1",
		"HTTP://venturebeat.com/a":         "https://venturebeat.com/a",
		"https://techcrunch.com/b":         "https://techcrunch.com/b",
		"zdnet.co.kr/view/?no=1":           "https://zdnet.co.kr/view/?no=1",
		"//aitimes.kr/x":                   "https://aitimes.kr/x",
		"ftp://aitimes.kr/x":               "ftp://aitimes.kr/x",
		"   ":                              "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeURL(in), in)
	}
}

func TestScrapeBatchSuccess(t *testing.T) {
	sum := &recordingSummarizer{}
	s := NewScraper(newFakeFetcher(page(aitimesPage)), sum, nil, Options{})

	out, err := s.ScrapeBatch(context.Background(), []string{"http://www.aitimes.com/news/1"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.True(t, out[0].Success())

	art := out[0].Article
	assert.Equal(t, "https://www.aitimes.com/news/1", art.URL)
	assert.Equal(t, "AI 반도체 경쟁 가속", art.Title)
	assert.Equal(t, "05/01", art.Date)
	assert.Equal(t, "- summary", art.Content)
	assert.Equal(t, sites.AITimesID, art.Source)
	assert.Equal(t, []string{"A.\n\nB."}, sum.texts)
}

func TestScrapeBatchMissingDateIsSoft(t *testing.T) {
	s := NewScraper(newFakeFetcher(page(techcrunchNoDate)), nil, nil, Options{})

	out, err := s.ScrapeBatch(context.Background(), []string{"https://techcrunch.com/2024/05/01/x"})
	require.NoError(t, err)
	require.True(t, out[0].Success())
	assert.Empty(t, out[0].Article.Date)
	assert.Equal(t, "Body.", out[0].Article.Content)
}

func TestScrapeBatchTimeoutIsolated(t *testing.T) {
	fetcher := newFakeFetcher(func(ctx context.Context, url string) (*goquery.Document, error) {
		if strings.Contains(url, "example-aitimes.kr") {
			<-ctx.Done()
			return nil, &sites.FetchError{Kind: sites.FetchTimeout, URL: url, Err: ctx.Err()}
		}
		return goquery.NewDocumentFromReader(strings.NewReader(aitimesPage))
	})
	s := NewScraper(fetcher, nil, nil, Options{URLTimeout: 50 * time.Millisecond})

	out, err := s.ScrapeBatch(context.Background(), []string{
		"https://example-aitimes.kr/x",
		"https://www.aitimes.com/news/2",
	})
	require.NoError(t, err)
	require.Len(t, out, 2)

	require.False(t, out[0].Success())
	assert.Equal(t, "https://example-aitimes.kr/x", out[0].URL)
	assert.Equal(t, domain.KindTimeout, out[0].Err.Kind)

	assert.True(t, out[1].Success())
}

func TestScrapeBatchTimeoutWhenFetcherIgnoresContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	fetcher := newFakeFetcher(func(context.Context, string) (*goquery.Document, error) {
		<-release
		return nil, errors.New("too late")
	})
	s := NewScraper(fetcher, nil, nil, Options{URLTimeout: 30 * time.Millisecond})

	out, err := s.ScrapeBatch(context.Background(), []string{"https://aitimes.kr/slow"})
	assert.ErrorIs(t, err, domain.ErrNoArticlesExtracted)
	require.Len(t, out, 1)
	assert.Equal(t, domain.KindTimeout, out[0].Err.Kind)
}

func TestScrapeBatchRunsSequentialBatches(t *testing.T) {
	fetcher := newFakeFetcher(func(context.Context, string) (*goquery.Document, error) {
		time.Sleep(20 * time.Millisecond)
		return goquery.NewDocumentFromReader(strings.NewReader(aitimesPage))
	})
	s := NewScraper(fetcher, nil, nil, Options{BatchSize: 5})

	urls := make([]string, 7)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://www.aitimes.com/news/%d", i)
	}

	out, err := s.ScrapeBatch(context.Background(), urls)
	require.NoError(t, err)
	require.Len(t, out, 7)
	for i, o := range out {
		assert.True(t, o.Success())
		assert.Equal(t, urls[i], o.URL)
	}

	fetcher.mu.Lock()
	defer fetcher.mu.Unlock()
	assert.LessOrEqual(t, fetcher.maxFlight, 5)

	firstGroup, secondGroup := 0, 0
	for _, c := range fetcher.completedAtStart {
		if c < 5 {
			firstGroup++
		} else {
			secondGroup++
		}
	}
	assert.Equal(t, 5, firstGroup)
	assert.Equal(t, 2, secondGroup)
}

func TestScrapeBatchDeduplicates(t *testing.T) {
	fetcher := newFakeFetcher(page(aitimesPage))
	s := NewScraper(fetcher, nil, nil, Options{})

	out, err := s.ScrapeBatch(context.Background(), []string{
		"http://www.aitimes.com/news/1",
		"https://www.aitimes.com/news/1",
		" https://www.aitimes.com/news/1 ",
		"https://www.aitimes.com/news/2",
		"",
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "https://www.aitimes.com/news/1", out[0].URL)
	assert.Equal(t, "https://www.aitimes.com/news/2", out[1].URL)
	assert.Equal(t, 1, fetcher.calls["https://www.aitimes.com/news/1"])
}

func TestScrapeBatchAllUnsupported(t *testing.T) {
	fetcher := newFakeFetcher(page(aitimesPage))
	s := NewScraper(fetcher, nil, nil, Options{})

	out, err := s.ScrapeBatch(context.Background(), []string{"https://example.com/a", "https://news.ycombinator.com"})
	assert.ErrorIs(t, err, domain.ErrNoArticlesExtracted)
	require.Len(t, out, 2)
	for _, o := range out {
		require.NotNil(t, o.Err)
		assert.Equal(t, domain.KindUnsupportedSource, o.Err.Kind)
		assert.Contains(t, o.Err.Message, "is not supported")
	}
	assert.Empty(t, fetcher.calls)
}

func TestScrapeBatchEmptyInput(t *testing.T) {
	s := NewScraper(newFakeFetcher(page(aitimesPage)), nil, nil, Options{})

	_, err := s.ScrapeBatch(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrNoURLs)

	_, err = s.ScrapeBatch(context.Background(), []string{" ", ""})
	assert.ErrorIs(t, err, domain.ErrNoURLs)
	assert.NotErrorIs(t, err, domain.ErrNoArticlesExtracted)
}

func TestScrapeBatchErrorKinds(t *testing.T) {
	fetcher := newFakeFetcher(func(_ context.Context, url string) (*goquery.Document, error) {
		switch {
		case strings.HasSuffix(url, "/forbidden"):
			return nil, &sites.FetchError{Kind: sites.FetchStatus, URL: url, StatusCode: 403}
		case strings.HasSuffix(url, "/empty"):
			return nil, &sites.FetchError{Kind: sites.FetchEmpty, URL: url}
		case strings.HasSuffix(url, "/down"):
			return nil, &sites.FetchError{Kind: sites.FetchNetwork, URL: url, Err: errors.New("connection refused")}
		case strings.HasSuffix(url, "/no-title"):
			return goquery.NewDocumentFromReader(strings.NewReader(`<article id="article-view-content-div"><p>x</p></article>`))
		default:
			return goquery.NewDocumentFromReader(strings.NewReader(`<h3 class="heading">t</h3>`))
		}
	})
	s := NewScraper(fetcher, nil, nil, Options{})

	out, err := s.ScrapeBatch(context.Background(), []string{
		"https://aitimes.com/forbidden",
		"https://aitimes.com/empty",
		"https://aitimes.com/down",
		"https://aitimes.com/no-title",
		"https://aitimes.com/no-content",
	})
	assert.ErrorIs(t, err, domain.ErrNoArticlesExtracted)
	require.Len(t, out, 5)

	want := []domain.ErrorKind{
		domain.KindFetchStatus,
		domain.KindFetchEmpty,
		domain.KindFetchNetwork,
		domain.KindTitleNotFound,
		domain.KindContentNotFound,
	}
	for i, kind := range want {
		require.NotNil(t, out[i].Err, out[i].URL)
		assert.Equal(t, kind, out[i].Err.Kind, out[i].URL)
	}
}

func TestScrapeBatchMixedResults(t *testing.T) {
	s := NewScraper(newFakeFetcher(page(aitimesPage)), nil, nil, Options{})

	out, err := s.ScrapeBatch(context.Background(), []string{"https://aitimes.com/1", "https://example.org/2"})
	require.NoError(t, err)
	assert.Equal(t, 1, domain.CountSucceeded(out))
	assert.True(t, out[0].Success())
	assert.False(t, out[1].Success())
}
