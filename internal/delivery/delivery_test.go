package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adda-Baaj/news-digest/internal/crawler"
	"github.com/Adda-Baaj/news-digest/internal/domain"
)

func sampleOutcomes() []domain.Outcome {
	return []domain.Outcome{
		domain.Succeeded(domain.Article{
			Title:   "AI <칩> 경쟁",
			URL:     "https://aitimes.com/1",
			Date:    "05/01",
			Content: "- 첫째.\n- 둘째.",
			Source:  "aitimes",
		}),
		domain.Failed("https://example.com/x", domain.KindUnsupportedSource, "the url https://example.com/x is not supported"),
	}
}

func TestWriteSSEFraming(t *testing.T) {
	out := sampleOutcomes()
	var buf bytes.Buffer

	require.NoError(t, WriteSSE(&buf, crawler.Event{Status: crawler.StatusProcessing, URL: "https://aitimes.com/1"}))
	require.NoError(t, WriteSSE(&buf, crawler.Event{Status: crawler.StatusCompleted, URL: out[0].URL, Outcome: &out[0]}))
	require.NoError(t, WriteSSE(&buf, crawler.Event{Status: crawler.StatusCompleted, URL: out[1].URL, Outcome: &out[1]}))

	chunks := strings.Split(strings.TrimSuffix(buf.String(), "\n\n"), "\n\n")
	require.Len(t, chunks, 3)
	for _, c := range chunks {
		assert.True(t, strings.HasPrefix(c, "data: "), c)
		assert.NotContains(t, c, "\n")
	}

	var processing, success, failure EventPayload
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(chunks[0], "data: ")), &processing))
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(chunks[1], "data: ")), &success))
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(chunks[2], "data: ")), &failure))

	assert.Equal(t, EventPayload{Status: "processing", URL: "https://aitimes.com/1"}, processing)
	assert.Equal(t, "completed", success.Status)
	assert.Equal(t, "AI <칩> 경쟁", success.Title)
	assert.Equal(t, "- 첫째.\n- 둘째.", success.Content)
	assert.Empty(t, success.Error)
	assert.Equal(t, "unsupported_source", failure.ErrorKind)
	assert.Contains(t, failure.Error, "is not supported")
	assert.Contains(t, chunks[1], "<칩>")
}

func TestPayloadOfTerminalError(t *testing.T) {
	p := PayloadOf(crawler.Event{Status: crawler.StatusError, Err: domain.ErrNoArticlesExtracted})
	assert.Equal(t, EventPayload{Status: "error", Error: "no articles extracted"}, p)
}

func TestWriteJSONReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleOutcomes(), nil))

	var r Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &r))
	assert.Equal(t, 2, r.Total)
	assert.Equal(t, 1, r.Succeeded)
	require.Len(t, r.Articles, 1)
	assert.Equal(t, "aitimes", r.Articles[0].Source)
	require.Len(t, r.Failures, 1)
	assert.Equal(t, domain.KindUnsupportedSource, r.Failures[0].Kind)
	assert.Empty(t, r.Error)
}

func TestWriteTextDigest(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, sampleOutcomes(), nil))
	got := buf.String()

	assert.Contains(t, got, "[1] AI <칩> 경쟁 (05/01)\n    https://aitimes.com/1\n    - 첫째.\n    - 둘째.\n")
	assert.Contains(t, got, "[2] FAILED https://example.com/x\n    unsupported_source: ")
	assert.Contains(t, got, "1 of 2 articles extracted")
}

type fakeScraper struct {
	events   []crawler.Event
	outcomes []domain.Outcome
	err      error
	gotURLs  []string
}

func (f *fakeScraper) Stream(_ context.Context, urls []string) (<-chan crawler.Event, error) {
	f.gotURLs = urls
	if f.err != nil {
		return nil, f.err
	}
	ch := make(chan crawler.Event, len(f.events))
	for _, ev := range f.events {
		ch <- ev
	}
	close(ch)
	return ch, nil
}

func (f *fakeScraper) ScrapeBatch(_ context.Context, urls []string) ([]domain.Outcome, error) {
	f.gotURLs = urls
	return f.outcomes, f.err
}

func TestStreamHandler(t *testing.T) {
	out := sampleOutcomes()
	fake := &fakeScraper{events: []crawler.Event{
		{Status: crawler.StatusProcessing, URL: out[0].URL},
		{Status: crawler.StatusCompleted, URL: out[0].URL, Outcome: &out[0]},
	}}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stream?url=https://aitimes.com/1&url=a.com,b.com", nil)
	NewStreamHandler(fake, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, []string{"https://aitimes.com/1", "a.com", "b.com"}, fake.gotURLs)
	assert.Equal(t, 2, strings.Count(rec.Body.String(), "data: "))
}

func TestStreamHandlerNoURLs(t *testing.T) {
	rec := httptest.NewRecorder()
	NewStreamHandler(&fakeScraper{err: domain.ErrNoURLs}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stream", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBatchHandlerStatuses(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"ok", nil, http.StatusOK},
		{"no urls", domain.ErrNoURLs, http.StatusBadRequest},
		{"nothing extracted", domain.ErrNoArticlesExtracted, http.StatusUnprocessableEntity},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			fake := &fakeScraper{outcomes: sampleOutcomes(), err: tc.err}
			NewBatchHandler(fake, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/batch?url=x", nil))
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
