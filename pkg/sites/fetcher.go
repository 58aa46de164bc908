package sites

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/Adda-Baaj/news-digest/pkg/httpclient"

	"github.com/PuerkitoBio/goquery"
)

const (
	// DefaultUserAgent mimics a desktop browser; several sources reject non-browser clients.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:92.0) Gecko/20100101 Firefox/92.0"

	DefaultFetchTimeout = 15 * time.Second

	maxHTMLBodyBytes = 4 << 20 // 4 MiB
)

// FetchKind classifies why a page could not be fetched.
type FetchKind string

const (
	FetchStatus  FetchKind = "status"
	FetchTimeout FetchKind = "timeout"
	FetchNetwork FetchKind = "network"
	FetchEmpty   FetchKind = "empty"
)

// FetchError is returned by HTMLFetcher for every failure.
type FetchError struct {
	Kind       FetchKind
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FetchStatus:
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	default:
		if e.Err != nil {
			return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
		}
		return fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// DocumentFetcher returns a parsed HTML document for a URL.
type DocumentFetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

// HTMLFetcher issues a single GET per URL. It never retries.
type HTMLFetcher struct {
	client  httpclient.Client
	headers map[string]string
}

// NewHTMLFetcher builds a fetcher. A nil client gets a resty client with DefaultFetchTimeout,
// an empty user agent falls back to DefaultUserAgent.
func NewHTMLFetcher(client httpclient.Client, userAgent string) *HTMLFetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = DefaultUserAgent
	}
	return &HTMLFetcher{
		client: client,
		headers: map[string]string{
			"User-Agent":      userAgent,
			"Accept":          "text/html,application/xhtml+xml",
			"Accept-Language": "ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7",
		},
	}
}

// DefaultHTTPClient returns the resty client used when none is injected.
func DefaultHTTPClient() httpclient.Client { return httpclient.NewRestyClient(DefaultFetchTimeout) }

// Fetch downloads and parses the page.
func (f *HTMLFetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	resp, err := f.client.Get(ctx, url, f.headers)
	if err != nil {
		return nil, &FetchError{Kind: transportKind(ctx, err), URL: url, Err: err}
	}

	if code := resp.StatusCode(); code < 200 || code > 299 {
		return nil, &FetchError{
			Kind:       FetchStatus,
			URL:        url,
			StatusCode: code,
			Err:        fmt.Errorf("body: %s", responseSnippet(resp.Body())),
		}
	}

	body := resp.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &FetchError{Kind: FetchEmpty, URL: url, Err: errors.New("empty body")}
	}
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &FetchError{Kind: FetchEmpty, URL: url, Err: fmt.Errorf("parse html: %w", err)}
	}
	return doc, nil
}

// transportKind separates deadline expiry from other connection failures.
func transportKind(ctx context.Context, err error) FetchKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return FetchTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FetchTimeout
	}
	return FetchNetwork
}

// responseSnippet returns a truncated snippet of the response body for error messages.
func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
