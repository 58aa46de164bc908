package domain

import "errors"

// Domain contains core models shared by the scraping pipeline and its consumers.

// Article is the result of one successful extraction. Treat it as a value.
type Article struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Date    string `json:"date"` // MM/DD or empty
	Content string `json:"content"`
	Source  string `json:"source"`
}

// ErrorKind tags why a URL failed.
type ErrorKind string

const (
	KindUnsupportedSource ErrorKind = "unsupported_source"
	KindFetchStatus       ErrorKind = "fetch_status"
	KindFetchNetwork      ErrorKind = "fetch_network"
	KindFetchEmpty        ErrorKind = "fetch_empty"
	KindTimeout           ErrorKind = "timeout"
	KindTitleNotFound     ErrorKind = "title_not_found"
	KindContentNotFound   ErrorKind = "content_not_found"
)

// ExtractionError is the failure half of an Outcome.
type ExtractionError struct {
	URL     string    `json:"url"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *ExtractionError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// Outcome is the per-URL result of a scrape. Exactly one of Article and Err is set.
type Outcome struct {
	URL     string
	Article *Article
	Err     *ExtractionError
}

// Success reports whether the outcome carries an article.
func (o Outcome) Success() bool { return o.Article != nil }

// Succeeded builds a success outcome.
func Succeeded(a Article) Outcome {
	return Outcome{URL: a.URL, Article: &a}
}

// Failed builds a failure outcome.
func Failed(url string, kind ErrorKind, msg string) Outcome {
	return Outcome{URL: url, Err: &ExtractionError{URL: url, Kind: kind, Message: msg}}
}

var (
	// ErrNoURLs is returned when a batch is empty after normalization.
	ErrNoURLs = errors.New("no urls submitted")
	// ErrNoArticlesExtracted is returned when every URL in a batch failed.
	ErrNoArticlesExtracted = errors.New("no articles extracted")
)

// CountSucceeded returns the number of successful outcomes.
func CountSucceeded(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Success() {
			n++
		}
	}
	return n
}
