package delivery

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Adda-Baaj/news-digest/internal/domain"
)

// Report is the aggregate-mode response body.
type Report struct {
	Total     int                      `json:"total"`
	Succeeded int                      `json:"succeeded"`
	Articles  []domain.Article         `json:"articles"`
	Failures  []domain.ExtractionError `json:"failures"`
	Error     string                   `json:"error,omitempty"`
}

// NewReport splits outcomes into articles and failures, preserving their order.
// batchErr, when set, is carried in the Error field.
func NewReport(outcomes []domain.Outcome, batchErr error) Report {
	r := Report{
		Total:    len(outcomes),
		Articles: make([]domain.Article, 0, len(outcomes)),
		Failures: make([]domain.ExtractionError, 0),
	}
	for _, o := range outcomes {
		switch {
		case o.Article != nil:
			r.Articles = append(r.Articles, *o.Article)
		case o.Err != nil:
			r.Failures = append(r.Failures, *o.Err)
		}
	}
	r.Succeeded = len(r.Articles)
	if batchErr != nil {
		r.Error = batchErr.Error()
	}
	return r
}

// WriteJSON renders the aggregate report as indented JSON.
func WriteJSON(w io.Writer, outcomes []domain.Outcome, batchErr error) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewReport(outcomes, batchErr)); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// WriteText renders outcomes as a numbered digest, failures inline with their reason.
func WriteText(w io.Writer, outcomes []domain.Outcome, batchErr error) error {
	var b strings.Builder
	for i, o := range outcomes {
		if i > 0 {
			b.WriteString("\n")
		}
		if o.Article == nil {
			kind, msg := "unknown", ""
			if o.Err != nil {
				kind, msg = string(o.Err.Kind), o.Err.Message
			}
			fmt.Fprintf(&b, "[%d] FAILED %s\n    %s: %s\n", i+1, o.URL, kind, msg)
			continue
		}

		a := o.Article
		if a.Date != "" {
			fmt.Fprintf(&b, "[%d] %s (%s)\n", i+1, a.Title, a.Date)
		} else {
			fmt.Fprintf(&b, "[%d] %s\n", i+1, a.Title)
		}
		fmt.Fprintf(&b, "    %s\n", a.URL)
		for _, line := range strings.Split(a.Content, "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			fmt.Fprintf(&b, "    %s\n", line)
		}
	}

	fmt.Fprintf(&b, "\n%d of %d articles extracted\n", domain.CountSucceeded(outcomes), len(outcomes))
	if batchErr != nil {
		fmt.Fprintf(&b, "error: %v\n", batchErr)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write digest: %w", err)
	}
	return nil
}
