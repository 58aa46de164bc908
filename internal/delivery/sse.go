package delivery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Adda-Baaj/news-digest/internal/crawler"
)

// EventPayload is the JSON body of one server-sent event.
type EventPayload struct {
	Status    string `json:"status"`
	URL       string `json:"url,omitempty"`
	Title     string `json:"title,omitempty"`
	Date      string `json:"date,omitempty"`
	Content   string `json:"content,omitempty"`
	Source    string `json:"source,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorKind string `json:"error_kind,omitempty"`
}

// PayloadOf converts a crawler event to its wire form.
func PayloadOf(ev crawler.Event) EventPayload {
	p := EventPayload{Status: string(ev.Status), URL: ev.URL}
	switch {
	case ev.Outcome != nil && ev.Outcome.Article != nil:
		a := ev.Outcome.Article
		p.Title = a.Title
		p.Date = a.Date
		p.Content = a.Content
		p.Source = a.Source
	case ev.Outcome != nil && ev.Outcome.Err != nil:
		p.Error = ev.Outcome.Err.Message
		p.ErrorKind = string(ev.Outcome.Err.Kind)
	case ev.Err != nil:
		p.Error = ev.Err.Error()
	}
	return p
}

// WriteSSE writes ev as a single "data: <json>" event terminated by a blank line.
func WriteSSE(w io.Writer, ev crawler.Event) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(PayloadOf(ev)); err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	// Encode appends a newline, which becomes the first of the two terminators.
	if _, err := fmt.Fprintf(w, "data: %s\n", buf.Bytes()); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}
