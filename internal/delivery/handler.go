package delivery

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Adda-Baaj/news-digest/internal/crawler"
	"github.com/Adda-Baaj/news-digest/internal/domain"
	"github.com/Adda-Baaj/news-digest/internal/logger"
)

// Streamer is the part of the orchestrator the stream handler needs.
type Streamer interface {
	Stream(ctx context.Context, urls []string) (<-chan crawler.Event, error)
}

// Batcher is the part of the orchestrator the batch handler needs.
type Batcher interface {
	ScrapeBatch(ctx context.Context, urls []string) ([]domain.Outcome, error)
}

// URLsFromRequest collects URLs from repeated "url" query parameters.
// A single parameter may also carry a comma or newline separated list.
func URLsFromRequest(r *http.Request) []string {
	var urls []string
	for _, v := range r.URL.Query()["url"] {
		for _, part := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == '\n' }) {
			if part = strings.TrimSpace(part); part != "" {
				urls = append(urls, part)
			}
		}
	}
	return urls
}

// StreamHandler serves progress as server-sent events.
type StreamHandler struct {
	streamer Streamer
	log      logger.Logger
}

func NewStreamHandler(s Streamer, log logger.Logger) *StreamHandler {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &StreamHandler{streamer: s, log: log}
}

func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.log.ErrorObj("response writer does not support flushing", "sse_unsupported", nil)
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	events, err := h.streamer.Stream(r.Context(), URLsFromRequest(r))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrNoURLs) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for ev := range events {
		if err := WriteSSE(w, ev); err != nil {
			h.log.InfoObj("client disconnected", "sse_closed", map[string]any{"error": err.Error()})
			// keep draining so the producer can finish its batch and close
			continue
		}
		flusher.Flush()
	}
}

// BatchHandler runs a whole batch and answers with the JSON report.
type BatchHandler struct {
	batcher Batcher
	log     logger.Logger
}

func NewBatchHandler(b Batcher, log logger.Logger) *BatchHandler {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &BatchHandler{batcher: b, log: log}
}

func (h *BatchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	outcomes, err := h.batcher.ScrapeBatch(r.Context(), URLsFromRequest(r))

	status := http.StatusOK
	switch {
	case errors.Is(err, domain.ErrNoURLs):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, domain.ErrNoArticlesExtracted):
		status = http.StatusUnprocessableEntity
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := WriteJSON(w, outcomes, err); err != nil {
		h.log.WarnObj("failed to write batch report", "report_write_error", map[string]any{"error": err.Error()})
	}
}
