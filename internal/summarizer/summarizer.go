package summarizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Adda-Baaj/news-digest/internal/logger"
)

const (
	DefaultModel       = "claude-haiku-4-5-20251001"
	DefaultLanguage    = "Korean"
	DefaultMaxTokens   = 512
	DefaultTemperature = 0.2
	DefaultTimeout     = 20 * time.Second
)

// Summarizer condenses article text. It never fails: on any problem it returns the input.
type Summarizer interface {
	Summarize(ctx context.Context, text string) string
}

// Nop returns the text untouched.
type Nop struct{}

func (Nop) Summarize(_ context.Context, text string) string { return text }

// Options configures the LLM call.
type Options struct {
	Model       string
	Language    string
	MaxTokens   int64
	Temperature float64
	Timeout     time.Duration
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.Model) == "" {
		o.Model = DefaultModel
	}
	if strings.TrimSpace(o.Language) == "" {
		o.Language = DefaultLanguage
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// Adapter summarizes through a CompletionClient and falls back to the original text.
type Adapter struct {
	client CompletionClient
	opts   Options
	log    logger.Logger
}

// New builds an Adapter.
func New(client CompletionClient, opts Options, log logger.Logger) *Adapter {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Adapter{client: client, opts: opts.withDefaults(), log: log}
}

// SystemPrompt is the fixed instruction sent with every request.
func SystemPrompt(language string) string {
	return fmt.Sprintf(`You summarize technology news articles.
Write exactly two sentences in %s.
Put each sentence on its own line and start it with "- ".
Keep technical terms, product names, company names and acronyms exactly as they appear in the article.
Output only the two lines, nothing else.`, language)
}

// Summarize returns a two-bullet summary, or text unchanged if the call fails.
func (a *Adapter) Summarize(ctx context.Context, text string) string {
	if a.client == nil || strings.TrimSpace(text) == "" {
		return text
	}

	callCtx, cancel := context.WithTimeout(ctx, a.opts.Timeout)
	defer cancel()

	temp := a.opts.Temperature
	summary, err := a.client.Complete(callCtx, CompletionRequest{
		Model:       a.opts.Model,
		System:      SystemPrompt(a.opts.Language),
		Prompt:      text,
		MaxTokens:   a.opts.MaxTokens,
		Temperature: &temp,
	})
	if err != nil {
		a.log.WarnObj("summarization degraded, keeping original text", "summarize_degraded", map[string]any{
			"model": a.opts.Model,
			"error": err.Error(),
		})
		return text
	}

	summary = normalizeBullets(summary)
	if summary == "" {
		a.log.WarnObj("summarization returned no bullets, keeping original text", "summarize_degraded", map[string]any{
			"model": a.opts.Model,
		})
		return text
	}
	return summary
}

// normalizeBullets keeps the non-empty lines and makes sure each starts with "- ".
func normalizeBullets(raw string) string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimSpace(strings.TrimLeft(line, "-•*"))
		if line == "" {
			continue
		}
		lines = append(lines, "- "+line)
	}
	return strings.Join(lines, "\n")
}
