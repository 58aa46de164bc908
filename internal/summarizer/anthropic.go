package summarizer

import (
	"context"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
)

// CompletionRequest is a single-turn text generation request.
type CompletionRequest struct {
	Model       string
	System      string
	Prompt      string
	MaxTokens   int64
	Temperature *float64
}

// CompletionClient is the text-generation service the summarizer depends on.
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// anthropicClient implements CompletionClient with the Anthropic Messages API.
type anthropicClient struct {
	client sdk.Client
}

// NewAnthropicClient builds a CompletionClient. baseURL is optional and mostly useful in tests.
func NewAnthropicClient(apiKey, baseURL string) CompletionClient {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &anthropicClient{client: sdk.NewClient(opts...)}
}

func (c *anthropicClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	params := sdk.MessageNewParams{
		Model:     sdk.Model(req.Model),
		MaxTokens: req.MaxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []sdk.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature != nil {
		params.Temperature = sdk.Float(*req.Temperature)
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", eris.Wrap(err, "anthropic: create message")
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", eris.Errorf("anthropic: empty response (stop reason %q)", msg.StopReason)
	}
	return text, nil
}
