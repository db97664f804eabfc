package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hynews/internal/domain/entity"
	"hynews/internal/resilience/circuitbreaker"
	"hynews/internal/resilience/retry"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Claude summarizes with Anthropic's Messages API.
type Claude struct {
	pipeline
	client anthropic.Client
	config Config
}

// NewClaude creates a Claude summarizer. SDK-level retries are disabled so
// that the shared retry policy is the only one in effect.
func NewClaude(apiKey string, config Config) *Claude {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}
	return &Claude{
		pipeline: newPipeline(ProviderClaude, circuitbreaker.SummarizerConfig(ProviderClaude), config.Timeout),
		client:   anthropic.NewClient(opts...),
		config:   config,
	}
}

func (c *Claude) Summarize(ctx context.Context, articles []entity.Article) (*entity.DigestContent, error) {
	return c.summarize(ctx, articles, c.complete)
}

func (c *Claude) complete(ctx context.Context, prompt string) (string, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.config.Model),
		MaxTokens: int64(c.config.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("claude api: %w", &retry.HTTPError{StatusCode: apiErr.StatusCode, Message: apiErr.Error()})
		}
		return "", fmt.Errorf("claude api: %w", err)
	}

	var b strings.Builder
	for _, block := range message.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(tb.Text)
		}
	}
	return b.String(), nil
}
