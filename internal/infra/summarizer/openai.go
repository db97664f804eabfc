package summarizer

import (
	"context"
	"errors"
	"fmt"

	"hynews/internal/domain/entity"
	"hynews/internal/resilience/circuitbreaker"
	"hynews/internal/resilience/retry"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAI summarizes with the Chat Completions API in JSON mode.
type OpenAI struct {
	pipeline
	client *openai.Client
	config Config
}

func NewOpenAI(apiKey string, config Config) *OpenAI {
	clientConfig := openai.DefaultConfig(apiKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	return &OpenAI{
		pipeline: newPipeline(ProviderOpenAI, circuitbreaker.SummarizerConfig(ProviderOpenAI), config.Timeout),
		client:   openai.NewClientWithConfig(clientConfig),
		config:   config,
	}
}

func (o *OpenAI) Summarize(ctx context.Context, articles []entity.Article) (*entity.DigestContent, error) {
	return o.summarize(ctx, articles, o.complete)
}

func (o *OpenAI) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.config.Model,
		MaxTokens: o.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", openAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// openAIError exposes the HTTP status of API failures to the retry policy.
func openAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("openai api: %w", &retry.HTTPError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message})
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("openai api: %w", &retry.HTTPError{StatusCode: reqErr.HTTPStatusCode, Message: reqErr.Error()})
	}
	return fmt.Errorf("openai api: %w", err)
}
