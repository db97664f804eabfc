package summarizer

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"hynews/internal/domain/entity"
	"hynews/internal/resilience/circuitbreaker"
	"hynews/internal/resilience/retry"

	"google.golang.org/genai"
)

// Gemini summarizes with the Gemini API through the genai SDK.
type Gemini struct {
	pipeline
	client *genai.Client
	config Config
}

// NewGemini creates a Gemini summarizer. Config.BaseURL overrides the API
// endpoint.
func NewGemini(ctx context.Context, apiKey string, config Config) (*Gemini, error) {
	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{},
	}
	if config.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &Gemini{
		pipeline: newPipeline(ProviderGemini, circuitbreaker.SummarizerConfig(ProviderGemini), config.Timeout),
		client:   client,
		config:   config,
	}, nil
}

func (g *Gemini) Summarize(ctx context.Context, articles []entity.Article) (*entity.DigestContent, error) {
	return g.summarize(ctx, articles, g.complete)
}

func (g *Gemini) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   digestSchema(),
		MaxOutputTokens:  int32(g.config.MaxTokens),
	})
	if err != nil {
		if code, msg, ok := geminiAPIError(err); ok {
			return "", fmt.Errorf("gemini api: %w", &retry.HTTPError{StatusCode: code, Message: msg})
		}
		return "", fmt.Errorf("gemini api: %w", err)
	}
	return resp.Text(), nil
}

func geminiAPIError(err error) (int, string, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, apiErr.Message, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return apiErrPtr.Code, apiErrPtr.Message, true
	}
	return 0, "", false
}

// digestSchema constrains the reply to the digest JSON the parser expects.
func digestSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"story_of_day": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"title":   {Type: genai.TypeString, Description: "Headline of the most important story"},
					"summary": {Type: genai.TypeString, Description: "Two or three sentence summary"},
				},
				Required: []string{"title", "summary"},
			},
			"categories": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"category": {Type: genai.TypeString},
						"items":    {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
					},
					Required: []string{"category", "items"},
				},
			},
		},
		Required: []string{"story_of_day", "categories"},
	}
}
