// Package summarizer turns a batch of articles into a categorized daily
// digest with a language model. Claude, OpenAI and Gemini are supported,
// plus a NoOp implementation that needs no API key.
//
// Every model call runs under a per-provider circuit breaker and a bounded
// retry with backoff for transient failures (5xx, 429, timeouts). Failures to
// reach the model wrap entity.ErrSummarizerUnavailable; replies that are not
// a valid digest wrap entity.ErrMalformedDigest.
package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"hynews/internal/domain/entity"
	"hynews/internal/resilience/circuitbreaker"
	"hynews/internal/resilience/retry"
	"hynews/internal/utils/text"

	"github.com/google/uuid"
)

// completeFunc sends one prompt to a model and returns its text reply.
type completeFunc func(ctx context.Context, prompt string) (string, error)

// pipeline is the call path shared by the model-backed summarizers.
type pipeline struct {
	provider        string
	circuitBreaker  *circuitbreaker.CircuitBreaker
	retryConfig     retry.Config
	timeout         time.Duration
	metricsRecorder SummaryMetricsRecorder
}

func newPipeline(provider string, cb circuitbreaker.Config, timeout time.Duration) pipeline {
	return pipeline{
		provider:        provider,
		circuitBreaker:  circuitbreaker.New(cb),
		retryConfig:     retry.SummarizerConfig(),
		timeout:         timeout,
		metricsRecorder: NewPrometheusSummaryMetrics(),
	}
}

func (p *pipeline) summarize(ctx context.Context, articles []entity.Article, complete completeFunc) (*entity.DigestContent, error) {
	if len(articles) == 0 {
		p.metricsRecorder.RecordResult(p.provider, ResultEmpty)
		return EmptyDigest(), nil
	}
	if len(articles) > MaxItems {
		articles = articles[:MaxItems]
	}

	requestID := uuid.New().String()
	prompt := BuildPrompt(articles)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	slog.InfoContext(ctx, "starting digest summarization",
		slog.String("provider", p.provider),
		slog.String("summarizer_request_id", requestID),
		slog.Int("items", len(articles)),
		slog.Int("prompt_length", text.CountRunes(prompt)))

	start := time.Now()
	var reply string
	err := retry.WithBackoff(ctx, p.retryConfig, func() error {
		result, err := p.circuitBreaker.Execute(func() (interface{}, error) {
			return complete(ctx, prompt)
		})
		if err != nil {
			if circuitbreaker.IsRejection(err) {
				slog.WarnContext(ctx, "summarizer circuit breaker open, request rejected",
					slog.String("provider", p.provider),
					slog.String("state", p.circuitBreaker.State().String()))
			}
			return err
		}
		reply = result.(string)
		return nil
	})
	duration := time.Since(start)
	p.metricsRecorder.RecordDuration(p.provider, duration)

	if err != nil {
		p.metricsRecorder.RecordResult(p.provider, ResultUnavailable)
		slog.ErrorContext(ctx, "digest summarization failed",
			slog.String("provider", p.provider),
			slog.String("summarizer_request_id", requestID),
			slog.Duration("duration", duration),
			slog.Any("error", err))
		return nil, fmt.Errorf("%w: %s: %w", entity.ErrSummarizerUnavailable, p.provider, err)
	}

	content, err := ParseDigest(reply)
	if err != nil {
		p.metricsRecorder.RecordResult(p.provider, ResultMalformed)
		slog.WarnContext(ctx, "model reply is not a valid digest",
			slog.String("provider", p.provider),
			slog.String("summarizer_request_id", requestID),
			slog.String("reply_preview", text.Truncate(reply, 200, "...")),
			slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", p.provider, err)
	}

	p.metricsRecorder.RecordResult(p.provider, ResultSuccess)
	p.metricsRecorder.RecordItems(p.provider, len(articles))
	slog.InfoContext(ctx, "digest summarization completed",
		slog.String("provider", p.provider),
		slog.String("summarizer_request_id", requestID),
		slog.Int("categories", len(content.Categories)),
		slog.Duration("duration", duration))

	return content, nil
}
