// Package resilience provides fault tolerance patterns for upstream calls.
//
// The package supports:
//   - Circuit breakers around each news source adapter, the article page
//     fetcher, the summarization providers and remote cache stores
//   - Retry logic with exponential backoff and jitter for summarization calls
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.SourceAdapterConfig("ittefaq"))
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return fetchListing(ctx)
//	})
//
//	err := retry.WithBackoff(ctx, retry.SummarizerConfig(), func() error {
//	    return callProvider(ctx)
//	})
package resilience
