package metrics

import (
	"time"
)

// RecordArticlesFetched records the number of articles a source adapter returned.
func RecordArticlesFetched(source string, count int) {
	ArticlesFetchedTotal.WithLabelValues(source).Add(float64(count))
}

// RecordSourceFetchDuration records the time taken by one listing call.
func RecordSourceFetchDuration(source string, duration time.Duration) {
	SourceFetchDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordSourceFetchError records a failed listing call.
// errorType is a short class such as "upstream_unavailable" or "parse".
func RecordSourceFetchError(source, errorType string) {
	SourceFetchErrors.WithLabelValues(source, errorType).Inc()
}

// RecordRecordDropped records a raw record rejected by the normalizer.
func RecordRecordDropped(source, reason string) {
	RecordsDroppedTotal.WithLabelValues(source, reason).Inc()
}

// RecordContentFetchSuccess records a successful content fetch operation.
// This tracks both the duration and size of the extracted body.
//
// Example:
//
//	start := time.Now()
//	body, err := extractor.ExtractBody(ctx, url, spec)
//	if err == nil {
//	    RecordContentFetchSuccess(time.Since(start), len(body))
//	}
func RecordContentFetchSuccess(duration time.Duration, size int) {
	result := "success"
	if size == 0 {
		result = "empty"
	}
	ContentFetchAttemptsTotal.WithLabelValues(result).Inc()
	ContentFetchDuration.Observe(duration.Seconds())
	ContentFetchSize.Observe(float64(size))
}

// RecordContentFetchFailed records a failed content fetch operation.
func RecordContentFetchFailed(duration time.Duration) {
	ContentFetchAttemptsTotal.WithLabelValues("failure").Inc()
	ContentFetchDuration.Observe(duration.Seconds())
}

// RecordDigestCacheLookup records the outcome of a digest cache lookup.
func RecordDigestCacheLookup(source, result string) {
	DigestCacheLookups.WithLabelValues(source, result).Inc()
}

// RecordDigestCacheWriteError records a failed digest cache write.
func RecordDigestCacheWriteError(source string) {
	DigestCacheWriteErrors.WithLabelValues(source).Inc()
}

// RecordDigestBuild records the result and duration of a digest build.
func RecordDigestBuild(source string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	DigestBuildsTotal.WithLabelValues(source, status).Inc()
	DigestBuildDuration.WithLabelValues(source).Observe(duration.Seconds())
}
