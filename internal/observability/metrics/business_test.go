package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordArticlesFetched(t *testing.T) {
	before := testutil.ToFloat64(ArticlesFetchedTotal.WithLabelValues("test-fetched"))

	RecordArticlesFetched("test-fetched", 5)
	RecordArticlesFetched("test-fetched", 0)

	after := testutil.ToFloat64(ArticlesFetchedTotal.WithLabelValues("test-fetched"))
	assert.Equal(t, 5.0, after-before)
}

func TestRecordSourceFetchError(t *testing.T) {
	c := SourceFetchErrors.WithLabelValues("test-errors", "parse")
	before := testutil.ToFloat64(c)

	RecordSourceFetchError("test-errors", "parse")

	assert.Equal(t, 1.0, testutil.ToFloat64(c)-before)
}

func TestRecordRecordDropped(t *testing.T) {
	c := RecordsDroppedTotal.WithLabelValues("test-dropped", "missing_required_field")
	before := testutil.ToFloat64(c)

	RecordRecordDropped("test-dropped", "missing_required_field")
	RecordRecordDropped("test-dropped", "missing_required_field")

	assert.Equal(t, 2.0, testutil.ToFloat64(c)-before)
}

func TestRecordContentFetch(t *testing.T) {
	success := ContentFetchAttemptsTotal.WithLabelValues("success")
	empty := ContentFetchAttemptsTotal.WithLabelValues("empty")
	failure := ContentFetchAttemptsTotal.WithLabelValues("failure")

	s0, e0, f0 := testutil.ToFloat64(success), testutil.ToFloat64(empty), testutil.ToFloat64(failure)

	RecordContentFetchSuccess(120*time.Millisecond, 2048)
	RecordContentFetchSuccess(80*time.Millisecond, 0)
	RecordContentFetchFailed(3 * time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(success)-s0)
	assert.Equal(t, 1.0, testutil.ToFloat64(empty)-e0)
	assert.Equal(t, 1.0, testutil.ToFloat64(failure)-f0)
}

func TestRecordDigestCacheLookup(t *testing.T) {
	tests := []string{"hit", "miss", "stale", "bypass", "error"}

	for _, result := range tests {
		t.Run(result, func(t *testing.T) {
			c := DigestCacheLookups.WithLabelValues("test-lookup", result)
			before := testutil.ToFloat64(c)

			RecordDigestCacheLookup("test-lookup", result)

			assert.Equal(t, 1.0, testutil.ToFloat64(c)-before)
		})
	}
}

func TestRecordDigestBuild(t *testing.T) {
	ok := DigestBuildsTotal.WithLabelValues("test-build", "success")
	failed := DigestBuildsTotal.WithLabelValues("test-build", "failure")
	ok0, failed0 := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	RecordDigestBuild("test-build", true, 2*time.Second)
	RecordDigestBuild("test-build", false, 500*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(ok)-ok0)
	assert.Equal(t, 1.0, testutil.ToFloat64(failed)-failed0)
}

func TestRecordHTTPRequest(t *testing.T) {
	c := HTTPRequestsTotal.WithLabelValues("GET", "/summary/:source", "200")
	before := testutil.ToFloat64(c)

	assert.NotPanics(t, func() {
		RecordHTTPRequest("GET", "/summary/:source", "200", 15*time.Millisecond, 512)
		RecordHTTPRequest("GET", "/summary/:source", "200", 15*time.Millisecond, 0)
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(c)-before)
}

func TestRecordCacheStoreOperation(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordCacheStoreOperation("redis", "get", 2*time.Millisecond)
		RecordCacheStoreOperation("postgres", "set", 8*time.Millisecond)
	})
}
