package fetcher_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hynews/internal/domain/entity"
	"hynews/internal/infra/fetcher"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Article</title></head>
<body>
	<h1 class="article-title">Metro rail extends hours</h1>
	<div class="color-iron">Sun Mar 10, 2024 02:30 PM</div>
	<div class="clearfix">
		<p>First paragraph about the metro.</p>
		<p>   </p>
		<script>var tracking = 1;</script>
		<div class="advertisement"><p>Buy now</p></div>
		<p>Second paragraph with <b>details</b>.</p>
		<div class="clearfix"><p>Nested paragraph.</p></div>
		<aside><p>Related: older news</p></aside>
	</div>
	<div class="footer"><p>Copyright</p></div>
</body>
</html>`

func newTestExtractor() *fetcher.Extractor {
	cfg := fetcher.DefaultConfig()
	cfg.DenyPrivateIPs = false // httptest listens on loopback
	cfg.Timeout = 2 * time.Second
	return fetcher.NewExtractor(cfg)
}

func serveHTML(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, fetcher.DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestExtractBody_ContainerParagraphs(t *testing.T) {
	srv := serveHTML(t, articleHTML)
	e := newTestExtractor()

	body, err := e.ExtractBody(context.Background(), srv.URL, fetcher.BodySpec{Container: ".clearfix"})
	require.NoError(t, err)

	assert.Equal(t,
		"First paragraph about the metro.\n\nSecond paragraph with details.\n\nNested paragraph.",
		body)
}

func TestExtractBody_CustomStrip(t *testing.T) {
	srv := serveHTML(t, articleHTML)
	e := newTestExtractor()

	body, err := e.ExtractBody(context.Background(), srv.URL, fetcher.BodySpec{
		Container: ".clearfix",
		Strip:     []string{".clearfix .clearfix"},
	})
	require.NoError(t, err)
	assert.NotContains(t, body, "Nested paragraph.")
}

func TestExtractBody_ContainerMissing(t *testing.T) {
	srv := serveHTML(t, articleHTML)
	e := newTestExtractor()

	body, err := e.ExtractBody(context.Background(), srv.URL, fetcher.BodySpec{Container: "#container"})
	require.NoError(t, err)
	assert.Equal(t, "", body)
}

func TestExtractBody_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "gone", http.StatusNotFound)
			},
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		},
		{
			name: "too slow",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-time.After(2 * time.Second):
				case <-r.Context().Done():
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			cfg := fetcher.DefaultConfig()
			cfg.DenyPrivateIPs = false
			cfg.Timeout = 200 * time.Millisecond
			e := fetcher.NewExtractor(cfg)

			body, err := e.ExtractBody(context.Background(), srv.URL, fetcher.BodySpec{Container: "article"})
			require.Error(t, err)
			assert.Equal(t, "", body)
			assert.True(t, errors.Is(err, entity.ErrUpstreamUnavailable), "got %v", err)
		})
	}
}

func TestExtractBody_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	cfg := fetcher.DefaultConfig()
	cfg.DenyPrivateIPs = false
	cfg.Timeout = 100 * time.Millisecond
	e := fetcher.NewExtractor(cfg)

	_, err := e.ExtractBody(context.Background(), srv.URL, fetcher.BodySpec{Container: "article"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, fetcher.ErrTimeout))
	assert.True(t, errors.Is(err, entity.ErrUpstreamUnavailable))
}

func TestExtractBody_InvalidURL(t *testing.T) {
	e := newTestExtractor()

	for _, u := range []string{"not-a-url", "ftp://example.com/a", "file:///etc/passwd", "http://"} {
		t.Run(u, func(t *testing.T) {
			_, err := e.ExtractBody(context.Background(), u, fetcher.BodySpec{Container: "p"})
			require.Error(t, err)
			assert.True(t, errors.Is(err, fetcher.ErrInvalidURL))
			assert.True(t, errors.Is(err, entity.ErrUpstreamUnavailable))
		})
	}
}

func TestExtractBody_PrivateIPDenied(t *testing.T) {
	srv := serveHTML(t, articleHTML)

	cfg := fetcher.DefaultConfig()
	e := fetcher.NewExtractor(cfg)

	_, err := e.ExtractBody(context.Background(), srv.URL, fetcher.BodySpec{Container: ".clearfix"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, fetcher.ErrPrivateIP))
}

func TestExtractBody_BodyTooLarge(t *testing.T) {
	srv := serveHTML(t, "<html><body><p>"+strings.Repeat("a", 4096)+"</p></body></html>")

	cfg := fetcher.DefaultConfig()
	cfg.DenyPrivateIPs = false
	cfg.MaxBodySize = 1024
	e := fetcher.NewExtractor(cfg)

	_, err := e.ExtractBody(context.Background(), srv.URL, fetcher.BodySpec{Container: "body"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, fetcher.ErrBodyTooLarge))
}

func TestExtractBody_TooManyRedirects(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, srv.URL+r.URL.Path+"x", http.StatusFound)
	}))
	defer srv.Close()

	cfg := fetcher.DefaultConfig()
	cfg.DenyPrivateIPs = false
	cfg.MaxRedirects = 2
	e := fetcher.NewExtractor(cfg)

	_, err := e.ExtractBody(context.Background(), srv.URL+"/a", fetcher.BodySpec{Container: "body"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, fetcher.ErrTooManyRedirects))
}

func TestExtractBody_Readability(t *testing.T) {
	srv := serveHTML(t, `<!DOCTYPE html><html><head><title>Feed story</title></head><body>
		<nav><a href="/">Home</a></nav>
		<article>
			<h1>Feed story</h1>
			<p>The first long paragraph of the story explains what happened in Chattogram port on Monday morning, when a crane
			failure stopped container handling at two berths for most of the day and ships queued at the outer anchorage.</p>
			<p>The second long paragraph adds the reaction of shipping agents and the expected delays for importers, who said
			perishable goods were at risk and asked for overtime shifts to clear the backlog before the weekend.</p>
			<p>The third paragraph closes with the statement from the port authority chairman about next steps, including a
			replacement crane that is expected to arrive within a fortnight and a review of maintenance schedules.</p>
		</article>
	</body></html>`)
	e := newTestExtractor()

	body, err := e.ExtractBody(context.Background(), srv.URL, fetcher.BodySpec{})
	require.NoError(t, err)
	assert.Contains(t, body, "Chattogram port")
	assert.Contains(t, body, "port authority chairman")
}

func TestExtractBody_ReadabilityNoArticle(t *testing.T) {
	srv := serveHTML(t, `<!DOCTYPE html><html><head><title>Empty</title></head><body><nav></nav></body></html>`)
	e := newTestExtractor()

	body, err := e.ExtractBody(context.Background(), srv.URL, fetcher.BodySpec{})
	require.NoError(t, err)
	assert.Equal(t, "", body)
}

func TestExtractDetail(t *testing.T) {
	srv := serveHTML(t, articleHTML)
	e := newTestExtractor()

	d, err := e.ExtractDetail(context.Background(), srv.URL, fetcher.DetailSpec{
		Body:    fetcher.BodySpec{Container: ".clearfix", Strip: []string{".clearfix .clearfix"}},
		Heading: ".article-title",
		Date:    ".color-iron",
		Image: func(doc *goquery.Document) string {
			return "https://img.example/x.jpg"
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Metro rail extends hours", d.Heading)
	assert.Equal(t, "Sun Mar 10, 2024 02:30 PM", d.DateText)
	assert.Equal(t, "https://img.example/x.jpg", d.ImageURL)
	assert.Equal(t, "First paragraph about the metro.\n\nSecond paragraph with details.", d.Body)
}

func TestBodyFromDocument_DoesNotMutate(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(articleHTML))
	require.NoError(t, err)

	_ = fetcher.BodyFromDocument(doc, fetcher.BodySpec{Container: ".clearfix"})

	assert.Equal(t, 1, doc.Find(".clearfix script").Length())
	assert.Equal(t, 1, doc.Find(".clearfix aside").Length())
}

func TestBodyFromDocument_EmptyContainerSpec(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(articleHTML))
	require.NoError(t, err)

	assert.Equal(t, "", fetcher.BodyFromDocument(doc, fetcher.BodySpec{}))
}
