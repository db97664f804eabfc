package scraper_test

import (
	"os"
	"path/filepath"
	"testing"

	"hynews/internal/domain/entity"
	"hynews/internal/infra/scraper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapterFactory_CreateAll_Builtins(t *testing.T) {
	factory := scraper.NewAdapterFactory(testOptions(&stubPages{}))

	adapters, err := factory.CreateAll(entity.BuiltinSources())
	require.NoError(t, err)
	require.Len(t, adapters, 3)

	assert.IsType(t, &scraper.DailyStarAdapter{}, adapters[0])
	assert.IsType(t, &scraper.ProthomAloAdapter{}, adapters[1])
	assert.IsType(t, &scraper.IttefaqAdapter{}, adapters[2])
	assert.Equal(t, entity.SourceIttefaq, adapters[2].Source().ID)
}

func TestAdapterFactory_Create_Extensions(t *testing.T) {
	factory := scraper.NewAdapterFactory(testOptions(&stubPages{}))

	a, err := factory.Create(selectorSource("https://example.com/latest"))
	require.NoError(t, err)
	assert.IsType(t, &scraper.SelectorAdapter{}, a)

	a, err = factory.Create(feedSource("https://example.com/rss"))
	require.NoError(t, err)
	assert.IsType(t, &scraper.FeedAdapter{}, a)

	_, err = factory.Create(entity.SourceDescriptor{ID: "custom", Strategy: entity.StrategyAPI, Endpoint: "https://example.com"})
	assert.Error(t, err)
}

func TestAdapterFactory_CreateAll_Duplicate(t *testing.T) {
	factory := scraper.NewAdapterFactory(testOptions(&stubPages{}))
	descs := []entity.SourceDescriptor{feedSource("https://a.example/rss"), feedSource("https://b.example/rss")}

	_, err := factory.CreateAll(descs)
	assert.ErrorContains(t, err, "duplicate source id")
}

func TestLoadSourcesFile(t *testing.T) {
	content := `
sources:
  - id: bss
    display_name: BSS
    strategy: feed
    endpoint: https://www.bssnews.net/rss
  - id: dhaka-tribune
    strategy: scrape
    endpoint: https://www.dhakatribune.com/latest
    listing_shape: envelope
    scraper:
      item_selector: .news-item
      title_selector: h2
      body_selector: .article-body
      strip: [".ad"]
`
	path := filepath.Join(t.TempDir(), "sources.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	descs, err := scraper.LoadSourcesFile(path)
	require.NoError(t, err)
	require.Len(t, descs, 2)

	assert.Equal(t, entity.SourceID("bss"), descs[0].ID)
	assert.Equal(t, entity.ShapeArray, descs[0].ListingShape)
	assert.Equal(t, "dhaka-tribune", descs[1].DisplayName)
	assert.Equal(t, entity.ShapeEnvelope, descs[1].ListingShape)
	require.NotNil(t, descs[1].ScraperConfig)
	assert.Equal(t, ".article-body", descs[1].ScraperConfig.BodySelector)
	assert.Equal(t, []string{".ad"}, descs[1].ScraperConfig.Strip)
}

func TestParseSources_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "builtin redefined", content: "sources:\n  - id: ittefaq\n    strategy: feed\n    endpoint: https://x.example\n"},
		{name: "api strategy", content: "sources:\n  - id: x\n    strategy: api\n    endpoint: https://x.example\n"},
		{name: "scrape without selectors", content: "sources:\n  - id: x\n    strategy: scrape\n    endpoint: https://x.example\n"},
		{name: "missing endpoint", content: "sources:\n  - id: x\n    strategy: feed\n"},
		{name: "bad yaml", content: "sources: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scraper.ParseSources([]byte(tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadSourcesFile_Missing(t *testing.T) {
	_, err := scraper.LoadSourcesFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
