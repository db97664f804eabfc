package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDigest_CategoriesNeverNull(t *testing.T) {
	d := NewDigest(DigestContent{
		StoryOfDay: StoryOfDay{Title: "Flood", Summary: "Rivers rise."},
	}, DigestMetadata{Source: "Ittefaq"})

	data, err := json.Marshal(d)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.JSONEq(t, `[]`, string(raw["categories"]))
}

func TestDigest_JSONFieldNames(t *testing.T) {
	d := NewDigest(DigestContent{
		StoryOfDay: StoryOfDay{Title: "T", Summary: "S"},
		Categories: []Category{{Name: "Politics"}},
	}, DigestMetadata{
		Source:               "The Daily Star",
		ArticlesAnalyzed:     15,
		TotalArticlesFetched: 20,
		GeneratedAt:          time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	})

	data, err := json.Marshal(d)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"story_of_day": {"title": "T", "summary": "S"},
		"categories": [{"category": "Politics", "items": []}],
		"metadata": {
			"source": "The Daily Star",
			"articles_analyzed": 15,
			"total_articles_fetched": 20,
			"generated_at": "2024-05-01T00:00:00Z"
		}
	}`, string(data))
}
