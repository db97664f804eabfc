package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticle_Validate(t *testing.T) {
	tests := []struct {
		name    string
		article Article
		wantErr bool
	}{
		{
			name:    "title and url present",
			article: Article{Title: "Budget passed", URL: "https://example.com/a"},
		},
		{
			name:    "missing title",
			article: Article{URL: "https://example.com/a"},
			wantErr: true,
		},
		{
			name:    "missing url",
			article: Article{Title: "Budget passed"},
			wantErr: true,
		},
		{
			name:    "zero value",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.article.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMissingRequiredField))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestArticle_SummaryText(t *testing.T) {
	var a Article
	assert.Equal(t, "", a.SummaryText())

	s := "short summary"
	a.Summary = &s
	assert.Equal(t, "short summary", a.SummaryText())
}

func TestArticle_PublishedISO(t *testing.T) {
	var a Article
	assert.Nil(t, a.PublishedISO())

	dhaka := time.FixedZone("BST", 6*60*60)
	ts := time.Date(2024, 3, 10, 14, 30, 0, 0, dhaka)
	a.PublishedAt = &ts

	got := a.PublishedISO()
	require.NotNil(t, got)
	assert.Equal(t, "2024-03-10T08:30:00Z", *got)
}
