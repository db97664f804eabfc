package summarizer

import (
	"context"

	"hynews/internal/domain/entity"
	"hynews/internal/utils/text"
)

// NoOp builds a digest without a model: the first article is the story of
// the day and titles are grouped by section. It is meant for development
// and for running without an API key.
type NoOp struct{}

func NewNoOp() *NoOp {
	return &NoOp{}
}

func (n *NoOp) Summarize(_ context.Context, articles []entity.Article) (*entity.DigestContent, error) {
	if len(articles) == 0 {
		return EmptyDigest(), nil
	}
	if len(articles) > MaxItems {
		articles = articles[:MaxItems]
	}

	lead := articles[0]
	summary := lead.SummaryText()
	if summary == "" {
		summary = lead.Body
	}

	content := &entity.DigestContent{
		StoryOfDay: entity.StoryOfDay{
			Title:   lead.Title,
			Summary: text.Truncate(summary, 300, "..."),
		},
		Categories: []entity.Category{},
	}

	index := make(map[string]int)
	for _, a := range articles {
		section := a.Section
		if section == "" {
			section = "General"
		}
		i, ok := index[section]
		if !ok {
			i = len(content.Categories)
			index[section] = i
			content.Categories = append(content.Categories, entity.Category{Name: section, Items: []string{}})
		}
		content.Categories[i].Items = append(content.Categories[i].Items, a.Title)
	}
	return content, nil
}
