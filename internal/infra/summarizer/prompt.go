package summarizer

import (
	"encoding/json"
	"fmt"
	"strings"

	"hynews/internal/domain/entity"
	"hynews/internal/utils/text"
)

const (
	// MaxItems is how many articles one digest prompt carries.
	MaxItems = 15

	// bodyPreviewRunes caps each article's content in the prompt.
	bodyPreviewRunes = 500
)

const promptTemplate = `You are a professional news editor creating a Daily Executive Briefing for busy readers.

TASK:
Based ONLY on the news items provided below, generate a structured daily news summary.

INSTRUCTIONS:
1. Group related stories into logical categories (e.g., Politics, Sports, International, Economy, Technology, etc.)
2. For each category, provide a bulleted list of 1-sentence takeaways
3. Select ONE "Story of the Day" - the most significant or impactful story from all items
4. Keep language professional and concise
5. Do not invent or add information not present in the provided news items

OUTPUT FORMAT:
Return ONLY a valid JSON object with this exact structure:
{
  "story_of_day": {
    "title": "Title of most significant story",
    "summary": "2-3 sentence summary explaining why this story matters"
  },
  "categories": [
    {
      "category": "Category Name",
      "items": [
        "One-sentence takeaway 1",
        "One-sentence takeaway 2"
      ]
    }
  ]
}

NEWS ITEMS TO SUMMARIZE:
%s
Remember: Return ONLY the JSON object, no additional text or markdown formatting.`

// BuildPrompt renders the digest prompt for at most MaxItems articles.
// Each item carries its title and a preview of its body, falling back to the
// listing summary when the body is empty.
func BuildPrompt(articles []entity.Article) string {
	if len(articles) > MaxItems {
		articles = articles[:MaxItems]
	}

	var b strings.Builder
	for i, a := range articles {
		title := a.Title
		if title == "" {
			title = a.Heading
		}
		if title == "" {
			title = "Untitled"
		}
		content := a.Body
		if content == "" {
			content = a.SummaryText()
		}
		fmt.Fprintf(&b, "Item %d:\nTitle: %s\nContent: %s\n\n",
			i+1, title, text.Truncate(content, bodyPreviewRunes, "..."))
	}
	return fmt.Sprintf(promptTemplate, b.String())
}

// EmptyDigest is returned without calling a model when there is nothing to
// summarize.
func EmptyDigest() *entity.DigestContent {
	return &entity.DigestContent{
		StoryOfDay: entity.StoryOfDay{
			Title:   "No News Available",
			Summary: "No news items were available for summarization.",
		},
		Categories: []entity.Category{},
	}
}

// ParseDigest decodes a model reply into digest content. Replies wrapped in a
// markdown code fence are accepted. Anything that is not a JSON object with
// a titled story of the day is entity.ErrMalformedDigest.
func ParseDigest(reply string) (*entity.DigestContent, error) {
	s := stripFence(reply)
	if s == "" {
		return nil, fmt.Errorf("%w: empty reply", entity.ErrMalformedDigest)
	}

	var content entity.DigestContent
	if err := json.Unmarshal([]byte(s), &content); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrMalformedDigest, err)
	}
	if strings.TrimSpace(content.StoryOfDay.Title) == "" {
		return nil, fmt.Errorf("%w: story_of_day.title is missing", entity.ErrMalformedDigest)
	}

	cats := make([]entity.Category, 0, len(content.Categories))
	for _, c := range content.Categories {
		if strings.TrimSpace(c.Name) == "" {
			continue
		}
		if c.Items == nil {
			c.Items = []string{}
		}
		cats = append(cats, c)
	}
	content.Categories = cats
	return &content, nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
