package fetcher

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-shiori/go-readability"
)

// readabilityText extracts article text with the Mozilla Readability algorithm.
// It serves configured sources that give no content selector.
func readabilityText(page *Page) (string, error) {
	article, err := readability.FromReader(bytes.NewReader(page.Body), page.URL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadabilityFailed, err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", nil
	}

	// Readability keeps source line breaks; collapse runs into paragraph gaps.
	lines := strings.Split(text, "\n")
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		if l := strings.TrimSpace(line); l != "" {
			parts = append(parts, l)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}
