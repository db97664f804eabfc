package entity

import (
	"errors"
	"fmt"
	"strings"
)

// SourceID identifies a news source. Builtin sources use stable kebab-case ids.
type SourceID string

// Builtin source identifiers.
const (
	SourceDailyStar  SourceID = "daily-star"
	SourceProthomAlo SourceID = "prothom-alo"
	SourceIttefaq    SourceID = "ittefaq"
)

// FetchStrategy is the upstream protocol an adapter speaks.
type FetchStrategy string

const (
	StrategyAPI    FetchStrategy = "api"
	StrategyScrape FetchStrategy = "scrape"
	StrategyHybrid FetchStrategy = "hybrid"
	StrategyFeed   FetchStrategy = "feed"
)

// ListingShape is how a per-source listing route wraps its articles.
type ListingShape string

const (
	// ShapeEnvelope wraps articles in {status, count, limit, articles}.
	ShapeEnvelope ListingShape = "envelope"
	// ShapeArray returns the articles as a bare JSON array.
	ShapeArray ListingShape = "array"
)

// SourceDescriptor describes a registered source.
// Extension sources loaded from configuration also carry a ScraperConfig.
type SourceDescriptor struct {
	ID            SourceID       `json:"id" yaml:"id"`
	DisplayName   string         `json:"display_name" yaml:"display_name"`
	Strategy      FetchStrategy  `json:"strategy" yaml:"strategy"`
	Endpoint      string         `json:"endpoint" yaml:"endpoint"`
	ListingShape  ListingShape   `json:"listing_shape" yaml:"listing_shape"`
	PathAlias     string         `json:"path_alias,omitempty" yaml:"path_alias"`
	ScraperConfig *ScraperConfig `json:"-" yaml:"scraper"`
}

// ScraperConfig holds CSS selectors for configured scrape sources.
// Feed sources only use BodySelector and Strip.
type ScraperConfig struct {
	ItemSelector    string `yaml:"item_selector"`
	TitleSelector   string `yaml:"title_selector"`
	URLSelector     string `yaml:"url_selector"`
	DateSelector    string `yaml:"date_selector"`
	DateFormat      string `yaml:"date_format"`
	SummarySelector string `yaml:"summary_selector"`
	ImageSelector   string `yaml:"image_selector"`
	SectionSelector string `yaml:"section_selector"`

	// BodySelector is the detail-page content container; empty means Readability.
	BodySelector string   `yaml:"body_selector"`
	Strip        []string `yaml:"strip"`

	// Prepend to relative URLs
	URLPrefix string `yaml:"url_prefix"`
}

var builtinSources = []SourceDescriptor{
	{
		ID:           SourceDailyStar,
		DisplayName:  "The Daily Star",
		Strategy:     StrategyScrape,
		Endpoint:     "https://www.thedailystar.net/todays-news",
		ListingShape: ShapeEnvelope,
		PathAlias:    "dailystar",
	},
	{
		ID:           SourceProthomAlo,
		DisplayName:  "Prothom Alo",
		Strategy:     StrategyAPI,
		Endpoint:     "https://www.prothomalo.com/api/v1/collections/latest-all",
		ListingShape: ShapeArray,
		PathAlias:    "prothomalo",
	},
	{
		ID:           SourceIttefaq,
		DisplayName:  "Ittefaq",
		Strategy:     StrategyHybrid,
		Endpoint:     "https://www.ittefaq.com.bd/api/theme_engine/get_ajax_contents",
		ListingShape: ShapeArray,
		PathAlias:    "ittefaq",
	},
}

// BuiltinSources returns a copy of the builtin source descriptors in registry order.
func BuiltinSources() []SourceDescriptor {
	out := make([]SourceDescriptor, len(builtinSources))
	copy(out, builtinSources)
	return out
}

// IsBuiltin reports whether id names one of the builtin sources.
func (id SourceID) IsBuiltin() bool {
	for _, d := range builtinSources {
		if d.ID == id {
			return true
		}
	}
	return false
}

// ParseSourceID resolves a builtin source id or its path alias, case-insensitively.
// Unknown names return ErrUnknownSource.
func ParseSourceID(s string) (SourceID, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, d := range builtinSources {
		if string(d.ID) == name || d.PathAlias == name {
			return d.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSource, s)
}

// Validate validates the descriptor fields.
// Extension sources must use the scrape or feed strategy and scrape sources need selectors.
func (d *SourceDescriptor) Validate() error {
	if d.ID == "" {
		return &ValidationError{Field: "id", Message: "id is required"}
	}
	if strings.ContainsAny(string(d.ID), " /:") {
		return &ValidationError{Field: "id", Message: "id must not contain spaces, slashes or colons"}
	}
	if d.DisplayName == "" {
		d.DisplayName = string(d.ID)
	}
	if d.ListingShape == "" {
		d.ListingShape = ShapeArray
	}

	switch d.Strategy {
	case StrategyAPI, StrategyScrape, StrategyHybrid, StrategyFeed:
	default:
		return fmt.Errorf("invalid strategy: %q (must be api, scrape, hybrid, or feed)", d.Strategy)
	}

	if d.Endpoint == "" {
		return &ValidationError{Field: "endpoint", Message: "endpoint is required"}
	}

	if d.Strategy == StrategyScrape && !d.ID.IsBuiltin() {
		if d.ScraperConfig == nil {
			return errors.New("scraper config is required for scrape sources")
		}
		if d.ScraperConfig.ItemSelector == "" || d.ScraperConfig.TitleSelector == "" {
			return errors.New("scraper config requires item_selector and title_selector")
		}
	}

	return nil
}
