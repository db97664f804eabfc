package scraper

import (
	"fmt"
	"os"

	"hynews/internal/domain/entity"

	"gopkg.in/yaml.v3"
)

// AdapterFactory creates source adapters with consistent options.
type AdapterFactory struct {
	opts Options
}

// NewAdapterFactory creates an AdapterFactory. opts.Pages must be set.
func NewAdapterFactory(opts Options) *AdapterFactory {
	return &AdapterFactory{opts: opts}
}

// Create builds the adapter for one descriptor. Builtin sources get their
// dedicated adapter; extension sources are served by strategy.
func (f *AdapterFactory) Create(desc entity.SourceDescriptor) (Adapter, error) {
	if err := desc.Validate(); err != nil {
		return nil, fmt.Errorf("source %q: %w", desc.ID, err)
	}

	switch desc.ID {
	case entity.SourceDailyStar:
		return NewDailyStarAdapter(desc, f.opts), nil
	case entity.SourceProthomAlo:
		return NewProthomAloAdapter(desc, f.opts), nil
	case entity.SourceIttefaq:
		return NewIttefaqAdapter(desc, f.opts), nil
	}

	switch desc.Strategy {
	case entity.StrategyScrape:
		return NewSelectorAdapter(desc, f.opts)
	case entity.StrategyFeed:
		return NewFeedAdapter(desc, f.opts), nil
	default:
		return nil, fmt.Errorf("source %q: strategy %s is only available to builtin sources", desc.ID, desc.Strategy)
	}
}

// CreateAll builds adapters for descs, keeping their order. Duplicate ids
// are rejected.
func (f *AdapterFactory) CreateAll(descs []entity.SourceDescriptor) ([]Adapter, error) {
	seen := make(map[entity.SourceID]struct{}, len(descs))
	adapters := make([]Adapter, 0, len(descs))
	for _, d := range descs {
		if _, dup := seen[d.ID]; dup {
			return nil, fmt.Errorf("duplicate source id %q", d.ID)
		}
		seen[d.ID] = struct{}{}

		a, err := f.Create(d)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, a)
	}
	return adapters, nil
}

type sourcesFile struct {
	Sources []entity.SourceDescriptor `yaml:"sources"`
}

// LoadSourcesFile reads extension source descriptors from a YAML file:
//
//	sources:
//	  - id: bss
//	    display_name: BSS
//	    strategy: feed
//	    endpoint: https://www.bssnews.net/rss
//
// Entries may not redefine builtin sources.
func LoadSourcesFile(path string) ([]entity.SourceDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}
	return ParseSources(data)
}

// ParseSources decodes and validates a sources document.
func ParseSources(data []byte) ([]entity.SourceDescriptor, error) {
	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse sources file: %w", err)
	}

	for i := range file.Sources {
		d := &file.Sources[i]
		if d.ID.IsBuiltin() {
			return nil, fmt.Errorf("sources[%d]: %q is a builtin source", i, d.ID)
		}
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("sources[%d]: %w", i, err)
		}
		if d.Strategy != entity.StrategyScrape && d.Strategy != entity.StrategyFeed {
			return nil, fmt.Errorf("sources[%d]: strategy must be scrape or feed, got %s", i, d.Strategy)
		}
	}
	return file.Sources, nil
}
