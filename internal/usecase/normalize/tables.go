package normalize

import (
	"fmt"

	"hynews/internal/domain/entity"
)

// Canonical field names an upstream key may translate to.
const (
	FieldTitle     = "title"
	FieldURL       = "url"
	FieldImageURL  = "image_url"
	FieldPublished = "published"
	FieldBody      = "body"
	FieldSection   = "section"
	FieldSummary   = "summary"
	FieldHeading   = "heading"
)

var canonicalFields = map[string]bool{
	FieldTitle:     true,
	FieldURL:       true,
	FieldImageURL:  true,
	FieldPublished: true,
	FieldBody:      true,
	FieldSection:   true,
	FieldSummary:   true,
	FieldHeading:   true,
}

// Table maps upstream keys to canonical field names.
type Table map[string]string

// Translation tables for the builtin sources. Keys are the names each
// upstream (or its historical response shape) uses.
var builtinTables = map[entity.SourceID]Table{
	entity.SourceDailyStar: {
		"title":               FieldTitle,
		"url":                 FieldURL,
		"heading":             FieldHeading,
		"date_time":           FieldPublished,
		"image":               FieldImageURL,
		"news_body_text_full": FieldBody,
	},
	entity.SourceProthomAlo: {
		"news_header":         FieldTitle,
		"article_url":         FieldURL,
		"image_url":           FieldImageURL,
		"publish_time":        FieldPublished,
		"section":             FieldSection,
		"summary":             FieldSummary,
		"news_body_text_full": FieldBody,
	},
	entity.SourceIttefaq: {
		"title":               FieldTitle,
		"link":                FieldURL,
		"image":               FieldImageURL,
		"summary":             FieldSummary,
		"category":            FieldSection,
		"time":                FieldPublished,
		"news_body_text_full": FieldBody,
	},
}

// IdentityTable is used by configured extension sources whose adapters emit
// canonical keys directly.
var IdentityTable = Table{
	FieldTitle:     FieldTitle,
	FieldURL:       FieldURL,
	FieldImageURL:  FieldImageURL,
	FieldPublished: FieldPublished,
	FieldBody:      FieldBody,
	FieldSection:   FieldSection,
	FieldSummary:   FieldSummary,
	FieldHeading:   FieldHeading,
}

func init() {
	for id, t := range builtinTables {
		if err := t.Validate(); err != nil {
			panic(fmt.Sprintf("normalize: invalid table for %s: %v", id, err))
		}
	}
	if err := IdentityTable.Validate(); err != nil {
		panic(fmt.Sprintf("normalize: invalid identity table: %v", err))
	}
}

// Validate checks that every target is a canonical field, that no canonical
// field is targeted twice, and that title and url are reachable.
func (t Table) Validate() error {
	seen := make(map[string]string, len(t))
	for key, field := range t {
		if key == "" {
			return fmt.Errorf("empty upstream key")
		}
		if !canonicalFields[field] {
			return fmt.Errorf("key %q maps to unknown field %q", key, field)
		}
		if prev, ok := seen[field]; ok {
			return fmt.Errorf("field %q targeted by both %q and %q", field, prev, key)
		}
		seen[field] = key
	}
	for _, required := range []string{FieldTitle, FieldURL} {
		if _, ok := seen[required]; !ok {
			return fmt.Errorf("no upstream key maps to %q", required)
		}
	}
	return nil
}

// KeyFor returns the upstream key that translates to field, or "" if none.
func (t Table) KeyFor(field string) string {
	for key, f := range t {
		if f == field {
			return key
		}
	}
	return ""
}

// TableFor returns the translation table for a source. Sources without a
// builtin table use IdentityTable.
func TableFor(source entity.SourceID) Table {
	if t, ok := builtinTables[source]; ok {
		return t
	}
	return IdentityTable
}
