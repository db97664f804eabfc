// Package pathutil maps request paths to route templates for metric labels.
package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern pairs a path regex with its label template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// pathPatterns cover the routes whose path carries a source name. Source
// names come from the client, so they must never become label values.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/summary/[^/]+$`), Template: "/summary/:source"},
	{Pattern: regexp.MustCompile(`^/sources/[^/]+/latest$`), Template: "/sources/:source/latest"},
	{Pattern: regexp.MustCompile(`^/[^/]+/latest$`), Template: "/:alias/latest"},
}

// staticPaths are label values that pass through unchanged.
var staticPaths = map[string]bool{
	"/":               true,
	"/sources":        true,
	"/health":         true,
	"/health/breakers": true,
	"/live":           true,
	"/ready":          true,
	"/metrics":        true,
}

// knownAliases keep their own label, since they are a fixed set.
var knownAliases = map[string]bool{
	"/dailystar/latest":  true,
	"/prothomalo/latest": true,
	"/ittefaq/latest":    true,
}

// NormalizePath returns a bounded label for path. Query strings and a
// trailing slash are ignored; anything unrecognized becomes "other".
//
// Examples:
//
//	NormalizePath("/summary/daily-star")        // "/summary/:source"
//	NormalizePath("/sources/bdnews24/latest")   // "/sources/:source/latest"
//	NormalizePath("/dailystar/latest?limit=5")  // "/dailystar/latest"
//	NormalizePath("/wp-admin/install.php")      // "other"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	if staticPaths[path] || knownAliases[path] {
		return path
	}
	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	return "other"
}

// GetExpectedCardinality returns the number of distinct labels NormalizePath
// can produce.
func GetExpectedCardinality() int {
	return len(staticPaths) + len(knownAliases) + len(pathPatterns) + 1
}
