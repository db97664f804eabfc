package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Dhaka observes UTC+6 all year.
var defaultLocation = time.FixedZone("Asia/Dhaka", 6*60*60)

var publishedPrefixes = []string{
	"last update on:",
	"updated:",
	"published:",
	"publish:",
}

// ParsePublished converts an upstream timestamp into a time. Accepted forms are
// epoch seconds or milliseconds, RFC 3339, and any free-text layout dateparse
// recognizes. Text without a zone is read in loc. Unparseable input yields nil.
func ParsePublished(raw string, loc *time.Location) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if loc == nil {
		loc = defaultLocation
	}

	if isDigits(s) {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil
		}
		var t time.Time
		if len(s) >= 13 {
			t = time.UnixMilli(n).UTC()
		} else {
			t = time.Unix(n, 0).UTC()
		}
		return &t
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}

	lower := strings.ToLower(s)
	for _, p := range publishedPrefixes {
		if strings.HasPrefix(lower, p) {
			s = strings.TrimSpace(s[len(p):])
			break
		}
	}

	t, err := dateparse.ParseIn(s, loc)
	if err != nil {
		return nil
	}
	return &t
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
