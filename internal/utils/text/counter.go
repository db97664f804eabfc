// Package text provides rune-aware string helpers. Bangla text is multi-byte
// in UTF-8, so lengths and cut points are always measured in runes.
package text

import "unicode/utf8"

// CountRunes counts the Unicode characters (runes) in text.
//
//	CountRunes("hello")  // 5
//	CountRunes("খবর")    // 3
//	CountRunes("")       // 0
func CountRunes(text string) int {
	return utf8.RuneCountInString(text)
}

// Truncate returns the first max runes of text followed by ellipsis when
// text is longer than max runes, and text unchanged otherwise. It never
// splits a multi-byte character.
func Truncate(text string, max int, ellipsis string) string {
	if max < 0 {
		max = 0
	}
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	i, n := 0, 0
	for i = range text {
		if n == max {
			break
		}
		n++
	}
	return text[:i] + ellipsis
}
