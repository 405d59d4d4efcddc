package connector

import (
	"regexp"
	"strconv"
	"strings"
)

// resolveLocalized picks a display string out of a locale-keyed map:
// first non-empty value in priority order, then any remaining non-empty
// value, then "". Shared by the MangaDex and Kitsu adapters so the
// fallback rule stays in one place.
func resolveLocalized(m map[string]string, priority ...string) string {
	for _, k := range priority {
		if v := strings.TrimSpace(m[k]); v != "" {
			return v
		}
	}
	for _, v := range m {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// firstNonEmpty returns the first non-blank value in priority order.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

// stripHTML removes markup tags from lightly-formatted source text.
// "<p>Hello <b>World</b></p>" becomes "Hello World".
func stripHTML(s string) string {
	return strings.TrimSpace(htmlTagRe.ReplaceAllString(s, ""))
}

// appendIfMissing keeps tag and alt-title lists duplicate-free without
// losing the source's ordering.
func appendIfMissing(slice []string, v string) []string {
	for _, x := range slice {
		if x == v {
			return slice
		}
	}
	return append(slice, v)
}

// parseNumber parses a chapter-number label. Sources model chapter
// numbers as decimal-capable strings and also use non-numeric labels
// ("Extra", "Oneshot"); those come back nil, not zero.
func parseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &n
}
