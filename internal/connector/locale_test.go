package connector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveLocalized(t *testing.T) {
	tests := []struct {
		name     string
		m        map[string]string
		priority []string
		expected string
	}{
		{
			name:     "priority hit",
			m:        map[string]string{"en": "Alpha", "ja": "アルファ"},
			priority: []string{"en"},
			expected: "Alpha",
		},
		{
			name:     "empty priority value falls through",
			m:        map[string]string{"romaji": "A", "english": "", "native": "C"},
			priority: []string{"english", "romaji"},
			expected: "A",
		},
		{
			name:     "fallback to any value",
			m:        map[string]string{"ja": "アルファ"},
			priority: []string{"en"},
			expected: "アルファ",
		},
		{
			name:     "whitespace-only is empty",
			m:        map[string]string{"en": "   "},
			priority: []string{"en"},
			expected: "",
		},
		{
			name:     "nil map",
			m:        nil,
			priority: []string{"en"},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, resolveLocalized(tt.m, tt.priority...))
		})
	}
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "a", firstNonEmpty("", "a", "b"))
	assert.Equal(t, "b", firstNonEmpty("  ", "b"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"nested tags", "<p>Hello <b>World</b></p>", "Hello World"},
		{"plain text untouched", "Hello World", "Hello World"},
		{"self-closing break", "line one<br/>line two", "line oneline two"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripHTML(tt.input))
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *float64
	}{
		{"integer", "12", ptr(12.0)},
		{"decimal", "12.5", ptr(12.5)},
		{"non-numeric label", "Extra", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseNumber(tt.input)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			if assert.NotNil(t, got) {
				assert.Equal(t, *tt.expected, *got)
			}
		})
	}
}

func TestAppendIfMissing(t *testing.T) {
	s := []string{"Action"}
	s = appendIfMissing(s, "Action")
	s = appendIfMissing(s, "Drama")
	assert.Equal(t, []string{"Action", "Drama"}, s)
}

func ptr(f float64) *float64 { return &f }
