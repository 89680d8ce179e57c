package utils

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Why Local SEO Works":          "why-local-seo-works",
		"  Events & Trade Shows  ":     "events-and-trade-shows",
		"Brand's Q4/2025 Results!":     "brands-q4-2025-results",
		"---":                          "",
		"Déjà vu":                      "d-j-vu",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestSlugPattern(t *testing.T) {
	assert.True(t, SlugPattern.MatchString("trade-show-staffing"))
	assert.False(t, SlugPattern.MatchString("Trade-Show"))
	assert.False(t, SlugPattern.MatchString("double--dash"))
	assert.False(t, SlugPattern.MatchString("-leading"))
}

func TestNormalizeSlug(t *testing.T) {
	assert.Equal(t, "custom", NormalizeSlug(" custom ", "Title"))
	assert.Equal(t, "the-title", NormalizeSlug("", "The Title"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	out := Truncate("The quick brown fox jumps over the lazy dog", 20)
	assert.Equal(t, "The quick brown fox…", out)
	assert.LessOrEqual(t, utf8.RuneCountInString(out), 20)
}

func TestCleanList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, CleanList([]string{" a ", "", "  ", "b"}))
}
