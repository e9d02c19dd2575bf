// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/idolbase/pkg/slug"
)

/*
TestFrom verifies the transformation pipeline on representative titles.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"punctuation stripped", "Summer Trip!!", "summer-trip"},
		{"whitespace collapsed", "  Hello   World  ", "hello-world"},
		{"hyphens collapsed", "a -- b", "a-b"},
		{"accents folded", "Café Début", "cafe-debut"},
		{"symbols between words removed", "Rock & Roll", "rock-roll"},
		{"digits kept", "Live 2024 Tour", "live-2024-tour"},
		{"leading hyphen trimmed", "-intro-", "intro"},
		{"already a slug", "summer-trip", "summer-trip"},
		{"only symbols", "!!!", ""},
		{"underscore removed", "behind_the_scenes", "behindthescenes"},
		{"tabs and newlines", "one\ttwo\nthree", "one-two-three"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}

/*
TestFrom_Idempotent verifies that re-slugging a slug is a no-op.
*/
func TestFrom_Idempotent(t *testing.T) {
	inputs := []string{"Summer Trip!!", "Café Début", "  x  y  ", "Ünïcödé Nàmé", "ALL CAPS - mixed"}

	for _, input := range inputs {
		once := slug.From(input)
		assert.Equal(t, once, slug.From(once), "input %q", input)
	}
}
