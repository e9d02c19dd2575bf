// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug generates ASCII URL slugs from titles and names.
//
// # Usage
//
// Slugs are human-readable identifiers for catalogue records (e.g. "summer-trip").
// Uniqueness is not handled here; each collection enforces it with a unique index.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// disallowed matches every character outside lowercase ASCII letters,
	// digits, whitespace and hyphens.
	disallowed = regexp.MustCompile(`[^a-z0-9\s-]`)
	// whitespace matches runs of whitespace.
	whitespace = regexp.MustCompile(`\s+`)
	// multiHyphen collapses multiple consecutive hyphens into one.
	multiHyphen = regexp.MustCompile(`-{2,}`)
)

// From converts an arbitrary string into a URL-safe ASCII slug.
//
// # Transformation Pipeline
//
// 1. Folds accents (NFD, then combining marks removed: "é" becomes "e").
// 2. Converts to lowercase.
// 3. Strips every character other than [a-z0-9], whitespace and hyphens.
// 4. Replaces whitespace runs with a single hyphen.
// 5. Collapses hyphen runs and trims leading/trailing hyphens.
//
// From is idempotent: From(From(s)) == From(s).
func From(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}

	result = strings.ToLower(result)
	result = disallowed.ReplaceAllString(result, "")
	result = strings.TrimSpace(result)
	result = whitespace.ReplaceAllString(result, "-")
	result = multiHyphen.ReplaceAllString(result, "-")

	return strings.Trim(result, "-")
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
