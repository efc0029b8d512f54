// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from post titles.
package slug

import (
	"regexp"
	"strings"
)

// maxLen caps generated slugs so they stay usable as URL path segments.
const maxLen = 100

var (
	// nonWord matches anything that isn't a word character or whitespace.
	nonWord = regexp.MustCompile(`[^\w\s]`)
	// whitespace matches runs of whitespace to be replaced by a single hyphen.
	whitespace = regexp.MustCompile(`\s+`)
)

// Generate creates a URL-friendly slug from the given title.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(title string) string {
	result := strings.ToLower(strings.TrimSpace(title))
	result = nonWord.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(result, "-")
	if len(result) > maxLen {
		result = result[:maxLen]
	}
	return strings.Trim(result, "-")
}
