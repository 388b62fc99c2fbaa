// Package slug generates and validates URL slugs and link target keys.
package slug

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	slugPattern       = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	linkTargetPattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

	invalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespace   = regexp.MustCompile(`\s+`)
	hyphenRuns   = regexp.MustCompile(`-+`)
)

// IsValid reports whether s is a well-formed slug: lowercase alphanumeric
// groups separated by single hyphens, no leading or trailing hyphen.
func IsValid(s string) bool {
	return slugPattern.MatchString(s)
}

// IsValidLinkTarget reports whether s is a well-formed link target key.
func IsValidLinkTarget(s string) bool {
	return linkTargetPattern.MatchString(s)
}

// Generate converts free text into a slug, truncated to maxLength.
func Generate(text string, maxLength int) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = invalidChars.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if maxLength > 0 && len(s) > maxLength {
		s = strings.TrimRight(s[:maxLength], "-")
	}
	return s
}

// GenerateUnique produces a slug that does not collide with any of the
// existing slugs, appending -1, -2, ... as needed.
func GenerateUnique(text string, existing []string, maxLength int) string {
	base := Generate(text, maxLength)
	if base == "" {
		return ""
	}

	taken := make(map[string]bool, len(existing))
	for _, e := range existing {
		taken[strings.ToLower(e)] = true
	}

	s := base
	for counter := 1; taken[s]; counter++ {
		suffix := "-" + strconv.Itoa(counter)
		maxBase := maxLength - len(suffix)
		if maxBase > 0 && len(base) > maxBase {
			base = strings.TrimRight(base[:maxBase], "-")
		}
		s = base + suffix
	}
	return s
}
