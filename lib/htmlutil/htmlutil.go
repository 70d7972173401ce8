package htmlutil

import (
	"regexp"
	"strings"
)

var innerWhitespace = regexp.MustCompile(`\s+`)

// CollapseSpace trims a string and collapses every run of whitespace
// (including newlines from table cell formatting) into a single space.
func CollapseSpace(s string) string {
	return strings.TrimSpace(innerWhitespace.ReplaceAllString(s, " "))
}
