package textutil

import (
	"regexp"
	"strings"
)

var leadingCodeRegex = regexp.MustCompile(`^[A-Z0-9-]+\s`)

// StripCourseCode removes the leading curriculum code token from a
// discipline name, e.g. "IME01-00508 Estruturas de Dados" becomes
// "Estruturas de Dados". Names without a code token pass through unchanged.
func StripCourseCode(name string) string {
	name = strings.TrimSpace(name)
	return strings.TrimSpace(leadingCodeRegex.ReplaceAllString(name, ""))
}
