package nutrition

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// whitespaceRE collapses consecutive whitespace to a single space.
var whitespaceRE = regexp.MustCompile(`\s+`)

// Summarize derives a short display label for a history entry from the raw
// product text: the first non-empty line, whitespace-collapsed, title-cased
// for Spanish and clipped to maxRunes. Returns "" when the product text has
// no usable line; the caller decides the fallback label.
func Summarize(productText string, maxRunes int) string {
	for _, line := range strings.Split(productText, "\n") {
		line = whitespaceRE.ReplaceAllString(strings.TrimSpace(line), " ")
		if line == "" {
			continue
		}
		line = cases.Title(language.Spanish).String(strings.ToLower(line))
		if maxRunes > 0 && utf8.RuneCountInString(line) > maxRunes {
			line = string([]rune(line)[:maxRunes])
		}
		return line
	}
	return ""
}
