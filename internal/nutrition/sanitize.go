// Package nutrition implements the deterministic text pipeline around the
// generated nutritional verdict: merging OCR fragments, rendering the
// instruction prompt, cleaning the generated response, and parsing the
// mandatory score line back out of it.
//
// Every function in this package is pure: no clocks, no randomness, no I/O.
// The same inputs always produce the same outputs, which is what makes the
// orchestrator safely retryable.
package nutrition

import (
	"regexp"
	"strings"
)

var (
	// markdownRE matches the markdown control characters generators tend to
	// emit despite plain-text instructions.
	markdownRE = regexp.MustCompile("[*_#>`~]")

	// separatorRE matches runs of two or more dashes (separator artifacts).
	separatorRE = regexp.MustCompile(`-{2,}`)

	// blankRunRE matches three or more consecutive newlines.
	blankRunRE = regexp.MustCompile(`\n{3,}`)

	// trailingWS matches horizontal whitespace directly before a newline.
	trailingWS = regexp.MustCompile(`[ \t]+\n`)
)

// Sanitize strips formatting residue from generated text, leaving clean
// prose. The steps run in a fixed order:
//
//  1. remove markdown control characters (* _ # > ` ~),
//  2. drop dash-run separators (--, ----, ...),
//  3. remove trailing whitespace before newlines,
//  4. collapse runs of 3+ newlines to exactly 2, preserving paragraphs,
//  5. trim the whole string.
//
// Trailing whitespace is stripped before newline runs are collapsed:
// whitespace-only lines reduce to bare newlines first, so a single collapse
// pass leaves no run longer than two. Empty input yields the empty string.
// Sanitizing already-sanitized text is a no-op, so callers may apply it
// defensively.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	s = markdownRE.ReplaceAllString(s, "")
	s = separatorRE.ReplaceAllString(s, "")
	s = trailingWS.ReplaceAllString(s, "\n")
	s = blankRunRE.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
