package nutrition

import (
	"regexp"
	"strconv"
)

// MaxScore is the upper bound of the verdict scale.
const MaxScore = 100

// scoreLineRE matches the mandatory score line the prompt instructs the
// generator to emit. The match is case-insensitive and tolerant of spacing
// around the digits and the slash. This regex is the single source of truth
// for scoring; no secondary heuristics are applied to drifting responses.
var scoreLineRE = regexp.MustCompile(`(?i)puntaje global:\s*(\d+)\s*/\s*100`)

// ExtractScore searches sanitized text for the score line and returns the
// parsed value clamped to [0, MaxScore], plus whether a line was found.
//
// Absence of the line is an expected branch, not an error: the generator
// answers non-food products with a fixed rejection sentence that carries no
// score. Callers treat (0, false) as an unscored result.
func ExtractScore(s string) (int, bool) {
	m := scoreLineRE.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n > MaxScore {
		// Digit capture can only overflow upward; the contract caps at 100.
		return MaxScore, true
	}
	return n, true
}
