// Package utils holds small helpers shared across layers, mostly around
// parsing query parameters.
package utils

import "strconv"

// AtoiDefault parses s as a base-10 int and falls back to def when s is
// empty or unparsable. Query parameters arrive as strings; handlers use
// this to read page numbers without an error branch per parameter.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// ClampInt bounds v to the inclusive range [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
