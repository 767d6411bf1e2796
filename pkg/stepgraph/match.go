package stepgraph

import "strings"

// Wildcard is the character that marks an open end of a catch pattern.
const Wildcard = "*"

// MatchPattern reports whether text matches a catch pattern.
//
// A single leading and/or trailing "*" is recognised:
//
//	"*sub*"   text contains "sub"
//	"*fix"    text ends with "fix"
//	"pre*"    text starts with "pre"
//	"exact"   text equals "exact"
//
// Matching is case-sensitive. "*" matches every text, including "".
func MatchPattern(pattern, text string) bool {
	leading := strings.HasPrefix(pattern, Wildcard)
	trailing := strings.HasSuffix(pattern, Wildcard)

	trimmed := pattern
	if leading {
		trimmed = strings.TrimPrefix(trimmed, Wildcard)
	}
	if trailing {
		trimmed = strings.TrimSuffix(trimmed, Wildcard)
	}

	switch {
	case leading && trailing:
		return strings.Contains(text, trimmed)
	case leading:
		return strings.HasSuffix(text, trimmed)
	case trailing:
		return strings.HasPrefix(text, trimmed)
	default:
		return text == pattern
	}
}
