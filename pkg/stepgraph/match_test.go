package stepgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		text    string
		want    bool
	}{
		{"exact match", "Timeout", "Timeout", true},
		{"exact mismatch", "Timeout", "Timeouts", false},
		{"exact is case sensitive", "Timeout", "timeout", false},
		{"prefix match", "Time*", "Timeout", true},
		{"prefix mismatch", "Time*", "NotTimeout", false},
		{"suffix match", "*out", "Timeout", true},
		{"suffix mismatch", "*out", "Timeouts", false},
		{"substring match", "*meo*", "Timeout", true},
		{"substring mismatch", "*xyz*", "Timeout", false},
		{"star matches anything", "*", "anything at all", true},
		{"star matches empty", "*", "", true},
		{"double star matches empty", "**", "", true},
		{"empty pattern matches empty", "", "", true},
		{"empty pattern rejects text", "", "x", false},
		{"inner star is literal", "a*c", "abc", false},
		{"inner star literal match", "a*c", "a*c", true},
		{"only one leading star stripped", "**x", "*x", true},
		{"only one leading star stripped mismatch", "**x", "ax", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchPattern(tt.pattern, tt.text))
		})
	}
}
