package expr

import (
	"fmt"
	"strings"

	"github.com/randalmurphal/stepgraph/pkg/stepgraph"
)

// builtinOps are tried in order. Longer tokens come first so "<=" is not
// read as "<".
var builtinOps = []struct {
	token   string
	compare BinaryOp
}{
	{"==", equals},
	{"!=", func(l, r any) bool { return !equals(l, r) }},
	{">=", func(l, r any) bool { return ToFloat64(l) >= ToFloat64(r) }},
	{"<=", func(l, r any) bool { return ToFloat64(l) <= ToFloat64(r) }},
	{">", func(l, r any) bool { return ToFloat64(l) > ToFloat64(r) }},
	{"<", func(l, r any) bool { return ToFloat64(l) < ToFloat64(r) }},
	{" contains ", func(l, r any) bool { return strings.Contains(toString(l), toString(r)) }},
	{" like ", func(l, r any) bool { return stepgraph.MatchPattern(toString(r), toString(l)) }},
}

// Compare applies a named operator to two values.
func Compare(left, right any, op string) (bool, error) {
	op = strings.TrimSpace(op)
	for _, b := range builtinOps {
		if strings.TrimSpace(b.token) == op {
			return b.compare(left, right), nil
		}
	}
	return false, fmt.Errorf("unknown operator: %s", op)
}

// equals compares by string form, so 1 == "1" and true == "true".
func equals(l, r any) bool {
	return toString(l) == toString(r)
}

func toString(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
