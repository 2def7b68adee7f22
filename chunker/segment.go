package chunker

import (
	"strings"

	"github.com/alexanderpresto/email-parser-sub000/token"
)

// segment splits content into atomic units and the separator that joins
// them: lines when the content contains a newline, whitespace-delimited
// words otherwise. The single boolean branch is preserved upstream
// behavior, not a tunable.
func segment(content string) (units []string, sep string) {
	if strings.Contains(content, "\n") {
		return strings.Split(content, "\n"), "\n"
	}
	return strings.Fields(content), " "
}

// unitCosts measures each unit as unit+separator so the cost of rejoining
// is accounted for.
func unitCosts(units []string, sep string, counter token.Counter) []int {
	costs := make([]int, len(units))
	for i, u := range units {
		costs[i] = counter.Count(u + sep)
	}
	return costs
}
