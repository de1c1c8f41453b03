package answercache

import (
	"strings"

	"golang.org/x/text/cases"
)

// Normalize returns the cache key for a question: surrounding whitespace is
// trimmed, inner runs of whitespace become a single space and the text is
// case-folded. Normalize(Normalize(q)) == Normalize(q).
func Normalize(question string) string {
	fields := strings.Fields(question)
	if len(fields) == 0 {
		return ""
	}
	// a Caser keeps state between calls and must not be shared across goroutines
	return cases.Fold().String(strings.Join(fields, " "))
}
