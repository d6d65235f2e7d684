package catalog

import (
	"github.com/xrash/smetrics"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Jaro-Winkler parameters: the prefix bonus applies above boostThreshold and
// counts at most prefixSize leading characters.
const (
	boostThreshold = 0.7
	prefixSize     = 4
)

// Similarity scores two strings in [0,1] with Jaro-Winkler. Inputs are
// compared as given; callers lower-case first.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	return smetrics.JaroWinkler(a, b, boostThreshold, prefixSize)
}

// lower folds s to lower case. A Caser is stateful, so one is built per call.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
