// Package narrative turns the executive summary into prose. The
// Summarizer boundary receives only aggregated statistics; raw records
// never cross it, so a generative implementation can be plugged in
// without widening what it may see.
package narrative

import (
	"fmt"
	"strings"

	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/report"
)

// Summarizer produces a short prose summary of one run's rollup.
type Summarizer interface {
	Summarize(exec *report.Executive, currency string) (string, error)
}

// Template is the built-in deterministic Summarizer. Same input, same
// sentence.
type Template struct{}

func (Template) Summarize(exec *report.Executive, currency string) (string, error) {
	if exec == nil || len(exec.Categories) == 0 {
		return "No categories were evaluated.", nil
	}
	if exec.TotalImpact.IsZero() {
		return "No revenue leakage was identified across the evaluated categories.", nil
	}

	top := exec.Categories[0]
	for _, c := range exec.Categories[1:] {
		if c.Impact.GreaterThan(top.Impact) {
			top = c
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Identified %s %s of revenue leakage", exec.TotalImpact.StringFixed(2), cur(currency))
	if exec.Percent > 0 {
		fmt.Fprintf(&b, ", %.1f%% of addressable value", exec.Percent)
	}
	fmt.Fprintf(&b, ". The largest exposure is %q at %s %s (%s risk).",
		top.Category, top.Impact.StringFixed(2), cur(currency), strings.ToLower(top.Tier))

	if n := highTiers(exec.Categories); n > 1 {
		fmt.Fprintf(&b, " %d categories share the highest risk tier.", n)
	}
	return b.String(), nil
}

func cur(c string) string {
	if c == "" {
		return "USD"
	}
	return c
}

// highTiers counts categories sharing the tier of the largest-impact
// category. Tier names carry no ordering, so the largest exposure
// defines "highest" here.
func highTiers(cats []report.CategoryResult) int {
	if len(cats) == 0 {
		return 0
	}
	largest := cats[0]
	for _, c := range cats[1:] {
		if c.Impact.GreaterThan(largest.Impact) {
			largest = c
		}
	}
	n := 0
	for _, c := range cats {
		if c.Tier == largest.Tier {
			n++
		}
	}
	return n
}
