// Package aggregate rolls per-use-case results up into category
// results and the executive summary. All monetary arithmetic is
// decimal; float64 appears only in the derived percentages.
package aggregate

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/report"
)

// Error reports a mismatch between evaluation results and the
// registered category set. It is fatal: the run has no executive.
type Error struct {
	Category string
	UseCase  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("aggregate: use case %q references unregistered category %q", e.UseCase, e.Category)
}

// Tier is one risk band. Thresholds are matched in order: the first
// tier whose MinPercent the category percentage reaches wins, so the
// slice must be sorted by descending MinPercent with a zero-threshold
// tier last.
type Tier struct {
	Name       string  `yaml:"name" json:"name"`
	MinPercent float64 `yaml:"min_percent" json:"min_percent"`
}

// DefaultTiers is the High/Medium/Low banding used when configuration
// supplies none.
func DefaultTiers() []Tier {
	return []Tier{
		{Name: "High", MinPercent: 20},
		{Name: "Medium", MinPercent: 5},
		{Name: "Low", MinPercent: 0},
	}
}

// TierFor returns the band name for a leakage percentage.
func TierFor(tiers []Tier, percent float64) string {
	for _, t := range tiers {
		if percent >= t.MinPercent {
			return t.Name
		}
	}
	if len(tiers) == 0 {
		return ""
	}
	return tiers[len(tiers)-1].Name
}

// Aggregate builds the executive summary from evaluation results.
// categories is the registry's ordered category list; every result
// must reference one of them. Empty input yields a zero executive.
func Aggregate(results []report.UseCaseResult, categories []string, tiers []Tier) (report.Executive, error) {
	if len(tiers) == 0 {
		tiers = DefaultTiers()
	}

	index := make(map[string]int, len(categories))
	for i, c := range categories {
		index[c] = i
	}
	byCat := make([][]report.UseCaseResult, len(categories))
	for _, r := range results {
		i, ok := index[r.Category]
		if !ok {
			return report.Executive{}, &Error{Category: r.Category, UseCase: r.UseCase}
		}
		byCat[i] = append(byCat[i], r)
	}

	exec := report.Executive{}
	for i, c := range categories {
		cr := report.CategoryResult{Category: c, UseCases: byCat[i]}
		for _, r := range byCat[i] {
			cr.Impact = cr.Impact.Add(r.TotalImpact)
			cr.Revenue = cr.Revenue.Add(r.Revenue)
			cr.Healthy += r.Healthy
			cr.LeakCount += r.Leakage
			cr.ExclCount += r.Excluded
		}
		cr.Percent = percent(cr.Impact, cr.Revenue)
		cr.Tier = TierFor(tiers, cr.Percent)

		exec.Categories = append(exec.Categories, cr)
		exec.TotalImpact = exec.TotalImpact.Add(cr.Impact)
		exec.TotalRevenue = exec.TotalRevenue.Add(cr.Revenue)
	}
	exec.Percent = percent(exec.TotalImpact, exec.TotalRevenue)
	exec.Bars = bars(exec.Categories)
	return exec, nil
}

// percent is zero-safe: an empty denominator means no addressable
// value was observed, which reads as zero leakage, never an error.
func percent(impact, revenue decimal.Decimal) float64 {
	if revenue.IsZero() {
		return 0
	}
	f, _ := impact.Div(revenue).Mul(decimal.NewFromInt(100)).Float64()
	return f
}

// bars orders categories by descending impact. Ties keep registration
// order; both orderings are part of the chart contract.
func bars(cats []report.CategoryResult) []report.BarPoint {
	out := make([]report.BarPoint, len(cats))
	for i, c := range cats {
		out[i] = report.BarPoint{Category: c.Category, Impact: c.Impact}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Impact.GreaterThan(out[j].Impact)
	})
	return out
}
