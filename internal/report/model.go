// Package report holds the result model one analysis run produces:
// per-use-case results, category rollups and the executive summary.
// Downstream collaborators (chart rendering, narrative generation)
// traverse this tree read-only and never see raw records.
package report

import (
	"time"

	"github.com/shopspring/decimal"
)

const Version = "1.0"

// Classification is the per-record outcome of one rule.
type Classification string

const (
	Healthy       Classification = "healthy"
	Leakage       Classification = "leakage"
	NotApplicable Classification = "not_applicable"
	// Excluded marks a record the rule could not classify because of a
	// data-quality failure. It appears only in recorded outcomes, never
	// as a value a rule returns.
	Excluded Classification = "excluded"
)

// Outcome is one (record, classification, impact) triple.
type Outcome struct {
	RecordID string          `json:"record_id"`
	Class    Classification  `json:"class"`
	Impact   decimal.Decimal `json:"impact"`
	Note     string          `json:"note,omitempty"` // exclusion reason
}

// UseCaseResult is the outcome of one rule over the whole store.
// Invariant: Healthy + Leakage + Excluded == len(Outcomes); records the
// rule declared not applicable are absent from both.
type UseCaseResult struct {
	UseCase  string    `json:"use_case"`
	Category string    `json:"category"`
	Summary  string    `json:"summary,omitempty"`
	Outcomes []Outcome `json:"outcomes"`

	Healthy  int `json:"healthy"`
	Leakage  int `json:"leakage"`
	Excluded int `json:"excluded"`

	TotalImpact decimal.Decimal `json:"total_impact"`
	// Revenue is this use case's addressable value: the sum of the
	// monetary fields the rule inspects over its applicable records.
	Revenue decimal.Decimal `json:"revenue"`
}

// PiePoint is one ordered (label, count) pair for chart collaborators.
type PiePoint struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Pie returns the chart payload in fixed label order.
func (u UseCaseResult) Pie() []PiePoint {
	return []PiePoint{
		{Label: "Healthy", Count: u.Healthy},
		{Label: "Leakage", Count: u.Leakage},
		{Label: "Excluded", Count: u.Excluded},
	}
}

// CategoryResult rolls the use-case results of one category up.
type CategoryResult struct {
	Category    string          `json:"category"`
	UseCases    []UseCaseResult `json:"use_cases"`
	Impact      decimal.Decimal `json:"impact"`
	Revenue     decimal.Decimal `json:"revenue"`
	Percent     float64         `json:"percent"` // leakage percentage, 0 when Revenue is 0
	Tier        string          `json:"tier"`
	Healthy     int             `json:"healthy"`
	LeakCount   int             `json:"leakage"`
	ExclCount   int             `json:"excluded"`
}

// BarPoint is one bar of the executive bar graph. The sequence is
// sorted by descending impact, ties broken by category registration
// order; that ordering is part of the chart contract.
type BarPoint struct {
	Category string          `json:"category"`
	Impact   decimal.Decimal `json:"impact"`
}

// Executive is the cross-category summary.
type Executive struct {
	Categories   []CategoryResult `json:"categories"`
	TotalImpact  decimal.Decimal  `json:"total_impact"`
	TotalRevenue decimal.Decimal  `json:"total_revenue"`
	Percent      float64          `json:"percent"`
	Bars         []BarPoint       `json:"bars"`
}

// Run is the persisted document for one analysis run.
type Run struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Source    string    `json:"source,omitempty"`
	Currency  string    `json:"currency,omitempty"`
	AsOf      time.Time `json:"as_of"`
	Version   string    `json:"version,omitempty"`

	Results   []UseCaseResult `json:"results"`
	Executive *Executive      `json:"executive,omitempty"`
}
