package rules

import (
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/record"
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/report"
)

// Category names of the built-in rule set, in registration order.
const (
	CategoryRenewal    = "Renewal & Retention Leakage"
	CategoryPricing    = "Pricing & Discount Integrity"
	CategoryBilling    = "Billing & Usage Leakage"
	CategoryMasterData = "Master Data & Setup Gaps"
	CategoryGovernance = "Process & Governance Leakage"
)

// DefaultCategories is the built-in category order.
var DefaultCategories = []string{
	CategoryRenewal,
	CategoryPricing,
	CategoryBilling,
	CategoryMasterData,
	CategoryGovernance,
}

// Rule is one revenue-integrity use case. A rule must be deterministic
// and side-effect-free given the same store snapshot: no wall clock, no
// randomness, no external calls.
type Rule struct {
	Name     string
	Category string
	Summary  string
	// Kinds are the record kinds the rule applies to.
	Kinds []record.Kind
	// Classify maps one record (with read-only access to the full store
	// for cross-record checks) to Healthy, Leakage or NotApplicable.
	// A *record.FieldError excludes the record; any other error is a
	// rule-authoring defect and aborts the run.
	Classify func(rec record.Record, store *record.Store) (report.Classification, error)
	// Impact estimates the dollar amount at risk for a record Classify
	// marked Leakage. Must be non-negative and finite.
	Impact func(rec record.Record, store *record.Store) (float64, error)
	// Revenue reports the record's contribution to the use case's
	// addressable value (the leakage-percentage denominator). Nil when
	// the use case has no meaningful monetary base.
	Revenue func(rec record.Record, store *record.Store) (float64, bool)
}
