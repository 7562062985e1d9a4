package rules

import (
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/record"
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/report"
)

func init() {
	registerBuiltin(Rule{
		Name:     "missing-billing-frequency",
		Category: CategoryGovernance,
		Summary:  "Renewable quote with no billing frequency set, so invoicing cannot start.",
		Kinds:    []record.Kind{record.KindQuote},
		Classify: classifyMissingBillingFrequency,
		Impact: func(rec record.Record, _ *record.Store) (float64, error) {
			return rec.Number("net_total")
		},
		Revenue: fieldRevenue("net_total"),
	})
}

func classifyMissingBillingFrequency(rec record.Record, _ *record.Store) (report.Classification, error) {
	sub, ok := rec.Lookup("subscription_type")
	if !ok {
		return report.NotApplicable, nil
	}
	s, ok := sub.Text()
	if !ok {
		return "", &record.FieldError{RecordID: rec.ID, Field: "subscription_type", Reason: "not a string"}
	}
	if s != "Renewable" {
		return report.NotApplicable, nil
	}
	if _, ok := rec.Lookup("billing_frequency"); ok {
		return report.Healthy, nil
	}
	return report.Leakage, nil
}
