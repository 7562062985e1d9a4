package rules

import (
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/record"
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/report"
)

func init() {
	registerBuiltin(Rule{
		Name:     "threshold-hugger",
		Category: CategoryPricing,
		Summary:  "Quote discount priced just under the finance approval trigger.",
		Kinds:    []record.Kind{record.KindQuote},
		Classify: classifyThresholdHugger,
		Impact: func(rec record.Record, _ *record.Store) (float64, error) {
			return rec.Number("discount_amount")
		},
		Revenue: relatedRevenue("opportunity", "amount"),
	})
}

func classifyThresholdHugger(rec record.Record, _ *record.Store) (report.Classification, error) {
	v, ok := rec.Lookup("average_discount")
	if !ok {
		return report.NotApplicable, nil
	}
	d, ok := v.Number()
	if !ok {
		return "", &record.FieldError{RecordID: rec.ID, Field: "average_discount", Reason: "not a number"}
	}
	if d < 0 {
		return "", &record.FieldError{RecordID: rec.ID, Field: "average_discount", Reason: "negative value"}
	}
	if d >= rsettings.HugLowPct && d <= rsettings.HugHighPct {
		return report.Leakage, nil
	}
	return report.Healthy, nil
}
