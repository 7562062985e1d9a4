package rules

import (
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/record"
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/report"
)

func init() {
	registerBuiltin(Rule{
		Name:     "broken-bundle",
		Category: CategoryPricing,
		Summary:  "Component quote line sold without its parent bundle product.",
		Kinds:    []record.Kind{record.KindQuote},
		Classify: classifyBrokenBundle,
		Impact: func(rec record.Record, _ *record.Store) (float64, error) {
			return rec.Number("net_price")
		},
		Revenue: fieldRevenue("net_price"),
	})
}

func classifyBrokenBundle(rec record.Record, _ *record.Store) (report.Classification, error) {
	v, ok := rec.Lookup("is_component")
	if !ok {
		return report.NotApplicable, nil
	}
	comp, ok := v.Bool()
	if !ok {
		return "", &record.FieldError{RecordID: rec.ID, Field: "is_component", Reason: "not a boolean"}
	}
	if !comp {
		return report.NotApplicable, nil
	}
	if _, ok := rec.Ref("required_by"); ok {
		return report.Healthy, nil
	}
	return report.Leakage, nil
}
