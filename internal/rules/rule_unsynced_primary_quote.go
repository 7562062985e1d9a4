package rules

import (
	"math"

	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/record"
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/report"
)

func init() {
	registerBuiltin(Rule{
		Name:     "unsynced-primary-quote",
		Category: CategoryGovernance,
		Summary:  "Primary quote total drifted away from its opportunity amount.",
		Kinds:    []record.Kind{record.KindQuote},
		Classify: classifyUnsyncedPrimary,
		Impact:   unsyncedPrimaryImpact,
		Revenue:  relatedRevenue("opportunity", "amount"),
	})
}

func classifyUnsyncedPrimary(rec record.Record, store *record.Store) (report.Classification, error) {
	v, ok := rec.Lookup("primary")
	if !ok {
		return report.NotApplicable, nil
	}
	primary, ok := v.Bool()
	if !ok {
		return "", &record.FieldError{RecordID: rec.ID, Field: "primary", Reason: "not a boolean"}
	}
	if !primary {
		return report.NotApplicable, nil
	}
	if _, ok := rec.Ref("opportunity"); !ok {
		return report.NotApplicable, nil
	}
	quoteAmt, err := rec.Number("net_amount")
	if err != nil {
		return "", err
	}
	oppAmt, err := relatedNumber(store, rec, "opportunity", "amount")
	if err != nil {
		return "", err
	}
	if quoteAmt == oppAmt {
		return report.Healthy, nil
	}
	return report.Leakage, nil
}

func unsyncedPrimaryImpact(rec record.Record, store *record.Store) (float64, error) {
	quoteAmt, err := rec.Number("net_amount")
	if err != nil {
		return 0, err
	}
	oppAmt, err := relatedNumber(store, rec, "opportunity", "amount")
	if err != nil {
		return 0, err
	}
	return math.Abs(quoteAmt - oppAmt), nil
}
