package rules

import (
	"math"

	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/record"
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/report"
)

func init() {
	registerBuiltin(Rule{
		Name:     "lost-uplift",
		Category: CategoryRenewal,
		Summary:  "Contract renewed below the expected uplift value.",
		Kinds:    []record.Kind{record.KindContract},
		Classify: classifyLostUplift,
		Impact:   impactLostUplift,
		Revenue:  relatedRevenue("opportunity", "amount"),
	})
}

func lostUpliftAmounts(rec record.Record, store *record.Store) (expected, actual float64, err error) {
	renewal, ok := store.Related(rec, "renewal_opportunity")
	if !ok {
		return 0, 0, &record.FieldError{RecordID: rec.ID, Field: "renewal_opportunity", Reason: "relation missing"}
	}
	oldAmt, err := relatedNumber(store, rec, "opportunity", "amount")
	if err != nil {
		return 0, 0, err
	}
	uplift, err := rec.Number("uplift_rate")
	if err != nil {
		return 0, 0, err
	}
	actual, err = renewal.Number("amount")
	if err != nil {
		return 0, 0, err
	}
	expected = oldAmt * (1 + uplift/100)
	return expected, actual, nil
}

func classifyLostUplift(rec record.Record, store *record.Store) (report.Classification, error) {
	if _, ok := rec.Ref("renewal_opportunity"); !ok {
		return report.NotApplicable, nil
	}
	expected, actual, err := lostUpliftAmounts(rec, store)
	if err != nil {
		return "", err
	}
	if math.Abs(expected-actual) < 0.005 {
		return report.Healthy, nil
	}
	return report.Leakage, nil
}

func impactLostUplift(rec record.Record, store *record.Store) (float64, error) {
	expected, actual, err := lostUpliftAmounts(rec, store)
	if err != nil {
		return 0, err
	}
	if actual >= expected {
		// renewed above expectation: flagged as unsynced, nothing lost
		return 0, nil
	}
	return expected - actual, nil
}
