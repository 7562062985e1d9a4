package rules

import (
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/record"
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/report"
)

func init() {
	registerBuiltin(Rule{
		Name:     "missing-tax-status",
		Category: CategoryMasterData,
		Summary:  "Billable order carries no tax-exempt status.",
		Kinds:    []record.Kind{record.KindOrder},
		Classify: classifyMissingTaxStatus,
		Impact: func(rec record.Record, _ *record.Store) (float64, error) {
			amt, err := rec.Number("total_amount")
			if err != nil {
				return 0, err
			}
			return amt * rsettings.TaxExposureRate, nil
		},
		Revenue: fieldRevenue("total_amount"),
	})
}

func classifyMissingTaxStatus(rec record.Record, _ *record.Store) (report.Classification, error) {
	amt, err := rec.Number("total_amount")
	if err != nil {
		return "", err
	}
	if amt <= 0 {
		return report.NotApplicable, nil
	}
	if _, ok := rec.Lookup("tax_exempt_status"); ok {
		return report.Healthy, nil
	}
	return report.Leakage, nil
}
