package rules

import (
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/record"
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/report"
)

func init() {
	registerBuiltin(Rule{
		Name:     "zero-quantity-line",
		Category: CategoryMasterData,
		Summary:  "Live subscription line booked at zero quantity.",
		Kinds:    []record.Kind{record.KindSubscription},
		Classify: classifyZeroQuantity,
		Impact: func(rec record.Record, _ *record.Store) (float64, error) {
			return rec.Number("net_price")
		},
		Revenue: fieldRevenue("net_price"),
	})
}

func classifyZeroQuantity(rec record.Record, _ *record.Store) (report.Classification, error) {
	if _, ok := rec.Lookup("terminated_date"); ok {
		return report.NotApplicable, nil
	}
	qty, err := rec.Number("quantity")
	if err != nil {
		return "", err
	}
	if qty == 0 {
		return report.Leakage, nil
	}
	return report.Healthy, nil
}
