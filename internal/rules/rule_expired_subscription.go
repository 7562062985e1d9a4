package rules

import (
	"strings"

	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/record"
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/report"
)

func init() {
	registerBuiltin(Rule{
		Name:     "expired-subscription-not-renewed",
		Category: CategoryBilling,
		Summary:  "Renewal-sourced subscription ran past its end date without a new term.",
		Kinds:    []record.Kind{record.KindSubscription},
		Classify: classifyExpiredSubscription,
		Impact: func(rec record.Record, _ *record.Store) (float64, error) {
			return rec.Number("net_price")
		},
		Revenue: fieldRevenue("net_price"),
	})
}

func classifyExpiredSubscription(rec record.Record, store *record.Store) (report.Classification, error) {
	end, err := rec.Date("end_date")
	if err != nil {
		return "", err
	}
	if !end.Before(store.AsOf()) {
		return report.NotApplicable, nil
	}
	if v, ok := rec.Lookup("quote_type"); ok {
		if qt, ok := v.Text(); ok && strings.EqualFold(qt, "Renewal") {
			return report.Leakage, nil
		}
	}
	return report.Healthy, nil
}
