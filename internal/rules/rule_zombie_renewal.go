package rules

import (
	"strings"

	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/record"
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/report"
)

func init() {
	registerBuiltin(Rule{
		Name:     "zombie-renewal",
		Category: CategoryRenewal,
		Summary:  "Activated contract past its end date with no renewal opportunity created.",
		Kinds:    []record.Kind{record.KindContract},
		Classify: classifyZombieRenewal,
		Impact: func(rec record.Record, store *record.Store) (float64, error) {
			return relatedNumber(store, rec, "opportunity", "amount")
		},
		Revenue: relatedRevenue("opportunity", "amount"),
	})
}

func classifyZombieRenewal(rec record.Record, store *record.Store) (report.Classification, error) {
	status, err := rec.Text("status")
	if err != nil {
		return "", err
	}
	if !strings.EqualFold(status, "Activated") {
		return report.NotApplicable, nil
	}
	if _, ok := rec.Ref("renewal_opportunity"); ok {
		return report.Healthy, nil
	}
	end, err := rec.Date("end_date")
	if err != nil {
		return "", err
	}
	cutoff := store.AsOf().AddDate(0, 0, -rsettings.ZombieGraceDays)
	if end.After(cutoff) {
		// still inside the renewal grace window: expiring soon, not yet a zombie
		return report.NotApplicable, nil
	}
	return report.Leakage, nil
}
