package rules

import (
	"strings"
	"time"

	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/record"
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/report"
)

func init() {
	registerBuiltin(Rule{
		Name:     "eternal-trial",
		Category: CategoryBilling,
		Summary:  "Long-running subscription still priced at zero.",
		Kinds:    []record.Kind{record.KindSubscription},
		Classify: classifyEternalTrial,
		Impact: func(rec record.Record, _ *record.Store) (float64, error) {
			return rec.Number("list_price")
		},
		Revenue: fieldRevenue("list_price"),
	})
}

func classifyEternalTrial(rec record.Record, _ *record.Store) (report.Classification, error) {
	netPrice, err := rec.Number("net_price")
	if err != nil {
		return "", err
	}
	if netPrice != 0 {
		return report.Healthy, nil
	}
	start, err := rec.Date("start_date")
	if err != nil {
		return "", err
	}
	end, err := rec.Date("end_date")
	if err != nil {
		return "", err
	}
	term := time.Duration(rsettings.TrialMinTermDays) * 24 * time.Hour
	if end.Sub(start) <= term {
		// short zero-price terms are legitimate trials
		return report.NotApplicable, nil
	}
	if family, ok := rec.Lookup("product_family"); ok {
		if f, ok := family.Text(); ok && strings.EqualFold(f, rsettings.TrialExemptFamily) {
			return report.NotApplicable, nil
		}
	}
	return report.Leakage, nil
}
