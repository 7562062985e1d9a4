package rules

import (
	"strings"

	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/record"
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/report"
)

func init() {
	registerBuiltin(Rule{
		Name:     "renewal-without-quote",
		Category: CategoryGovernance,
		Summary:  "Renewal opportunity with no renewal quote attached.",
		Kinds:    []record.Kind{record.KindOpportunity},
		Classify: classifyRenewalWithoutQuote,
		Revenue:  fieldRevenue("amount"),
	})
}

func classifyRenewalWithoutQuote(rec record.Record, store *record.Store) (report.Classification, error) {
	name, err := rec.Text("name")
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(name, "Renewal") {
		return report.NotApplicable, nil
	}
	for _, q := range store.ByKind(record.KindQuote) {
		opp, ok := q.Ref("opportunity")
		if !ok || opp != rec.ID {
			continue
		}
		qt, ok := q.Lookup("quote_type")
		if !ok {
			continue
		}
		if s, ok := qt.Text(); ok && s == "Renewal" {
			return report.Healthy, nil
		}
	}
	return report.Leakage, nil
}
