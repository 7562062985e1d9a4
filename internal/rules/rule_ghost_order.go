package rules

import (
	"strings"

	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/record"
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/report"
)

func init() {
	registerBuiltin(Rule{
		Name:     "ghost-order",
		Category: CategoryBilling,
		Summary:  "Order activated days ago with no downstream reference number.",
		Kinds:    []record.Kind{record.KindOrder},
		Classify: classifyGhostOrder,
		Impact: func(rec record.Record, _ *record.Store) (float64, error) {
			return rec.Number("total_amount")
		},
		Revenue: fieldRevenue("total_amount"),
	})
}

func classifyGhostOrder(rec record.Record, store *record.Store) (report.Classification, error) {
	status, err := rec.Text("status")
	if err != nil {
		return "", err
	}
	if !strings.EqualFold(status, "Activated") {
		return report.NotApplicable, nil
	}
	if _, ok := rec.Lookup("reference_number"); ok {
		return report.Healthy, nil
	}
	activated, err := rec.Date("activated_date")
	if err != nil {
		return "", err
	}
	cutoff := store.AsOf().AddDate(0, 0, -rsettings.GhostOrderAgeDays)
	if activated.After(cutoff) {
		// fulfillment may simply not have caught up yet
		return report.Healthy, nil
	}
	return report.Leakage, nil
}
