package rules

import (
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/record"
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/report"
)

func init() {
	registerBuiltin(Rule{
		Name:     "discount-without-approval",
		Category: CategoryGovernance,
		Summary:  "Discount above the approval threshold on a quote that never reached Approved.",
		Kinds:    []record.Kind{record.KindQuote},
		Classify: classifyUnapprovedDiscount,
		Impact: func(rec record.Record, _ *record.Store) (float64, error) {
			return rec.Number("net_amount")
		},
		Revenue: fieldRevenue("net_amount"),
	})
}

func classifyUnapprovedDiscount(rec record.Record, _ *record.Store) (report.Classification, error) {
	v, ok := rec.Lookup("customer_discount")
	if !ok {
		return report.Healthy, nil
	}
	pct, ok := v.Number()
	if !ok {
		return "", &record.FieldError{RecordID: rec.ID, Field: "customer_discount", Reason: "not a number"}
	}
	if pct <= rsettings.ApprovalThresholdPct {
		return report.Healthy, nil
	}
	status, err := rec.Text("status")
	if err != nil {
		return "", err
	}
	if status == "Approved" {
		return report.Healthy, nil
	}
	return report.Leakage, nil
}
