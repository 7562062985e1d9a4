package rules

import (
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/record"
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/report"
)

func init() {
	registerBuiltin(Rule{
		Name:     "inactive-sale",
		Category: CategoryMasterData,
		Summary:  "Quote line references a product retired from the catalog.",
		Kinds:    []record.Kind{record.KindQuote},
		Classify: classifyInactiveSale,
	})
}

func classifyInactiveSale(rec record.Record, _ *record.Store) (report.Classification, error) {
	v, ok := rec.Lookup("product_active")
	if !ok {
		return report.NotApplicable, nil
	}
	active, ok := v.Bool()
	if !ok {
		return "", &record.FieldError{RecordID: rec.ID, Field: "product_active", Reason: "not a boolean"}
	}
	if active {
		return report.Healthy, nil
	}
	return report.Leakage, nil
}
