package rules

import (
	"time"

	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/record"
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/report"
)

func init() {
	registerBuiltin(Rule{
		Name:     "co-term-failure",
		Category: CategoryRenewal,
		Summary:  "Account holds multiple contracts whose end dates cluster inside the co-term window.",
		Kinds:    []record.Kind{record.KindContract},
		Classify: classifyCoTermFailure,
	})
}

func classifyCoTermFailure(rec record.Record, store *record.Store) (report.Classification, error) {
	accountID, ok := rec.Ref("account")
	if !ok {
		return report.NotApplicable, nil
	}
	if _, err := rec.Date("end_date"); err != nil {
		return "", err
	}

	var first, last time.Time
	siblings := 0
	for _, c := range store.ByKind(record.KindContract) {
		id, ok := c.Ref("account")
		if !ok || id != accountID {
			continue
		}
		end, err := c.Date("end_date")
		if err != nil {
			continue // siblings with unusable dates don't disqualify this one
		}
		if siblings == 0 || end.Before(first) {
			first = end
		}
		if siblings == 0 || end.After(last) {
			last = end
		}
		siblings++
	}
	if siblings < 2 {
		return report.NotApplicable, nil
	}
	window := time.Duration(rsettings.CoTermWindowDays) * 24 * time.Hour
	if last.Sub(first) <= window {
		return report.Leakage, nil
	}
	return report.Healthy, nil
}
