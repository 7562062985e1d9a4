package rules

import (
	"strings"

	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/report"
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/storage"
)

// ApplyWaivers reclassifies leakage outcomes covered by an active waiver
// as excluded, so accepted leakage stops inflating category totals while
// the record stays visible in the applicable population.
// Returns (results, waivedCount).
func ApplyWaivers(in []report.UseCaseResult, waivers []storage.Waiver) ([]report.UseCaseResult, int) {
	if len(waivers) == 0 || len(in) == 0 {
		return in, 0
	}
	waived := 0
	out := make([]report.UseCaseResult, len(in))
	for i, res := range in {
		for j, o := range res.Outcomes {
			if o.Class != report.Leakage {
				continue
			}
			if !waiverMatch(waivers, res.UseCase, o) {
				continue
			}
			res.Outcomes[j].Class = report.Excluded
			res.Outcomes[j].Note = "waived"
			res.Leakage--
			res.Excluded++
			res.TotalImpact = res.TotalImpact.Sub(o.Impact)
			waived++
		}
		out[i] = res
	}
	return out, waived
}

func waiverMatch(waivers []storage.Waiver, useCase string, o report.Outcome) bool {
	for _, w := range waivers {
		if !eqCI(useCase, w.UseCase) {
			continue
		}
		if w.RecordID != "" && !eqCI(o.RecordID, w.RecordID) {
			continue
		}
		if w.NoteSub != "" &&
			!strings.Contains(strings.ToUpper(o.Note), strings.ToUpper(w.NoteSub)) {
			continue
		}
		return true
	}
	return false
}

func eqCI(a, b string) bool { return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) }
