package reporting

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/report"
)

type diffPayload struct {
	BaseID  string        `json:"base_id"`
	HeadID  string        `json:"head_id"`
	Summary diffSummary   `json:"summary"`
	Changes []diffUseCase `json:"changes"`
}

type diffSummary struct {
	NewLeaks      int    `json:"new_leaks"`
	ResolvedLeaks int    `json:"resolved_leaks"`
	ImpactDelta   string `json:"impact_delta"`
}

type diffUseCase struct {
	UseCase     string   `json:"use_case"`
	Category    string   `json:"category"`
	NewLeaks    []string `json:"new_leaks,omitempty"`
	Resolved    []string `json:"resolved_leaks,omitempty"`
	ImpactDelta string   `json:"impact_delta"`
}

// WriteDiffJSON compares two stored runs per use case: which records
// newly leak, which leaks resolved, and how the impact moved.
func WriteDiffJSON(baseID, headID, outDir string, base, head *report.Run) (string, error) {
	path := filepath.Join(outDir, "diff_"+baseID+"__"+headID+".json")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}

	baseByUC := indexResults(base)
	headByUC := indexResults(head)

	names := map[string]struct{}{}
	for n := range baseByUC {
		names[n] = struct{}{}
	}
	for n := range headByUC {
		names[n] = struct{}{}
	}
	ordered := make([]string, 0, len(names))
	for n := range names {
		ordered = append(ordered, n)
	}
	sort.Strings(ordered)

	var (
		changes    []diffUseCase
		newTotal   int
		goneTotal  int
		deltaTotal decimal.Decimal
	)
	for _, name := range ordered {
		b, h := baseByUC[name], headByUC[name]
		bl, hl := leakSet(b), leakSet(h)

		var added, resolved []string
		for id := range hl {
			if _, ok := bl[id]; !ok {
				added = append(added, id)
			}
		}
		for id := range bl {
			if _, ok := hl[id]; !ok {
				resolved = append(resolved, id)
			}
		}
		sort.Strings(added)
		sort.Strings(resolved)

		delta := h.TotalImpact.Sub(b.TotalImpact)
		if len(added) == 0 && len(resolved) == 0 && delta.IsZero() {
			continue
		}
		cat := h.Category
		if cat == "" {
			cat = b.Category
		}
		display := h.UseCase
		if display == "" {
			display = b.UseCase
		}
		changes = append(changes, diffUseCase{
			UseCase:     display,
			Category:    cat,
			NewLeaks:    added,
			Resolved:    resolved,
			ImpactDelta: delta.String(),
		})
		newTotal += len(added)
		goneTotal += len(resolved)
		deltaTotal = deltaTotal.Add(delta)
	}

	payload := diffPayload{
		BaseID: baseID, HeadID: headID,
		Summary: diffSummary{
			NewLeaks:      newTotal,
			ResolvedLeaks: goneTotal,
			ImpactDelta:   deltaTotal.String(),
		},
		Changes: changes,
	}
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return path, os.WriteFile(path, b, 0o644)
}

func indexResults(run *report.Run) map[string]report.UseCaseResult {
	out := make(map[string]report.UseCaseResult, len(run.Results))
	for _, r := range run.Results {
		out[strings.ToLower(strings.TrimSpace(r.UseCase))] = r
	}
	return out
}

func leakSet(r report.UseCaseResult) map[string]struct{} {
	out := map[string]struct{}{}
	for _, o := range r.Outcomes {
		if o.Class == report.Leakage {
			out[o.RecordID] = struct{}{}
		}
	}
	return out
}
