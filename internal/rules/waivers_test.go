package rules

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/report"
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/storage"
)

func leakResult(useCase string, ids ...string) report.UseCaseResult {
	res := report.UseCaseResult{UseCase: useCase, Category: "Cat"}
	for _, id := range ids {
		res.Leakage++
		res.TotalImpact = res.TotalImpact.Add(decimal.NewFromInt(100))
		res.Outcomes = append(res.Outcomes, report.Outcome{
			RecordID: id,
			Class:    report.Leakage,
			Impact:   decimal.NewFromInt(100),
		})
	}
	return res
}

func TestApplyWaivers_ReclassifiesMatchedLeak(t *testing.T) {
	in := []report.UseCaseResult{leakResult("ghost-order", "ord-1", "ord-2")}
	waivers := []storage.Waiver{{
		UseCase:   "Ghost-Order",
		RecordID:  "ord-1",
		Reason:    "customer credit agreed",
		ExpiresAt: time.Now().Add(time.Hour),
	}}

	out, n := ApplyWaivers(in, waivers)
	assert.Equal(t, 1, n)

	res := out[0]
	assert.Equal(t, 1, res.Leakage)
	assert.Equal(t, 1, res.Excluded)
	assert.Equal(t, "100", res.TotalImpact.String())
	// invariant preserved: the record moved buckets, it did not vanish
	assert.Equal(t, res.Healthy+res.Leakage+res.Excluded, len(res.Outcomes))
	assert.Equal(t, report.Excluded, res.Outcomes[0].Class)
	assert.Equal(t, "waived", res.Outcomes[0].Note)
}

func TestApplyWaivers_BlanketUseCaseWaiver(t *testing.T) {
	in := []report.UseCaseResult{leakResult("ghost-order", "ord-1", "ord-2")}
	waivers := []storage.Waiver{{UseCase: "ghost-order"}}

	out, n := ApplyWaivers(in, waivers)
	assert.Equal(t, 2, n)
	assert.Equal(t, 0, out[0].Leakage)
	assert.Equal(t, 2, out[0].Excluded)
	assert.True(t, out[0].TotalImpact.IsZero())
}

func TestApplyWaivers_NoMatchNoChange(t *testing.T) {
	in := []report.UseCaseResult{leakResult("ghost-order", "ord-1")}
	waivers := []storage.Waiver{{UseCase: "eternal-trial"}}

	out, n := ApplyWaivers(in, waivers)
	assert.Equal(t, 0, n)
	assert.Equal(t, 1, out[0].Leakage)
}

func TestApplyWaivers_EmptyInputs(t *testing.T) {
	out, n := ApplyWaivers(nil, nil)
	assert.Nil(t, out)
	assert.Equal(t, 0, n)
}
