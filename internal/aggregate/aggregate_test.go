package aggregate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/report"
)

func ucr(useCase, category string, impact, revenue int64) report.UseCaseResult {
	return report.UseCaseResult{
		UseCase:     useCase,
		Category:    category,
		TotalImpact: decimal.NewFromInt(impact),
		Revenue:     decimal.NewFromInt(revenue),
	}
}

func TestAggregate_SingleLeakPercentAndTier(t *testing.T) {
	results := []report.UseCaseResult{ucr("uc", "A", 600, 10000)}

	exec, err := Aggregate(results, []string{"A"}, nil)
	require.NoError(t, err)
	require.Len(t, exec.Categories, 1)

	c := exec.Categories[0]
	assert.Equal(t, "600", c.Impact.String())
	assert.InDelta(t, 6.0, c.Percent, 1e-9)
	assert.Equal(t, "Medium", c.Tier)
	assert.InDelta(t, 6.0, exec.Percent, 1e-9)
}

func TestAggregate_BarOrdering(t *testing.T) {
	// A and B tie at 500; C leads with 900. Ties keep registration order.
	results := []report.UseCaseResult{
		ucr("a1", "A", 500, 1000),
		ucr("b1", "B", 500, 1000),
		ucr("c1", "C", 900, 1000),
	}

	exec, err := Aggregate(results, []string{"A", "B", "C"}, nil)
	require.NoError(t, err)
	require.Len(t, exec.Bars, 3)
	assert.Equal(t, "C", exec.Bars[0].Category)
	assert.Equal(t, "A", exec.Bars[1].Category)
	assert.Equal(t, "B", exec.Bars[2].Category)
}

func TestAggregate_ZeroLeakageLowestTier(t *testing.T) {
	results := []report.UseCaseResult{ucr("uc", "A", 0, 5000)}

	exec, err := Aggregate(results, []string{"A"}, nil)
	require.NoError(t, err)
	assert.True(t, exec.TotalImpact.IsZero())
	assert.Equal(t, 0.0, exec.Percent)
	assert.Equal(t, "Low", exec.Categories[0].Tier)
}

func TestAggregate_ZeroDenominator(t *testing.T) {
	results := []report.UseCaseResult{ucr("uc", "A", 100, 0)}

	exec, err := Aggregate(results, []string{"A"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, exec.Categories[0].Percent, "empty denominator reads as zero, never an error")
}

func TestAggregate_UnknownCategory(t *testing.T) {
	results := []report.UseCaseResult{ucr("uc", "Z", 100, 1000)}

	_, err := Aggregate(results, []string{"A"}, nil)
	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Z", ae.Category)
	assert.Equal(t, "uc", ae.UseCase)
}

func TestAggregate_EmptyInput(t *testing.T) {
	exec, err := Aggregate(nil, []string{"A", "B"}, nil)
	require.NoError(t, err)
	assert.True(t, exec.TotalImpact.IsZero())
	assert.True(t, exec.TotalRevenue.IsZero())
	assert.Equal(t, 0.0, exec.Percent)
	assert.Len(t, exec.Categories, 2)
}

func TestAggregate_CustomTiers(t *testing.T) {
	results := []report.UseCaseResult{ucr("uc", "A", 100, 1000)}
	tiers := []Tier{
		{Name: "Critical", MinPercent: 50},
		{Name: "Watch", MinPercent: 1},
		{Name: "OK", MinPercent: 0},
	}

	exec, err := Aggregate(results, []string{"A"}, tiers)
	require.NoError(t, err)
	assert.Equal(t, "Watch", exec.Categories[0].Tier)
}

func TestTierFor(t *testing.T) {
	tiers := DefaultTiers()
	assert.Equal(t, "High", TierFor(tiers, 20))
	assert.Equal(t, "High", TierFor(tiers, 35))
	assert.Equal(t, "Medium", TierFor(tiers, 5))
	assert.Equal(t, "Medium", TierFor(tiers, 19.99))
	assert.Equal(t, "Low", TierFor(tiers, 0))
	assert.Equal(t, "Low", TierFor(tiers, 4.99))
}
