package rules

import (
	"context"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/record"
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/report"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func mustStore(t testing.TB, asOf string, recs []record.Record) *record.Store {
	t.Helper()
	s, err := record.NewStore(day(asOf), recs)
	require.NoError(t, err)
	return s
}

func quoteRec(id string, fields map[string]record.Value) record.Record {
	return record.Record{ID: id, Kind: record.KindQuote, Fields: fields}
}

// flagRule leaks on leak=true, is healthy on leak=false and not
// applicable when the flag is absent.
func flagRule(name, category string, impact float64) Rule {
	return Rule{
		Name:     name,
		Category: category,
		Kinds:    []record.Kind{record.KindQuote},
		Classify: func(rec record.Record, _ *record.Store) (report.Classification, error) {
			v, ok := rec.Lookup("leak")
			if !ok {
				return report.NotApplicable, nil
			}
			leak, ok := v.Bool()
			if !ok {
				return "", &record.FieldError{RecordID: rec.ID, Field: "leak", Reason: "not a boolean"}
			}
			if leak {
				return report.Leakage, nil
			}
			return report.Healthy, nil
		},
		Impact: func(record.Record, *record.Store) (float64, error) { return impact, nil },
		Revenue: func(record.Record, *record.Store) (float64, bool) {
			return impact * 10, true
		},
	}
}

func singleRuleRegistry(t *testing.T, r Rule) *Registry {
	t.Helper()
	reg := NewRegistry([]string{r.Category})
	require.NoError(t, reg.Register(r))
	return reg
}

func TestEvaluate_CountInvariant(t *testing.T) {
	store := mustStore(t, "2026-01-31", []record.Record{
		quoteRec("q1", map[string]record.Value{"leak": record.BoolValue(true)}),
		quoteRec("q2", map[string]record.Value{"leak": record.BoolValue(false)}),
		quoteRec("q3", map[string]record.Value{"leak": record.StringValue("oops")}),
		quoteRec("q4", map[string]record.Value{}),
	})
	reg := singleRuleRegistry(t, flagRule("flag", "Cat", 50))

	results, err := Evaluate(context.Background(), store, reg)
	require.NoError(t, err)
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, 1, res.Leakage)
	assert.Equal(t, 1, res.Healthy)
	assert.Equal(t, 1, res.Excluded)
	// q4 is not applicable: absent from both counts and outcomes
	assert.Equal(t, res.Healthy+res.Leakage+res.Excluded, len(res.Outcomes))
	assert.Equal(t, "50", res.TotalImpact.String())
}

func TestEvaluate_ExclusionCarriesNote(t *testing.T) {
	store := mustStore(t, "2026-01-31", []record.Record{
		quoteRec("q1", map[string]record.Value{"leak": record.NumberValue(1)}),
	})
	reg := singleRuleRegistry(t, flagRule("flag", "Cat", 50))

	results, err := Evaluate(context.Background(), store, reg)
	require.NoError(t, err)
	require.Len(t, results[0].Outcomes, 1)
	out := results[0].Outcomes[0]
	assert.Equal(t, report.Excluded, out.Class)
	assert.Equal(t, "q1", out.RecordID)
	assert.Contains(t, out.Note, "not a boolean")
}

func TestEvaluate_NegativeImpactAbortsRun(t *testing.T) {
	store := mustStore(t, "2026-01-31", []record.Record{
		quoteRec("q1", map[string]record.Value{"leak": record.BoolValue(true)}),
	})
	r := flagRule("bad-impact", "Cat", 0)
	r.Impact = func(record.Record, *record.Store) (float64, error) { return -10, nil }
	reg := singleRuleRegistry(t, r)

	results, err := Evaluate(context.Background(), store, reg)
	var ce *ContractError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "bad-impact", ce.UseCase)
	assert.Equal(t, "q1", ce.RecordID)
	assert.Nil(t, results, "no partial results on a contract violation")
}

func TestEvaluate_NonFiniteImpactAbortsRun(t *testing.T) {
	store := mustStore(t, "2026-01-31", []record.Record{
		quoteRec("q1", map[string]record.Value{"leak": record.BoolValue(true)}),
	})
	r := flagRule("nan-impact", "Cat", 0)
	r.Impact = func(record.Record, *record.Store) (float64, error) { return math.NaN(), nil }
	reg := singleRuleRegistry(t, r)

	_, err := Evaluate(context.Background(), store, reg)
	var ce *ContractError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Reason, "non-finite")
}

func TestEvaluate_InvalidClassificationAbortsRun(t *testing.T) {
	store := mustStore(t, "2026-01-31", []record.Record{
		quoteRec("q1", map[string]record.Value{}),
	})
	r := Rule{
		Name:     "invalid",
		Category: "Cat",
		Kinds:    []record.Kind{record.KindQuote},
		Classify: func(record.Record, *record.Store) (report.Classification, error) {
			return report.Classification("maybe"), nil
		},
	}
	reg := singleRuleRegistry(t, r)

	_, err := Evaluate(context.Background(), store, reg)
	var ce *ContractError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Reason, "invalid classification")
}

func TestEvaluate_RuleIsolation(t *testing.T) {
	// q1 excludes under strict but stays healthy under lenient
	store := mustStore(t, "2026-01-31", []record.Record{
		quoteRec("q1", map[string]record.Value{"leak": record.StringValue("oops")}),
	})
	lenient := Rule{
		Name:     "lenient",
		Category: "Cat",
		Kinds:    []record.Kind{record.KindQuote},
		Classify: func(record.Record, *record.Store) (report.Classification, error) {
			return report.Healthy, nil
		},
	}
	reg := NewRegistry([]string{"Cat"})
	require.NoError(t, reg.Register(flagRule("strict", "Cat", 1)))
	require.NoError(t, reg.Register(lenient))

	results, err := Evaluate(context.Background(), store, reg)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Excluded)
	assert.Equal(t, 0, results[1].Excluded)
	assert.Equal(t, 1, results[1].Healthy)
}

func TestEvaluate_Deterministic(t *testing.T) {
	recs := []record.Record{
		quoteRec("q1", map[string]record.Value{"leak": record.BoolValue(true)}),
		quoteRec("q2", map[string]record.Value{"leak": record.BoolValue(false)}),
		quoteRec("q3", map[string]record.Value{"leak": record.BoolValue(true)}),
	}
	store := mustStore(t, "2026-01-31", recs)
	reg := singleRuleRegistry(t, flagRule("flag", "Cat", 25))

	a, err := Evaluate(context.Background(), store, reg)
	require.NoError(t, err)
	b, err := Evaluate(context.Background(), store, reg)
	require.NoError(t, err)

	ja, err := json.Marshal(a)
	require.NoError(t, err)
	jb, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, string(ja), string(jb))
}

func TestEvaluate_WorkerPoolMatchesSequential(t *testing.T) {
	var recs []record.Record
	for i := 0; i < 50; i++ {
		leak := i%3 == 0
		recs = append(recs, quoteRec(
			"q"+string(rune('a'+i%26))+string(rune('0'+i/26)),
			map[string]record.Value{"leak": record.BoolValue(leak)},
		))
	}
	store := mustStore(t, "2026-01-31", recs)

	reg := NewRegistry([]string{"A", "B"})
	require.NoError(t, reg.Register(flagRule("one", "A", 10)))
	require.NoError(t, reg.Register(flagRule("two", "A", 20)))
	require.NoError(t, reg.Register(flagRule("three", "B", 30)))

	prev := rsettings
	defer SetSettings(prev)

	SetSettings(Settings{Workers: 1})
	seq, err := Evaluate(context.Background(), store, reg)
	require.NoError(t, err)

	SetSettings(Settings{Workers: 4})
	par, err := Evaluate(context.Background(), store, reg)
	require.NoError(t, err)

	js, _ := json.Marshal(seq)
	jp, _ := json.Marshal(par)
	assert.Equal(t, string(js), string(jp), "pooled output must match sequential, in registry order")
}

func TestEvaluate_Cancellation(t *testing.T) {
	store := mustStore(t, "2026-01-31", []record.Record{
		quoteRec("q1", map[string]record.Value{"leak": record.BoolValue(true)}),
	})
	reg := singleRuleRegistry(t, flagRule("flag", "Cat", 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := Evaluate(ctx, store, reg)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, results)
}

func TestEvaluate_EmptyStore(t *testing.T) {
	store := mustStore(t, "2026-01-31", nil)
	reg := singleRuleRegistry(t, flagRule("flag", "Cat", 1))

	results, err := Evaluate(context.Background(), store, reg)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].Healthy)
	assert.Equal(t, 0, results[0].Leakage)
	assert.Equal(t, 0, results[0].Excluded)
	assert.True(t, results[0].TotalImpact.IsZero())
}
