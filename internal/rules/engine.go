package rules

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/record"
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/report"
)

// Evaluate runs every registered rule over the store and returns exactly
// one UseCaseResult per rule, in registry order. Data-quality failures
// exclude single records; a rule contract violation aborts the whole
// run so a partially computed report is never emitted. Rules are
// isolated: one rule's exclusions never affect another's counts.
//
// With Settings.Workers > 1 rules run on a bounded pool; the output
// order still reflects registry order, reassembled after completion.
// Cancellation is cooperative between rules: a cancelled run returns
// ctx.Err() and no results.
func Evaluate(ctx context.Context, store *record.Store, reg *Registry) ([]report.UseCaseResult, error) {
	rs := reg.Rules()
	out := make([]report.UseCaseResult, len(rs))

	workers := rsettings.Workers
	if workers > len(rs) {
		workers = len(rs)
	}
	if workers <= 1 {
		for i, rule := range rs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			res, err := evaluateRule(store, rule)
			if err != nil {
				return nil, err
			}
			out[i] = res
		}
		return out, nil
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res, err := evaluateRule(store, rs[i])
				if err != nil {
					fail(err)
					continue
				}
				out[i] = res
			}
		}()
	}

feed:
	for i := range rs {
		select {
		case <-ctx.Done():
			fail(ctx.Err())
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

func evaluateRule(store *record.Store, rule Rule) (report.UseCaseResult, error) {
	res := report.UseCaseResult{
		UseCase:     rule.Name,
		Category:    rule.Category,
		Summary:     rule.Summary,
		TotalImpact: decimal.Zero,
		Revenue:     decimal.Zero,
	}

	accrue := func(rec record.Record) {
		if rule.Revenue == nil {
			return
		}
		amt, ok := rule.Revenue(rec, store)
		if !ok || math.IsNaN(amt) || math.IsInf(amt, 0) {
			return
		}
		res.Revenue = res.Revenue.Add(decimal.NewFromFloat(amt))
	}

	exclude := func(rec record.Record, why string) {
		res.Excluded++
		res.Outcomes = append(res.Outcomes, report.Outcome{
			RecordID: rec.ID,
			Class:    report.Excluded,
			Impact:   decimal.Zero,
			Note:     why,
		})
		accrue(rec)
	}

	for _, kind := range rule.Kinds {
		for _, rec := range store.ByKind(kind) {
			cls, err := rule.Classify(rec, store)
			if err != nil {
				var fe *record.FieldError
				if errors.As(err, &fe) {
					exclude(rec, fe.Error())
					continue
				}
				return res, &ContractError{UseCase: rule.Name, RecordID: rec.ID, Reason: "classify: " + err.Error()}
			}

			switch cls {
			case report.NotApplicable:
				// outside both counts

			case report.Healthy:
				res.Healthy++
				res.Outcomes = append(res.Outcomes, report.Outcome{
					RecordID: rec.ID,
					Class:    report.Healthy,
					Impact:   decimal.Zero,
				})
				accrue(rec)

			case report.Leakage:
				impact := 0.0
				if rule.Impact != nil {
					impact, err = rule.Impact(rec, store)
					if err != nil {
						var fe *record.FieldError
						if errors.As(err, &fe) {
							exclude(rec, fe.Error())
							continue
						}
						return res, &ContractError{UseCase: rule.Name, RecordID: rec.ID, Reason: "impact: " + err.Error()}
					}
				}
				if math.IsNaN(impact) || math.IsInf(impact, 0) {
					return res, &ContractError{UseCase: rule.Name, RecordID: rec.ID, Reason: "non-finite impact"}
				}
				if impact < 0 {
					return res, &ContractError{UseCase: rule.Name, RecordID: rec.ID, Reason: fmt.Sprintf("negative impact %g", impact)}
				}
				d := decimal.NewFromFloat(impact)
				res.Leakage++
				res.TotalImpact = res.TotalImpact.Add(d)
				res.Outcomes = append(res.Outcomes, report.Outcome{
					RecordID: rec.ID,
					Class:    report.Leakage,
					Impact:   d,
				})
				accrue(rec)

			default:
				return res, &ContractError{UseCase: rule.Name, RecordID: rec.ID, Reason: fmt.Sprintf("invalid classification %q", cls)}
			}
		}
	}
	return res, nil
}
