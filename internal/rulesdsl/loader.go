// Package rulesdsl loads declarative YAML rule packs and registers
// them alongside the built-in use cases. A pack rule names one record
// kind, an applicability filter and a leakage filter over its fields;
// impact is a fixed amount or sourced from a field.
package rulesdsl

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/record"
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/report"
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/rules"
)

type dslPack struct {
	Rules []dslRule `yaml:"rules"`
}

type dslRule struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Summary  string `yaml:"summary"`
	Kind     string `yaml:"kind"`

	// When gates applicability; a record failing any condition is
	// NotApplicable. Leak then decides Leakage vs Healthy.
	When []dslCond `yaml:"when"`
	Leak []dslCond `yaml:"leak"`

	Impact struct {
		Field string  `yaml:"field"` // impact read from this number field
		Fixed float64 `yaml:"fixed"` // used when Field is empty
	} `yaml:"impact"`

	Revenue struct {
		Field string `yaml:"field"`
	} `yaml:"revenue"`
}

type dslCond struct {
	Field string `yaml:"field"`
	Op    string `yaml:"op"` // eq ne gt gte lt lte absent present in
	Value any    `yaml:"value"`
	In    []any  `yaml:"in"`
}

// LoadAndRegister reads one pack file and registers its rules.
// Returns the number registered.
func LoadAndRegister(path string, reg *rules.Registry) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read rules pack: %w", err)
	}
	var pack dslPack
	if err := yaml.Unmarshal(b, &pack); err != nil {
		return 0, fmt.Errorf("parse yaml: %w", err)
	}
	var n int
	for _, r := range pack.Rules {
		rule, err := compile(r)
		if err != nil {
			return n, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		if err := reg.Register(rule); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func compile(r dslRule) (rules.Rule, error) {
	if r.Name == "" || r.Category == "" || r.Kind == "" {
		return rules.Rule{}, fmt.Errorf("missing required fields (name/category/kind)")
	}
	kind, err := record.ParseKind(r.Kind)
	if err != nil {
		return rules.Rule{}, err
	}
	if len(r.Leak) == 0 {
		return rules.Rule{}, fmt.Errorf("no leak conditions")
	}
	for _, c := range append(append([]dslCond{}, r.When...), r.Leak...) {
		if err := checkCond(c); err != nil {
			return rules.Rule{}, err
		}
	}

	when, leak, impact, revField := r.When, r.Leak, r.Impact, r.Revenue.Field
	rule := rules.Rule{
		Name:     r.Name,
		Category: r.Category,
		Summary:  r.Summary,
		Kinds:    []record.Kind{kind},
		Classify: func(rec record.Record, _ *record.Store) (report.Classification, error) {
			for _, c := range when {
				ok, err := match(rec, c)
				if err != nil {
					return "", err
				}
				if !ok {
					return report.NotApplicable, nil
				}
			}
			for _, c := range leak {
				ok, err := match(rec, c)
				if err != nil {
					return "", err
				}
				if !ok {
					return report.Healthy, nil
				}
			}
			return report.Leakage, nil
		},
		Impact: func(rec record.Record, _ *record.Store) (float64, error) {
			if impact.Field != "" {
				return rec.Number(impact.Field)
			}
			return impact.Fixed, nil
		},
	}
	if revField != "" {
		rule.Revenue = func(rec record.Record, _ *record.Store) (float64, bool) {
			v, ok := rec.Lookup(revField)
			if !ok {
				return 0, false
			}
			n, ok := v.Number()
			return n, ok
		}
	}
	return rule, nil
}

func checkCond(c dslCond) error {
	if c.Field == "" {
		return fmt.Errorf("condition has no field")
	}
	switch strings.ToLower(c.Op) {
	case "eq", "ne", "gt", "gte", "lt", "lte":
		if c.Value == nil {
			return fmt.Errorf("condition %s %s has no value", c.Field, c.Op)
		}
	case "absent", "present":
	case "in":
		if len(c.In) == 0 {
			return fmt.Errorf("condition %s in has no values", c.Field)
		}
	default:
		return fmt.Errorf("unknown operator %q", c.Op)
	}
	return nil
}

// match evaluates one condition against a record field. A typed
// comparison against a missing or differently-typed field is false,
// not a data-quality error: pack authors filter, they do not validate.
func match(rec record.Record, c dslCond) (bool, error) {
	v, present := rec.Lookup(c.Field)
	switch strings.ToLower(c.Op) {
	case "absent":
		return !present, nil
	case "present":
		return present, nil
	}
	if !present {
		return false, nil
	}
	switch strings.ToLower(c.Op) {
	case "eq":
		return valueEq(v, c.Value), nil
	case "ne":
		return !valueEq(v, c.Value), nil
	case "gt", "gte", "lt", "lte":
		n, ok := v.Number()
		if !ok {
			return false, nil
		}
		want, ok := toFloat(c.Value)
		if !ok {
			return false, fmt.Errorf("condition %s %s: value %v is not numeric", c.Field, c.Op, c.Value)
		}
		switch strings.ToLower(c.Op) {
		case "gt":
			return n > want, nil
		case "gte":
			return n >= want, nil
		case "lt":
			return n < want, nil
		default:
			return n <= want, nil
		}
	case "in":
		for _, cand := range c.In {
			if valueEq(v, cand) {
				return true, nil
			}
		}
		return false, nil
	}
	return false, fmt.Errorf("unknown operator %q", c.Op)
}

func valueEq(v record.Value, want any) bool {
	switch w := want.(type) {
	case string:
		s, ok := v.Text()
		return ok && strings.EqualFold(s, w)
	case bool:
		b, ok := v.Bool()
		return ok && b == w
	default:
		f, ok := toFloat(want)
		if !ok {
			return false
		}
		n, ok2 := v.Number()
		return ok2 && n == f
	}
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}
