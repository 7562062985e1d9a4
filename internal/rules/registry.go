package rules

import "strings"

// Registry is the ordered rule collection for one process. Category
// order is the order categories were declared; insertion order is
// preserved within a category. Built once at startup, read-only after.
type Registry struct {
	categories []string
	catIndex   map[string]int
	byCat      map[string][]Rule
	names      map[string]map[string]struct{} // category -> use-case names
}

// NewRegistry declares the category order. Rules can only be registered
// under a declared category.
func NewRegistry(categories []string) *Registry {
	r := &Registry{
		catIndex: make(map[string]int, len(categories)),
		byCat:    make(map[string][]Rule, len(categories)),
		names:    make(map[string]map[string]struct{}, len(categories)),
	}
	for _, c := range categories {
		if _, dup := r.catIndex[c]; dup {
			continue
		}
		r.catIndex[c] = len(r.categories)
		r.categories = append(r.categories, c)
		r.names[c] = map[string]struct{}{}
	}
	return r
}

// Register adds a rule under its category. Duplicate use-case names
// within a category, or a category that was never declared, are
// configuration errors.
func (r *Registry) Register(rule Rule) error {
	name := strings.TrimSpace(rule.Name)
	if name == "" {
		return &ConfigError{Category: rule.Category, Reason: "empty use-case name"}
	}
	if rule.Classify == nil {
		return &ConfigError{UseCase: name, Category: rule.Category, Reason: "no classification function"}
	}
	if _, ok := r.catIndex[rule.Category]; !ok {
		return &ConfigError{UseCase: name, Category: rule.Category, Reason: "category not registered"}
	}
	if _, dup := r.names[rule.Category][name]; dup {
		return &ConfigError{UseCase: name, Category: rule.Category, Reason: "duplicate use-case name"}
	}
	r.names[rule.Category][name] = struct{}{}
	r.byCat[rule.Category] = append(r.byCat[rule.Category], rule)
	return nil
}

// Rules returns every registered rule grouped by category, category
// order first, insertion order within.
func (r *Registry) Rules() []Rule {
	var out []Rule
	for _, c := range r.categories {
		out = append(out, r.byCat[c]...)
	}
	return out
}

// Categories returns the declared category order.
func (r *Registry) Categories() []string {
	out := make([]string, len(r.categories))
	copy(out, r.categories)
	return out
}

// HasCategory reports whether a category was declared.
func (r *Registry) HasCategory(name string) bool {
	_, ok := r.catIndex[name]
	return ok
}

// Get returns a registered rule by use-case name.
func (r *Registry) Get(useCase string) (Rule, bool) {
	for _, c := range r.categories {
		for _, rule := range r.byCat[c] {
			if strings.EqualFold(rule.Name, useCase) {
				return rule, true
			}
		}
	}
	return Rule{}, false
}

// Len is the number of registered rules.
func (r *Registry) Len() int {
	n := 0
	for _, c := range r.categories {
		n += len(r.byCat[c])
	}
	return n
}

// builtin collects the rules the rule_*.go files register in init().
var builtin []Rule

func registerBuiltin(r Rule) {
	builtin = append(builtin, r)
}

// RegistryConfig is the startup configuration surface for rule
// assembly: category order, optional use-case-to-category reassignment
// and the disabled set.
type RegistryConfig struct {
	Categories  []string
	Assignments map[string]string
	Disabled    map[string]bool
}

// BuildRegistry assembles the built-in rule set under the configured
// category order. An assignment moves a use case to another declared
// category; disabled use cases are skipped.
func BuildRegistry(cfg RegistryConfig) (*Registry, error) {
	cats := cfg.Categories
	if len(cats) == 0 {
		cats = DefaultCategories
	}
	reg := NewRegistry(cats)
	for _, rule := range builtin {
		if cfg.Disabled[rule.Name] || rsettings.Disabled[rule.Name] {
			continue
		}
		if cat, ok := cfg.Assignments[rule.Name]; ok {
			rule.Category = cat
		}
		if err := reg.Register(rule); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// DefaultRegistry assembles the built-in rule set under the default
// category order.
func DefaultRegistry() (*Registry, error) {
	return BuildRegistry(RegistryConfig{})
}
