package rules

import "fmt"

// ConfigError is a registry misconfiguration: a duplicate use-case name
// within a category or a category that was never declared. Fatal at
// startup, before any evaluation.
type ConfigError struct {
	UseCase  string
	Category string
	Reason   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("rule config: use case %q in category %q: %s", e.UseCase, e.Category, e.Reason)
}

// ContractError is a defect in rule authoring: an invalid classification
// value or a negative or non-finite impact. It aborts the run whole; a
// faithful leakage estimate can never be negative.
type ContractError struct {
	UseCase  string
	RecordID string
	Reason   string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("rule contract: use case %q, record %q: %s", e.UseCase, e.RecordID, e.Reason)
}
