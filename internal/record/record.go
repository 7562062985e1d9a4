package record

import (
	"fmt"
	"time"
)

// Kind identifies which business object a Record was extracted from.
type Kind string

const (
	KindQuote        Kind = "quote"
	KindContract     Kind = "contract"
	KindOrder        Kind = "order"
	KindSubscription Kind = "subscription"
	KindOpportunity  Kind = "opportunity"
	KindAccount      Kind = "account"
)

// Kinds lists every record kind in canonical order.
var Kinds = []Kind{KindQuote, KindContract, KindOrder, KindSubscription, KindOpportunity, KindAccount}

// ParseKind maps a snapshot kind string to a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown record kind %q", s)
}

// Record is one normalized business record. Fields hold the extracted
// attribute values; Refs hold relation name -> record ID links used by
// cross-record rules. Records are never mutated after loading.
type Record struct {
	ID     string
	Kind   Kind
	Fields map[string]Value
	Refs   map[string]string
}

// Lookup returns the raw value for a field, reporting presence. Use it
// when a missing field is a legitimate state rather than a data defect.
func (r Record) Lookup(name string) (Value, bool) {
	v, ok := r.Fields[name]
	if !ok || v.kind == nullValue {
		return Value{}, false
	}
	return v, true
}

// Number returns a numeric field, or a *FieldError when the field is
// missing or not numeric.
func (r Record) Number(name string) (float64, error) {
	v, ok := r.Lookup(name)
	if !ok {
		return 0, &FieldError{RecordID: r.ID, Field: name, Reason: "missing"}
	}
	n, ok := v.Number()
	if !ok {
		return 0, &FieldError{RecordID: r.ID, Field: name, Reason: "not a number"}
	}
	return n, nil
}

// Text returns a string field, or a *FieldError when absent or mistyped.
func (r Record) Text(name string) (string, error) {
	v, ok := r.Lookup(name)
	if !ok {
		return "", &FieldError{RecordID: r.ID, Field: name, Reason: "missing"}
	}
	s, ok := v.Text()
	if !ok {
		return "", &FieldError{RecordID: r.ID, Field: name, Reason: "not a string"}
	}
	return s, nil
}

// Flag returns a boolean field, or a *FieldError when absent or mistyped.
func (r Record) Flag(name string) (bool, error) {
	v, ok := r.Lookup(name)
	if !ok {
		return false, &FieldError{RecordID: r.ID, Field: name, Reason: "missing"}
	}
	b, ok := v.Bool()
	if !ok {
		return false, &FieldError{RecordID: r.ID, Field: name, Reason: "not a boolean"}
	}
	return b, nil
}

// Date returns a date field, or a *FieldError when absent or mistyped.
func (r Record) Date(name string) (time.Time, error) {
	v, ok := r.Lookup(name)
	if !ok {
		return time.Time{}, &FieldError{RecordID: r.ID, Field: name, Reason: "missing"}
	}
	t, ok := v.Date()
	if !ok {
		return time.Time{}, &FieldError{RecordID: r.ID, Field: name, Reason: "not a date"}
	}
	return t, nil
}

// Ref returns the record ID a relation points at, if set.
func (r Record) Ref(name string) (string, bool) {
	id, ok := r.Refs[name]
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// FieldError is the per-record data-quality failure: a classification
// needed a field the record does not carry in usable form. The engine
// recovers it by excluding the record from that rule's counts.
type FieldError struct {
	RecordID string
	Field    string
	Reason   string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("record %s: field %q %s", e.RecordID, e.Field, e.Reason)
}
