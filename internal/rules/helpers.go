package rules

import (
	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/record"
)

// relatedNumber reads a numeric field off a related record, reporting a
// missing relation as a data-quality failure on the source record.
func relatedNumber(store *record.Store, rec record.Record, relation, field string) (float64, error) {
	other, ok := store.Related(rec, relation)
	if !ok {
		return 0, &record.FieldError{RecordID: rec.ID, Field: relation, Reason: "relation missing"}
	}
	return other.Number(field)
}

// fieldRevenue builds a Revenue func that reads one monetary field off
// the record itself.
func fieldRevenue(name string) func(record.Record, *record.Store) (float64, bool) {
	return func(rec record.Record, _ *record.Store) (float64, bool) {
		v, ok := rec.Lookup(name)
		if !ok {
			return 0, false
		}
		return v.Number()
	}
}

// relatedRevenue builds a Revenue func that reads a monetary field off
// a related record.
func relatedRevenue(relation, field string) func(record.Record, *record.Store) (float64, bool) {
	return func(rec record.Record, store *record.Store) (float64, bool) {
		other, ok := store.Related(rec, relation)
		if !ok {
			return 0, false
		}
		v, ok := other.Lookup(field)
		if !ok {
			return 0, false
		}
		return v.Number()
	}
}
