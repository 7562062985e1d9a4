package record

import (
	"fmt"
	"time"
)

// Store is the immutable record snapshot for one analysis run. Rules
// receive it read-only; nothing is added or changed after NewStore.
type Store struct {
	asOf   time.Time
	byKind map[Kind][]Record
	byID   map[string]Record
}

// NewStore builds a snapshot from loaded records. Load order is
// preserved per kind and is the order rules iterate in. The same ID
// appearing twice is tolerated only when the field values agree;
// a conflicting duplicate violates the record-source contract.
func NewStore(asOf time.Time, recs []Record) (*Store, error) {
	s := &Store{
		asOf:   asOf,
		byKind: make(map[Kind][]Record),
		byID:   make(map[string]Record, len(recs)),
	}
	for _, r := range recs {
		if r.ID == "" {
			return nil, fmt.Errorf("record of kind %s has no ID", r.Kind)
		}
		if prev, ok := s.byID[r.ID]; ok {
			if !sameFields(prev, r) {
				return nil, fmt.Errorf("record %q appears twice with conflicting field values", r.ID)
			}
			continue
		}
		s.byID[r.ID] = r
		s.byKind[r.Kind] = append(s.byKind[r.Kind], r)
	}
	return s, nil
}

// AsOf is the snapshot date every date comparison in a rule is made
// against. Rules must not consult the wall clock.
func (s *Store) AsOf() time.Time { return s.asOf }

// ByKind returns the records of one kind in load order.
func (s *Store) ByKind(k Kind) []Record { return s.byKind[k] }

// Get looks a record up by ID across all kinds.
func (s *Store) Get(id string) (Record, bool) {
	r, ok := s.byID[id]
	return r, ok
}

// Related follows a relation from rec to the record it points at.
func (s *Store) Related(rec Record, relation string) (Record, bool) {
	id, ok := rec.Ref(relation)
	if !ok {
		return Record{}, false
	}
	return s.Get(id)
}

// Len is the total record count across kinds.
func (s *Store) Len() int { return len(s.byID) }

func sameFields(a, b Record) bool {
	if a.Kind != b.Kind || len(a.Fields) != len(b.Fields) {
		return false
	}
	for name, av := range a.Fields {
		bv, ok := b.Fields[name]
		if !ok || !av.Equal(bv) {
			return false
		}
	}
	return true
}
