// Package source loads record snapshots from disk. A snapshot
// directory holds one JSON file per record kind; this is the on-disk
// contract a CRM export job must produce.
package source

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MaitreyaGenesis/Revenue-Integrity-Engine/internal/record"
)

type Diagnostics struct {
	Warnings []string
}

// Snapshot is the decoded content of one directory.
type Snapshot struct {
	Store    *record.Store
	Currency string
	Source   string
}

type snapshotFile struct {
	Kind     string         `json:"kind"`
	AsOf     string         `json:"as_of"`
	Currency string         `json:"currency,omitempty"`
	Records  []snapshotItem `json:"records"`
}

type snapshotItem struct {
	ID     string            `json:"id"`
	Fields map[string]any    `json:"fields"`
	Refs   map[string]string `json:"refs,omitempty"`
}

// Load walks dir for *.json snapshot files and assembles the store.
// All files must agree on the as_of date; currency is taken from the
// first file that declares one. Unreadable or off-contract files are
// errors, not warnings: a partial snapshot would silently shrink the
// applicable population.
func Load(dir string) (Snapshot, Diagnostics, error) {
	diags := Diagnostics{}
	snap := Snapshot{Source: filepath.Clean(dir)}

	var paths []string
	err := filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".json") {
			return nil
		}
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return Snapshot{}, diags, err
	}
	if len(paths) == 0 {
		diags.Warnings = append(diags.Warnings, "no snapshot files found")
	}

	var (
		recs  []record.Record
		asOf  time.Time
		haveT bool
	)
	for _, p := range paths {
		f, err := parseFile(p)
		if err != nil {
			return Snapshot{}, diags, fmt.Errorf("snapshot %s: %w", filepath.Base(p), err)
		}
		kind, err := record.ParseKind(f.Kind)
		if err != nil {
			return Snapshot{}, diags, fmt.Errorf("snapshot %s: %w", filepath.Base(p), err)
		}
		t, err := time.Parse("2006-01-02", f.AsOf)
		if err != nil {
			return Snapshot{}, diags, fmt.Errorf("snapshot %s: bad as_of %q", filepath.Base(p), f.AsOf)
		}
		if haveT && !t.Equal(asOf) {
			return Snapshot{}, diags, fmt.Errorf("snapshot %s: as_of %s disagrees with %s",
				filepath.Base(p), f.AsOf, asOf.Format("2006-01-02"))
		}
		asOf, haveT = t, true
		if snap.Currency == "" {
			snap.Currency = f.Currency
		}

		for _, item := range f.Records {
			rec, err := decodeRecord(kind, item)
			if err != nil {
				return Snapshot{}, diags, fmt.Errorf("snapshot %s: %w", filepath.Base(p), err)
			}
			recs = append(recs, rec)
		}
	}

	if !haveT {
		return Snapshot{}, diags, fmt.Errorf("snapshot %s: no as_of date declared", dir)
	}
	store, err := record.NewStore(asOf, recs)
	if err != nil {
		return Snapshot{}, diags, err
	}
	snap.Store = store
	return snap, diags, nil
}

func parseFile(p string) (snapshotFile, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		return snapshotFile{}, err
	}
	var f snapshotFile
	if err := json.Unmarshal(b, &f); err != nil {
		return snapshotFile{}, err
	}
	return f, nil
}

func decodeRecord(kind record.Kind, item snapshotItem) (record.Record, error) {
	if item.ID == "" {
		return record.Record{}, fmt.Errorf("record of kind %s has no id", kind)
	}
	rec := record.Record{
		ID:     item.ID,
		Kind:   kind,
		Fields: make(map[string]record.Value, len(item.Fields)),
		Refs:   item.Refs,
	}
	for name, raw := range item.Fields {
		if raw == nil {
			// a JSON null drops the field so absence checks see it as missing
			continue
		}
		v, err := decodeValue(raw)
		if err != nil {
			return record.Record{}, fmt.Errorf("record %s field %s: %w", item.ID, name, err)
		}
		rec.Fields[name] = v
	}
	return rec, nil
}

// decodeValue maps a JSON value to the typed field model. Strings in
// YYYY-MM-DD form are dates.
func decodeValue(raw any) (record.Value, error) {
	switch x := raw.(type) {
	case float64:
		return record.NumberValue(x), nil
	case bool:
		return record.BoolValue(x), nil
	case string:
		if t, err := time.Parse("2006-01-02", x); err == nil {
			return record.DateValue(t), nil
		}
		return record.StringValue(x), nil
	default:
		return record.Value{}, fmt.Errorf("unsupported value %v (%T)", raw, raw)
	}
}
