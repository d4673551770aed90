package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/icct-edu/campus-events/internal/core/domain"
	"github.com/icct-edu/campus-events/internal/core/ports"
)

// localDriver is the fallback backend: one JSON file per collection
// (icct_<collection>.json) under the data directory, each holding the
// serialized record list.
type localDriver struct {
	mu  sync.Mutex
	dir string
}

// NewLocalDriver creates the file-backed fallback driver rooted at dir.
func NewLocalDriver(dir string) (Driver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("local store dir: %w", err)
	}
	return &localDriver{dir: dir}, nil
}

func (d *localDriver) Name() string { return "local" }

func (d *localDriver) Insert(_ context.Context, collection string, rec ports.Record) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	recs, err := d.load(collection)
	if err != nil {
		return err
	}
	recs = append(recs, rec)
	return d.save(collection, recs)
}

func (d *localDriver) Get(_ context.Context, collection, id string) (ports.Record, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	recs, err := d.load(collection)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if rec["id"] == id {
			return rec, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (d *localDriver) List(_ context.Context, collection string, filter map[string]any) ([]ports.Record, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	recs, err := d.load(collection)
	if err != nil {
		return nil, err
	}
	if len(filter) == 0 {
		return recs, nil
	}
	matched := make([]ports.Record, 0, len(recs))
	for _, rec := range recs {
		if matchEquality(rec, filter) {
			matched = append(matched, rec)
		}
	}
	return matched, nil
}

func (d *localDriver) Replace(_ context.Context, collection, id string, rec ports.Record) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	recs, err := d.load(collection)
	if err != nil {
		return err
	}
	for i := range recs {
		if recs[i]["id"] == id {
			recs[i] = rec
			return d.save(collection, recs)
		}
	}
	return domain.ErrNotFound
}

func (d *localDriver) Delete(_ context.Context, collection, id string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	recs, err := d.load(collection)
	if err != nil {
		return false, err
	}
	kept := recs[:0]
	for _, rec := range recs {
		if rec["id"] != id {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(recs) {
		return false, nil
	}
	if err := d.save(collection, kept); err != nil {
		return false, err
	}
	return true, nil
}

func (d *localDriver) path(collection string) string {
	return filepath.Join(d.dir, "icct_"+collection+".json")
}

func (d *localDriver) load(collection string) ([]ports.Record, error) {
	raw, err := os.ReadFile(d.path(collection))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("local store read %s: %w", collection, err)
	}
	var recs []ports.Record
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, fmt.Errorf("local store decode %s: %w", collection, err)
	}
	return recs, nil
}

func (d *localDriver) save(collection string, recs []ports.Record) error {
	if recs == nil {
		recs = []ports.Record{}
	}
	raw, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("local store encode %s: %w", collection, err)
	}
	if err := os.WriteFile(d.path(collection), raw, 0o644); err != nil {
		return fmt.Errorf("local store write %s: %w", collection, err)
	}
	return nil
}
