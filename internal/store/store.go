// Package store implements the Record Store: uniform CRUD, filtered reads,
// query and search over the portal's five fixed collections, backed by one
// of two drivers (MongoDB or a local file fallback) chosen at startup.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/icct-edu/campus-events/internal/core/ports"
)

// Store is the single data-access layer every component reads and writes
// through. It holds exactly one Driver and never branches on backend.
type Store struct {
	driver Driver
	log    zerolog.Logger
}

// New builds the store on the given driver and seeds sample content when the
// events or users collections are empty.
func New(ctx context.Context, driver Driver, log zerolog.Logger) (*Store, error) {
	s := &Store{driver: driver, log: log}
	if err := s.seed(ctx); err != nil {
		// Seeding is best-effort, matching the rest of the write policy.
		log.Warn().Err(err).Msg("sample data initialization skipped")
	}
	return s, nil
}

// Backend names the active driver.
func (s *Store) Backend() string { return s.driver.Name() }

// GenerateID returns a unique record id.
func (s *Store) GenerateID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("id_%d_%s", time.Now().UnixMilli(), suffix)
}

// Create inserts rec, assigning an id when absent and stamping
// createdAt/updatedAt. A backend failure is swallowed: the record comes back
// tagged degraded instead of an error, so callers must check ports.Degraded.
func (s *Store) Create(ctx context.Context, collection string, rec ports.Record) (ports.Record, error) {
	out := cloneRecord(rec)
	if _, ok := out["id"].(string); !ok || out["id"] == "" {
		out["id"] = s.GenerateID()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	out["createdAt"] = now
	out["updatedAt"] = now

	if err := s.driver.Insert(ctx, collection, out); err != nil {
		s.log.Error().Err(err).Str("collection", collection).Msg("create failed, returning degraded record")
		out["_degraded"] = true
		return out, nil
	}
	return out, nil
}

// Read returns the record or domain.ErrNotFound.
func (s *Store) Read(ctx context.Context, collection, id string) (ports.Record, error) {
	return s.driver.Get(ctx, collection, id)
}

// ReadAll returns every record matching the multi-field equality filter
// (all records when filter is empty).
func (s *Store) ReadAll(ctx context.Context, collection string, filter map[string]any) ([]ports.Record, error) {
	return s.driver.List(ctx, collection, filter)
}

// Update merges partial into the stored record and refreshes updatedAt.
// Absent ids surface domain.ErrNotFound; backend write failures degrade.
func (s *Store) Update(ctx context.Context, collection, id string, partial ports.Record) (ports.Record, error) {
	existing, err := s.driver.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}

	merged := cloneRecord(existing)
	for k, v := range partial {
		merged[k] = v
	}
	merged["id"] = id
	merged["updatedAt"] = time.Now().UTC().Format(time.RFC3339)

	if err := s.driver.Replace(ctx, collection, id, merged); err != nil {
		s.log.Error().Err(err).Str("collection", collection).Str("id", id).Msg("update failed, returning degraded record")
		merged["_degraded"] = true
		return merged, nil
	}
	return merged, nil
}

// Delete removes the record, reporting whether anything was deleted.
func (s *Store) Delete(ctx context.Context, collection, id string) (bool, error) {
	return s.driver.Delete(ctx, collection, id)
}

// Count returns the number of records matching filter.
func (s *Store) Count(ctx context.Context, collection string, filter map[string]any) (int, error) {
	recs, err := s.driver.List(ctx, collection, filter)
	if err != nil {
		return 0, err
	}
	return len(recs), nil
}

// Query evaluates per-field comparison conditions in memory, identically on
// either backend.
func (s *Store) Query(ctx context.Context, collection string, conditions map[string]ports.Condition) ([]ports.Record, error) {
	recs, err := s.driver.List(ctx, collection, nil)
	if err != nil {
		return nil, err
	}
	matched := make([]ports.Record, 0, len(recs))
	for _, rec := range recs {
		if matchConditions(rec, conditions) {
			matched = append(matched, rec)
		}
	}
	return matched, nil
}

// Search returns records where term appears case-insensitively in any of the
// named fields. An empty term or field list returns everything.
func (s *Store) Search(ctx context.Context, collection, term string, fields []string) ([]ports.Record, error) {
	recs, err := s.driver.List(ctx, collection, nil)
	if err != nil {
		return nil, err
	}
	if term == "" || len(fields) == 0 {
		return recs, nil
	}
	matched := make([]ports.Record, 0, len(recs))
	for _, rec := range recs {
		if matchSearch(rec, term, fields) {
			matched = append(matched, rec)
		}
	}
	return matched, nil
}

func cloneRecord(rec ports.Record) ports.Record {
	out := make(ports.Record, len(rec)+3)
	for k, v := range rec {
		out[k] = v
	}
	return out
}
