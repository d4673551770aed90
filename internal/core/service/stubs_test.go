package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/icct-edu/campus-events/internal/core/domain"
	"github.com/icct-edu/campus-events/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory record store
// ---------------------------------------------------------------------------

type stubStore struct {
	mu          sync.Mutex
	collections map[string]map[string]ports.Record
	seq         int
	failCreates bool
}

func newStubStore() *stubStore {
	return &stubStore{collections: make(map[string]map[string]ports.Record)}
}

func (s *stubStore) coll(name string) map[string]ports.Record {
	if s.collections[name] == nil {
		s.collections[name] = make(map[string]ports.Record)
	}
	return s.collections[name]
}

func (s *stubStore) GenerateID() string {
	s.seq++
	return fmt.Sprintf("id_%03d", s.seq)
}

func (s *stubStore) Create(_ context.Context, collection string, rec ports.Record) (ports.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := cloneStubRecord(rec)
	if id, _ := out["id"].(string); id == "" {
		out["id"] = s.GenerateID()
	}
	if s.failCreates {
		out["_degraded"] = true
		return out, nil
	}
	s.coll(collection)[out["id"].(string)] = cloneStubRecord(out)
	return out, nil
}

func (s *stubStore) Read(_ context.Context, collection, id string) (ports.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.coll(collection)[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneStubRecord(rec), nil
}

func (s *stubStore) ReadAll(_ context.Context, collection string, filter map[string]any) ([]ports.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []ports.Record
	for _, rec := range s.coll(collection) {
		if stubMatches(rec, filter) {
			out = append(out, cloneStubRecord(rec))
		}
	}
	return out, nil
}

func (s *stubStore) Update(_ context.Context, collection, id string, partial ports.Record) (ports.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.coll(collection)[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	for k, v := range partial {
		rec[k] = v
	}
	return cloneStubRecord(rec), nil
}

func (s *stubStore) Delete(_ context.Context, collection, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.coll(collection)[id]; !ok {
		return false, nil
	}
	delete(s.coll(collection), id)
	return true, nil
}

func (s *stubStore) Count(ctx context.Context, collection string, filter map[string]any) (int, error) {
	recs, err := s.ReadAll(ctx, collection, filter)
	if err != nil {
		return 0, err
	}
	return len(recs), nil
}

func (s *stubStore) Query(ctx context.Context, collection string, _ map[string]ports.Condition) ([]ports.Record, error) {
	return s.ReadAll(ctx, collection, nil)
}

func (s *stubStore) Search(ctx context.Context, collection, term string, fields []string) ([]ports.Record, error) {
	recs, err := s.ReadAll(ctx, collection, nil)
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return recs, nil
	}
	var out []ports.Record
	for _, rec := range recs {
		for _, f := range fields {
			if v, _ := rec[f].(string); strings.Contains(strings.ToLower(v), term) {
				out = append(out, rec)
				break
			}
		}
	}
	return out, nil
}

func stubMatches(rec ports.Record, filter map[string]any) bool {
	for k, want := range filter {
		if rec[k] != want {
			return false
		}
	}
	return true
}

func cloneStubRecord(rec ports.Record) ports.Record {
	out := make(ports.Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}

// mustSeed inserts a record with a fixed id, bypassing Create side effects.
func (s *stubStore) mustSeed(collection string, rec ports.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coll(collection)[rec["id"].(string)] = cloneStubRecord(rec)
}

// ---------------------------------------------------------------------------
// Session stub
// ---------------------------------------------------------------------------

type stubSession struct {
	user  *domain.User
	admin bool
}

func (s *stubSession) Login(_ context.Context, user domain.User) error {
	s.user = &user
	s.admin = false
	return nil
}

func (s *stubSession) LoginAdmin(context.Context) error {
	s.user = nil
	s.admin = true
	return nil
}

func (s *stubSession) Logout(context.Context) error {
	s.user = nil
	s.admin = false
	return nil
}

func (s *stubSession) CurrentUser(context.Context) (*domain.User, error) {
	if s.admin {
		return nil, nil
	}
	return s.user, nil
}

func (s *stubSession) IsLoggedIn(context.Context) bool { return s.user != nil && !s.admin }

func (s *stubSession) IsAdmin(context.Context) bool { return s.admin }

// ---------------------------------------------------------------------------
// Key-value stub
// ---------------------------------------------------------------------------

type stubKV struct {
	mu   sync.Mutex
	data map[string]string
}

func newStubKV() *stubKV {
	return &stubKV{data: make(map[string]string)}
}

func (s *stubKV) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *stubKV) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *stubKV) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// ---------------------------------------------------------------------------
// Change signaler stub
// ---------------------------------------------------------------------------

type stubSignaler struct {
	calls int
}

func (s *stubSignaler) EventsChanged(context.Context) { s.calls++ }

// ---------------------------------------------------------------------------
// QR encoder stub
// ---------------------------------------------------------------------------

type stubEncoder struct {
	fail bool
}

func (e *stubEncoder) Encode(payload string, _ int) ([]byte, error) {
	if e.fail {
		return nil, fmt.Errorf("encode failed")
	}
	return []byte("png:" + payload), nil
}
