package refresh

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/icct-edu/campus-events/internal/keyval"
)

var discardLogger = zerolog.Nop()

type memKV struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string]string)}
}

func (m *memKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

type countingHook struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (h *countingHook) hook(context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls++
	return h.err
}

func (h *countingHook) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls
}

func TestCoordinator_RefreshAllInvokesHooks(t *testing.T) {
	c := New(time.Hour, NewLocalNotifier(), newMemKV(), discardLogger)

	a := &countingHook{}
	b := &countingHook{}
	c.Register("catalog", a.hook)
	c.Register("dashboard", b.hook)

	c.RefreshAll(context.Background())
	if a.count() != 1 || b.count() != 1 {
		t.Fatalf("expected both hooks invoked, got %d/%d", a.count(), b.count())
	}
}

func TestCoordinator_HookErrorDoesNotAbortPass(t *testing.T) {
	c := New(time.Hour, NewLocalNotifier(), newMemKV(), discardLogger)

	failing := &countingHook{err: fmt.Errorf("load failed")}
	healthy := &countingHook{}
	c.Register("broken", failing.hook)
	c.Register("healthy", healthy.hook)

	c.RefreshAll(context.Background())
	if healthy.count() != 1 {
		t.Fatalf("later hooks must still run after a failure")
	}
}

func TestCoordinator_RegisterReplacesByName(t *testing.T) {
	c := New(time.Hour, NewLocalNotifier(), newMemKV(), discardLogger)

	old := &countingHook{}
	replacement := &countingHook{}
	c.Register("catalog", old.hook)
	c.Register("catalog", replacement.hook)

	c.RefreshAll(context.Background())
	if old.count() != 0 {
		t.Fatalf("replaced hook must not run")
	}
	if replacement.count() != 1 {
		t.Fatalf("replacement hook must run")
	}
}

func TestCoordinator_Deregister(t *testing.T) {
	c := New(time.Hour, NewLocalNotifier(), newMemKV(), discardLogger)

	h := &countingHook{}
	c.Register("catalog", h.hook)
	c.Deregister("catalog")
	c.Deregister("never-registered") // no-op

	c.RefreshAll(context.Background())
	if h.count() != 0 {
		t.Fatalf("deregistered hook must not run")
	}
}

func TestCoordinator_TriggerSetsMarkerAndRefreshes(t *testing.T) {
	kv := newMemKV()
	c := New(time.Hour, NewLocalNotifier(), kv, discardLogger)

	h := &countingHook{}
	c.Register("catalog", h.hook)

	c.Trigger(context.Background())
	if h.count() != 1 {
		t.Fatalf("trigger must refresh immediately")
	}
	if _, ok, _ := kv.Get(context.Background(), keyval.KeyEventsUpdated); !ok {
		t.Fatalf("trigger must record the change marker")
	}
}

func TestCoordinator_NotificationDrivesRefresh(t *testing.T) {
	notifier := NewLocalNotifier()
	c := New(time.Hour, notifier, newMemKV(), discardLogger)

	h := &countingHook{}
	c.Register("catalog", h.hook)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Start(ctx)

	if err := notifier.Publish(context.Background()); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for h.count() == 0 {
		select {
		case <-deadline:
			t.Fatalf("notification never reached the hooks")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestCoordinator_TickerDrivesRefresh(t *testing.T) {
	c := New(20*time.Millisecond, NewLocalNotifier(), newMemKV(), discardLogger)

	h := &countingHook{}
	c.Register("catalog", h.hook)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Start(ctx)

	deadline := time.After(2 * time.Second)
	for h.count() == 0 {
		select {
		case <-deadline:
			t.Fatalf("timer never fired a refresh")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestLocalNotifier_CoalescesPublishes(t *testing.T) {
	n := NewLocalNotifier()

	for i := 0; i < 5; i++ {
		if err := n.Publish(context.Background()); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}

	select {
	case <-n.C():
	default:
		t.Fatalf("expected a pending signal")
	}
	select {
	case <-n.C():
		t.Fatalf("publishes must coalesce into one pending signal")
	default:
	}
}
