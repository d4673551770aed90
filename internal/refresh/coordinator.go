// Package refresh keeps the mounted components eventually consistent: one
// timer plus one change-notification subscription drive every registered
// refresh hook, replacing per-component polling loops.
package refresh

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/icct-edu/campus-events/internal/api/metrics"
	"github.com/icct-edu/campus-events/internal/keyval"
)

const defaultInterval = 15 * time.Second

// Hook is a component's public refresh entry point. Hooks must tolerate
// being invoked when their component has no rendered state yet.
type Hook func(ctx context.Context) error

type namedHook struct {
	name string
	hook Hook
}

// Coordinator owns the polling timer and the change listener. Components
// register a hook while mounted and deregister on unmount; absence is
// structural, not a runtime nil-check.
type Coordinator struct {
	mu       sync.Mutex
	hooks    []namedHook
	interval time.Duration
	notifier Notifier
	kv       keyval.KV
	log      zerolog.Logger

	// running guards against overlapping passes when a tick fires while a
	// slow pass is still in flight.
	running sync.Mutex
}

// New builds a Coordinator. interval <= 0 selects the default 15s.
func New(interval time.Duration, notifier Notifier, kv keyval.KV, log zerolog.Logger) *Coordinator {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Coordinator{
		interval: interval,
		notifier: notifier,
		kv:       kv,
		log:      log,
	}
}

// Register adds (or replaces) a named refresh hook.
func (c *Coordinator) Register(name string, hook Hook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.hooks {
		if c.hooks[i].name == name {
			c.hooks[i].hook = hook
			return
		}
	}
	c.hooks = append(c.hooks, namedHook{name: name, hook: hook})
}

// Deregister removes a hook; unknown names are a no-op.
func (c *Coordinator) Deregister(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.hooks {
		if c.hooks[i].name == name {
			c.hooks = append(c.hooks[:i], c.hooks[i+1:]...)
			return
		}
	}
}

// Start runs the polling loop and change listener until ctx is cancelled.
func (c *Coordinator) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				metrics.RefreshTicksTotal.WithLabelValues("timer").Inc()
				c.RefreshAll(ctx)
			case _, ok := <-c.notifier.C():
				if !ok {
					return
				}
				metrics.RefreshTicksTotal.WithLabelValues("notification").Inc()
				c.RefreshAll(ctx)
			}
		}
	}()
}

// RefreshAll invokes every registered hook in registration order. A hook
// error is logged and counted, never fatal to the pass. Overlapping passes
// are skipped rather than stacked.
func (c *Coordinator) RefreshAll(ctx context.Context) {
	if !c.running.TryLock() {
		c.log.Debug().Msg("refresh pass already in flight, skipping")
		return
	}
	defer c.running.Unlock()

	c.mu.Lock()
	hooks := make([]namedHook, len(c.hooks))
	copy(hooks, c.hooks)
	c.mu.Unlock()

	for _, h := range hooks {
		if err := h.hook(ctx); err != nil {
			metrics.RefreshErrorsTotal.WithLabelValues(h.name).Inc()
			c.log.Warn().Err(err).Str("component", h.name).Msg("refresh hook failed")
		}
	}
}

// Trigger records the events-changed marker and notifies every process,
// then refreshes the local hooks immediately.
func (c *Coordinator) Trigger(ctx context.Context) {
	now := strconv.FormatInt(time.Now().UnixMilli(), 10)
	for _, key := range []string{keyval.KeyEventsUpdated, keyval.KeyLastUpdate} {
		if err := c.kv.Set(ctx, key, now); err != nil {
			c.log.Warn().Err(err).Msg("failed to set events-changed marker")
		}
	}
	if err := c.notifier.Publish(ctx); err != nil {
		c.log.Warn().Err(err).Msg("failed to publish change notification")
	}
	c.RefreshAll(ctx)
}

// EventsChanged satisfies the admin console's change-signaling port.
func (c *Coordinator) EventsChanged(ctx context.Context) {
	c.Trigger(ctx)
}
