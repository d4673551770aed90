// Package session holds the device's current actor: a student snapshot or
// the admin flag, never both.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/icct-edu/campus-events/internal/core/domain"
	"github.com/icct-edu/campus-events/internal/keyval"
)

// Manager enforces the session exclusivity invariant on every read and
// mutation. The stored user is a login-time snapshot and is not
// re-synchronized with later user edits until the next login.
type Manager struct {
	kv  keyval.KV
	log zerolog.Logger
}

// New builds the manager and repairs an inconsistent stored state: when both
// session keys are present, the admin flag is authoritative and the student
// snapshot is purged.
func New(ctx context.Context, kv keyval.KV, log zerolog.Logger) (*Manager, error) {
	m := &Manager{kv: kv, log: log}

	admin, _, err := kv.Get(ctx, keyval.KeyIsAdmin)
	if err != nil {
		return nil, fmt.Errorf("session init: %w", err)
	}
	if admin == "true" {
		if _, ok, _ := kv.Get(ctx, keyval.KeyCurrentUser); ok {
			log.Warn().Msg("student session present alongside admin flag, purging student data")
			if err := kv.Delete(ctx, keyval.KeyCurrentUser); err != nil {
				return nil, fmt.Errorf("session init: %w", err)
			}
		}
	}
	return m, nil
}

// Login stores the user snapshot and clears the admin flag.
func (m *Manager) Login(ctx context.Context, user domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session login: %w", err)
	}
	if err := m.kv.Set(ctx, keyval.KeyCurrentUser, string(raw)); err != nil {
		return fmt.Errorf("session login: %w", err)
	}
	if err := m.kv.Delete(ctx, keyval.KeyIsAdmin); err != nil {
		return fmt.Errorf("session login: %w", err)
	}
	m.log.Info().Str("user", user.ID).Msg("student session started")
	return nil
}

// LoginAdmin sets the admin flag and purges any student snapshot.
func (m *Manager) LoginAdmin(ctx context.Context) error {
	if err := m.kv.Delete(ctx, keyval.KeyCurrentUser); err != nil {
		return fmt.Errorf("session admin login: %w", err)
	}
	if err := m.kv.Set(ctx, keyval.KeyIsAdmin, "true"); err != nil {
		return fmt.Errorf("session admin login: %w", err)
	}
	m.log.Info().Msg("admin session started")
	return nil
}

// Logout clears both session keys.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.kv.Delete(ctx, keyval.KeyCurrentUser); err != nil {
		return fmt.Errorf("session logout: %w", err)
	}
	if err := m.kv.Delete(ctx, keyval.KeyIsAdmin); err != nil {
		return fmt.Errorf("session logout: %w", err)
	}
	return nil
}

// CurrentUser returns the stored student snapshot, or nil when no student is
// logged in. An admin session never exposes a current user; if both keys
// are somehow present the student snapshot is purged here as well.
func (m *Manager) CurrentUser(ctx context.Context) (*domain.User, error) {
	if m.adminFlagSet(ctx) {
		if _, ok, _ := m.kv.Get(ctx, keyval.KeyCurrentUser); ok {
			_ = m.kv.Delete(ctx, keyval.KeyCurrentUser)
		}
		return nil, nil
	}

	raw, ok, err := m.kv.Get(ctx, keyval.KeyCurrentUser)
	if err != nil {
		return nil, fmt.Errorf("session read: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		m.log.Warn().Err(err).Msg("corrupt session snapshot, clearing")
		_ = m.kv.Delete(ctx, keyval.KeyCurrentUser)
		return nil, nil
	}
	return &user, nil
}

// IsLoggedIn reports whether a student session is active.
func (m *Manager) IsLoggedIn(ctx context.Context) bool {
	user, err := m.CurrentUser(ctx)
	return err == nil && user != nil
}

// IsAdmin reports whether the admin flag is set.
func (m *Manager) IsAdmin(ctx context.Context) bool {
	return m.adminFlagSet(ctx)
}

func (m *Manager) adminFlagSet(ctx context.Context) bool {
	val, ok, err := m.kv.Get(ctx, keyval.KeyIsAdmin)
	return err == nil && ok && val == "true"
}
