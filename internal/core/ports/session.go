package ports

import (
	"context"

	"github.com/icct-edu/campus-events/internal/core/domain"
)

// Session holds the device's current actor. A student session and the admin
// flag are mutually exclusive: setting one clears the other, and every read
// re-checks the invariant.
type Session interface {
	Login(ctx context.Context, user domain.User) error
	LoginAdmin(ctx context.Context) error
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*domain.User, error)
	IsLoggedIn(ctx context.Context) bool
	IsAdmin(ctx context.Context) bool
}
