package ports

import (
	"context"

	"github.com/icct-edu/campus-events/internal/core/domain"
)

// Checkout line outcomes.
const (
	LineRegistered = "registered"
	LineSkipped    = "already_registered"
	LineFailed     = "failed"
)

// CheckoutLine reports what happened to a single cart line.
type CheckoutLine struct {
	EventID string
	Title   string
	Outcome string
}

// CheckoutResult accumulates per-line outcomes of one checkout pass.
type CheckoutResult struct {
	Registered int
	Skipped    int
	Failed     int
	Lines      []CheckoutLine
}

// CartService is the per-user pending-registration list. Lines are processed
// strictly in cart order on checkout; one line's failure does not abort the
// rest, and the cart is cleared only when at least one line succeeded.
type CartService interface {
	Items(ctx context.Context) ([]domain.CartItem, error)
	AddToCart(ctx context.Context, eventID string) (*domain.CartItem, error)
	RemoveFromCart(ctx context.Context, eventID string) error
	// ClearCart refuses without confirm (destructive operation).
	ClearCart(ctx context.Context, confirm bool) error
	Checkout(ctx context.Context) (*CheckoutResult, error)
}
