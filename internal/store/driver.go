package store

import (
	"context"

	"github.com/icct-edu/campus-events/internal/core/ports"
)

// Driver is the single storage-driver abstraction behind the Record Store.
// Exactly one implementation is selected at startup (remote document
// database or local fallback); the store never branches on backend again.
//
// List applies multi-field equality when filter is non-nil; richer
// predicates (Query, Search) are evaluated by the store on top of List so
// both drivers share one semantics.
type Driver interface {
	Insert(ctx context.Context, collection string, rec ports.Record) error
	// Get returns domain.ErrNotFound when the id is absent.
	Get(ctx context.Context, collection, id string) (ports.Record, error)
	List(ctx context.Context, collection string, filter map[string]any) ([]ports.Record, error)
	// Replace overwrites the full record; domain.ErrNotFound when absent.
	Replace(ctx context.Context, collection, id string, rec ports.Record) error
	Delete(ctx context.Context, collection, id string) (bool, error)
	// Name identifies the backend in logs and metrics.
	Name() string
}
