package ports

import "context"

// Collection names are fixed; the store supports exactly these five kinds.
const (
	CollectionUsers         = "users"
	CollectionEvents        = "events"
	CollectionAttendance    = "attendance"
	CollectionRegistrations = "registrations"
	CollectionQRCodes       = "qr_codes"
)

// Record is a uniquely-identified mapping of field names to values.
type Record = map[string]any

// Op is a per-field comparison operator for Query conditions.
type Op string

const (
	OpEq   Op = "eq"
	OpNe   Op = "ne"
	OpGt   Op = "gt"
	OpLt   Op = "lt"
	OpGte  Op = "gte"
	OpLte  Op = "lte"
	OpIn   Op = "in"
	OpLike Op = "like" // case-insensitive substring
)

// Condition constrains a single field. Value is a slice for OpIn.
type Condition struct {
	Op    Op
	Value any
}

// RecordStore is the uniform CRUD surface over the named collections.
// One backend (remote document database or local fallback) is chosen at
// construction; semantics are identical either way.
//
// Create and Update never propagate backend failures: they return a
// best-effort record tagged as degraded (see Degraded) so callers must check
// rather than rely on the error path.
type RecordStore interface {
	Create(ctx context.Context, collection string, rec Record) (Record, error)
	Read(ctx context.Context, collection, id string) (Record, error)
	// ReadAll applies multi-field equality when filter is non-nil.
	ReadAll(ctx context.Context, collection string, filter map[string]any) ([]Record, error)
	Update(ctx context.Context, collection, id string, partial Record) (Record, error)
	Delete(ctx context.Context, collection, id string) (bool, error)
	Count(ctx context.Context, collection string, filter map[string]any) (int, error)
	Query(ctx context.Context, collection string, conditions map[string]Condition) ([]Record, error)
	// Search matches term case-insensitively as a substring across fields.
	Search(ctx context.Context, collection, term string, fields []string) ([]Record, error)
	GenerateID() string
}

// Degraded reports whether a record returned from a write may not have been
// persisted correctly.
func Degraded(rec Record) bool {
	v, ok := rec["_degraded"].(bool)
	return ok && v
}
