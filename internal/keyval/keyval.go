// Package keyval is the device-local key-value layer holding session flags,
// carts, the saved QR payload and change markers. One backend is chosen at
// startup: Redis when reachable, else a JSON file next to the fallback store.
package keyval

import "context"

// Well-known keys.
const (
	KeyCurrentUser   = "currentUser"
	KeyIsAdmin       = "isAdmin"
	KeyStudentQR     = "icctStudentQR"
	KeyEventsUpdated = "icct_events_updated"
	KeyLastUpdate    = "last_event_update"
)

// CartKey returns the storage key scoping a cart to a user, or the guest key
// when userID is empty.
func CartKey(userID string) string {
	if userID == "" {
		return "cart_guest"
	}
	return "cart_" + userID
}

// KV stores opaque string values under string keys. Get reports presence
// explicitly so an empty value is distinguishable from an absent key.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
