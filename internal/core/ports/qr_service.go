package ports

import (
	"context"

	"github.com/icct-edu/campus-events/internal/core/domain"
)

// QREncoder renders an arbitrary string payload as a scannable PNG image.
type QREncoder interface {
	Encode(payload string, size int) ([]byte, error)
}

// QRResult is a generated badge: the payload plus its rendered image.
// Exportable is true only after a successful render.
type QRResult struct {
	Payload    domain.QRPayload
	Image      []byte
	Exportable bool
}

// QRService builds, persists and re-renders the device's identity badge.
type QRService interface {
	Generate(ctx context.Context, name, studentID, campus, email string) (*QRResult, error)
	// LoadSaved re-renders the persisted payload, if any. A nil result with
	// a nil error means no payload is saved.
	LoadSaved(ctx context.Context) (*QRResult, error)
	DeleteSaved(ctx context.Context, confirm bool) error
}
