package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/icct-edu/campus-events/internal/core/domain"
	"github.com/icct-edu/campus-events/internal/core/ports"
	"github.com/icct-edu/campus-events/internal/keyval"
)

// QRService builds versioned identity payloads, persists one per device in
// the key-value layer, and renders them through the configured encoder.
// A failed render still yields the payload, marked not exportable.
type QRService struct {
	encoder ports.QREncoder
	kv      keyval.KV
	size    int
	log     zerolog.Logger
}

func NewQRService(encoder ports.QREncoder, kv keyval.KV, size int, log zerolog.Logger) *QRService {
	if size <= 0 {
		size = 200
	}
	return &QRService{encoder: encoder, kv: kv, size: size, log: log}
}

// Generate validates the identity fields, persists the payload and renders it.
func (s *QRService) Generate(ctx context.Context, name, studentID, campus, email string) (*ports.QRResult, error) {
	name = strings.TrimSpace(name)
	studentID = strings.TrimSpace(studentID)
	campus = strings.TrimSpace(campus)

	if name == "" || studentID == "" || campus == "" {
		return nil, fmt.Errorf("%w: name, student id and campus are required", domain.ErrValidation)
	}

	payload := domain.QRPayload{
		StudentID:   studentID,
		Name:        name,
		Campus:      campus,
		Email:       strings.TrimSpace(email),
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     domain.QRPayloadVersion,
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	if err := s.kv.Set(ctx, keyval.KeyStudentQR, string(raw)); err != nil {
		return nil, fmt.Errorf("qr: %w", err)
	}

	return s.render(payload, raw), nil
}

// LoadSaved re-renders the persisted payload. No saved payload is not an
// error: the result is simply nil.
func (s *QRService) LoadSaved(ctx context.Context) (*ports.QRResult, error) {
	raw, ok, err := s.kv.Get(ctx, keyval.KeyStudentQR)
	if err != nil {
		return nil, fmt.Errorf("qr: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}

	var payload domain.QRPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil || !payload.Valid() {
		s.log.Warn().Msg("qr: discarding corrupt saved payload")
		if err := s.kv.Delete(ctx, keyval.KeyStudentQR); err != nil {
			return nil, fmt.Errorf("qr: %w", err)
		}
		return nil, nil
	}

	return s.render(payload, []byte(raw)), nil
}

// DeleteSaved removes the persisted payload. It refuses without confirmation.
func (s *QRService) DeleteSaved(ctx context.Context, confirm bool) error {
	if !confirm {
		return domain.ErrConfirmationRequired
	}
	return s.kv.Delete(ctx, keyval.KeyStudentQR)
}

func (s *QRService) render(payload domain.QRPayload, raw []byte) *ports.QRResult {
	result := ports.QRResult{Payload: payload}
	img, err := s.encoder.Encode(string(raw), s.size)
	if err != nil {
		s.log.Warn().Err(err).Msg("qr: render failed")
		return &result
	}
	result.Image = img
	result.Exportable = true
	return &result
}
