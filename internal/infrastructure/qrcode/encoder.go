// Package qrcode renders identity payloads as PNG QR images.
package qrcode

import (
	qr "github.com/skip2/go-qrcode"
)

// Encoder renders payloads with high error correction so badges survive
// low-quality phone screens and printouts.
type Encoder struct{}

func NewEncoder() *Encoder {
	return &Encoder{}
}

func (e *Encoder) Encode(payload string, size int) ([]byte, error) {
	return qr.Encode(payload, qr.High, size)
}
