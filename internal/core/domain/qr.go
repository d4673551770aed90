package domain

// QRPayloadVersion tags generated identity payloads so scanners can reject
// formats they do not understand.
const QRPayloadVersion = "2.0"

// QRPayload is the identity encoded into a student's attendance badge.
// It is never stored server-side; one payload is persisted per device.
type QRPayload struct {
	StudentID   string `json:"studentId"`
	Name        string `json:"name"`
	Campus      string `json:"campus"`
	Email       string `json:"email"`
	GeneratedAt string `json:"generatedAt"`
	Version     string `json:"version"`
}

// Valid reports whether the payload carries the structurally required
// identity fields. Email may be empty but the field must exist, which a
// decoded struct always satisfies.
func (p QRPayload) Valid() bool {
	return p.StudentID != "" && p.Name != "" && p.Campus != ""
}
