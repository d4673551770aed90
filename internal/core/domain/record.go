package domain

import (
	"encoding/json"
	"fmt"
)

// ToRecord flattens a typed entity into the schemaless record form the store
// works with, using the entity's json tags.
func ToRecord(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	rec := map[string]any{}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return rec, nil
}

// FromRecord decodes a store record into a typed entity. Unknown fields are
// dropped; numeric fields tolerate the float64 form records carry.
func FromRecord(rec map[string]any, v any) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}
