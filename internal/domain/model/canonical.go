package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CanonicalJSON encodes a decoded JSON value deterministically: object keys
// sorted at every depth, shortest round-trip numbers, no insignificant
// whitespace and no HTML escaping.
func CanonicalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("canonical encode: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
