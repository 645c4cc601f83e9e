// Package bridge implements the call/response correlation scheme between the
// rendering surface and host callables.
package bridge

import (
	"encoding/json"
	"fmt"
)

// Envelope is the wire format of one rendering-side call: {id, method, params}.
type Envelope struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

// ParseEnvelope decodes a bridge envelope from raw JSON.
func ParseEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode bridge envelope: %w", err)
	}
	return env, nil
}

// ParamsText returns the raw argument JSON, "null" when absent.
func (e Envelope) ParamsText() string {
	if len(e.Params) == 0 {
		return "null"
	}
	return string(e.Params)
}
