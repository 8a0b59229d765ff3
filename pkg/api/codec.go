// Package api defines the assettrack.v1 Connect services: procedure names,
// request and response messages, handler constructors and typed clients.
//
// Messages are plain Go structs carried by a JSON codec, so both sides must
// use the constructors in this package.
package api

import (
	"encoding/json"
	"fmt"
)

// Codec is a connect.Codec that encodes messages with encoding/json.
// It replaces Connect's protobuf-only JSON codec under the same name.
type Codec struct{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("invalid message: %w", err)
	}
	return nil
}
