// Package api defines the wire messages, procedures, handlers and clients of
// the tripsplitter.v1 Connect services.
//
// Messages are plain Go structs carried by a JSON codec, so the services work
// with any Connect client that speaks the JSON protocol (including curl).
package api

import (
	"encoding/json"
	"fmt"
)

// Codec marshals messages as JSON. It replaces Connect's default "json"
// codec, which only accepts protobuf messages.
type Codec struct{}

// Name implements connect.Codec.
func (Codec) Name() string { return "json" }

// Marshal implements connect.Codec.
func (Codec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", msg, err)
	}
	return data, nil
}

// Unmarshal implements connect.Codec. An empty body decodes to the zero message.
func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	return nil
}
