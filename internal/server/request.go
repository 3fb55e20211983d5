package server

import (
	"encoding/json"
	"fmt"

	"coedit/internal/ot"
)

// decodeClientMessage parses and validates an inbound frame. The
// document core trusts its input, so malformed operations are rejected
// here, at the transport boundary.
func decodeClientMessage(raw []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return msg, fmt.Errorf("malformed frame: %w", err)
	}
	if msg.Type != "operation" {
		return msg, fmt.Errorf("unknown frame type %q", msg.Type)
	}
	if err := validateOperation(msg.Operation); err != nil {
		return msg, err
	}
	return msg, nil
}

func validateOperation(op ot.EditOperation) error {
	switch op.Type {
	case ot.Insert, ot.Delete, ot.Replace:
	default:
		return fmt.Errorf("unknown operation type %q", op.Type)
	}
	if op.Position < 0 {
		return fmt.Errorf("negative position %d", op.Position)
	}
	if op.Length < 0 {
		return fmt.Errorf("negative length %d", op.Length)
	}
	return nil
}
