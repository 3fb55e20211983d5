package server

import (
	"coedit/internal/document"
	"coedit/internal/ot"
)

// ClientMessage is a frame received from an editing client.
type ClientMessage struct {
	Type      string           `json:"type"`      // Type of message: operation
	Operation ot.EditOperation `json:"operation"` // The submitted edit
}

// ServerMessage is a frame sent to editing clients, and the envelope
// relayed between instances.
type ServerMessage struct {
	Type       string                     `json:"type"` // operation or error
	DocumentID string                     `json:"document_id,omitempty"`
	Operation  *document.TrackedOperation `json:"operation,omitempty"`
	SessionID  string                     `json:"session_id,omitempty"` // originating session
	Origin     string                     `json:"origin,omitempty"`     // originating instance
	Error      string                     `json:"error,omitempty"`
}
