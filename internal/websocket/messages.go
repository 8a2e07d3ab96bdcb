package websocket

import (
	"encoding/json"
	"time"
)

// MessageType identifies a WebSocket frame.
type MessageType string

const (
	// Server -> client
	TypeAttributeNotified MessageType = "attribute.notified"
	TypePong              MessageType = "pong"
	TypeError             MessageType = "error"

	// Client -> server
	TypeAttributeWrite MessageType = "attribute.write"
	TypePing           MessageType = "ping"
)

// Message is the frame envelope.
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// NewMessage builds a frame with the current timestamp.
func NewMessage(msgType MessageType, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		Payload:   raw,
	}, nil
}

// JSON serializes the frame.
func (m Message) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// NotificationPayload carries a characteristic value push. Data is the
// wire payload, hex encoded.
type NotificationPayload struct {
	Attribute string `json:"attribute"`
	Data      string `json:"data"`
}

// WritePayload is a client-submitted characteristic write, in the same
// attribute + hex shape as notifications.
type WritePayload struct {
	Attribute string `json:"attribute"`
	Data      string `json:"data"`
}

// ErrorPayload reports a rejected client frame.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
