package ws

import (
	"encoding/json"
	"time"
)

// Event types - Client → Server
const (
	EventTypeSubscribe   = "subscribe"
	EventTypeUnsubscribe = "unsubscribe"
	EventTypePing        = "ping"
)

// Event types - Server → Client
const (
	EventTypeObjectsChanged = "objects.changed"
	EventTypePong           = "pong"
	EventTypeError          = "error"
)

// TopicAll subscribes a client to every change.
const TopicAll = "*"

// Event is the base envelope for all WebSocket messages.
type Event struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"ts,omitempty"`
}

// --- Client → Server payloads ---

// TopicsPayload names object ids, "dashboard" or "*".
type TopicsPayload struct {
	Topics []string `json:"topics"`
}

// --- Server → Client payloads ---

// ObjectsChangedPayload tells the client which of its topics to refetch.
type ObjectsChangedPayload struct {
	Topics []string `json:"topics"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewEvent creates a server→client event with the current timestamp.
func NewEvent(eventType string, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:      eventType,
		Payload:   data,
		Timestamp: time.Now().Unix(),
	}, nil
}
