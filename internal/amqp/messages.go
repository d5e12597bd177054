package amqp

import (
	"encoding/json"
	"time"

	"winner/internal/store"
)

// RecordChangeMessage is the lightweight event published after a successful
// mutation. It carries only the record identity and operation; consumers
// fetch the current state from the store themselves.
type RecordChangeMessage struct {
	Kind      store.Kind `json:"kind"`
	ID        string     `json:"id"`
	Op        string     `json:"op"`
	Timestamp time.Time  `json:"timestamp"`
}

// NewRecordChangeMessage creates a change event stamped with the current time
func NewRecordChangeMessage(kind store.Kind, id, op string) *RecordChangeMessage {
	return &RecordChangeMessage{
		Kind:      kind,
		ID:        id,
		Op:        op,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *RecordChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func RecordChangeMessageFromJSON(data []byte) (*RecordChangeMessage, error) {
	var msg RecordChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
