package infrastructure

import (
	"encoding/json"
	"time"
)

// EventEnvelope is the wire format for every event crossing NATS. The
// collaborator services (scanner, payment webhook) publish the same shape,
// so inbound and outbound messages decode identically.
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}
