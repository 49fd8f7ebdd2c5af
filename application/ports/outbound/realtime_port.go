package outbound

import (
	"context"
	"encoding/json"
)

// RealtimeMessage is the envelope moving through the realtime channel.
type RealtimeMessage struct {
	Channel string          `json:"channel"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// RealtimePublisherPort pushes one event to a course- or session-scoped
// channel. Delivery is best effort; callers must never treat a publish
// error as fatal.
type RealtimePublisherPort interface {
	Publish(ctx context.Context, channel string, event string, payload any) error
}
