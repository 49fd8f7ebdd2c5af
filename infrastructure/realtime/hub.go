package realtime

import (
	"sync"

	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/outbound"
)

const subscriberBuffer = 32

// Subscription is one live consumer. Messages arrives buffered; a consumer
// that stops draining loses events rather than blocking the hub.
type Subscription struct {
	Messages chan outbound.RealtimeMessage
}

// Hub is the in-process connection registry fanning redis envelopes out to
// local stream consumers. It owns two maps kept consistent under one
// mutex: channel to subscribers and subscriber to channels, so both
// broadcast and disconnect are direct lookups.
type Hub struct {
	logger outbound.LoggerPort

	mu           sync.Mutex
	byChannel    map[string]map[*Subscription]struct{}
	bySubscriber map[*Subscription]map[string]struct{}
}

func NewHub(logger outbound.LoggerPort) *Hub {
	return &Hub{
		logger:       logger,
		byChannel:    make(map[string]map[*Subscription]struct{}),
		bySubscriber: make(map[*Subscription]map[string]struct{}),
	}
}

// Subscribe registers a consumer on one or more channels.
func (h *Hub) Subscribe(channels ...string) *Subscription {
	sub := &Subscription{Messages: make(chan outbound.RealtimeMessage, subscriberBuffer)}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.bySubscriber[sub] = make(map[string]struct{}, len(channels))
	for _, channel := range channels {
		if h.byChannel[channel] == nil {
			h.byChannel[channel] = make(map[*Subscription]struct{})
		}
		h.byChannel[channel][sub] = struct{}{}
		h.bySubscriber[sub][channel] = struct{}{}
	}
	return sub
}

// Unsubscribe removes the consumer from every channel and closes its
// message stream.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	channels, ok := h.bySubscriber[sub]
	if !ok {
		return
	}
	for channel := range channels {
		delete(h.byChannel[channel], sub)
		if len(h.byChannel[channel]) == 0 {
			delete(h.byChannel, channel)
		}
	}
	delete(h.bySubscriber, sub)
	close(sub.Messages)
}

// Broadcast delivers one envelope to every subscriber of its channel.
func (h *Hub) Broadcast(msg outbound.RealtimeMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.byChannel[msg.Channel] {
		select {
		case sub.Messages <- msg:
		default:
			h.logger.WarnWithFields("dropping realtime message for slow consumer", map[string]interface{}{
				"channel": msg.Channel,
				"event":   msg.Event,
			})
		}
	}
}
