package adapters

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/outbound"
)

// redisChannelPrefix namespaces realtime traffic so a pattern subscribe
// only sees progress envelopes, not queue internals sharing the instance.
const redisChannelPrefix = "realtime:"

type redisRealtimePublisher struct {
	logger outbound.LoggerPort
	client *redis.Client
}

// NewRedisRealtimePublisher fans progress events out over redis pub/sub so
// every api instance can stream them, no matter which worker produced them.
func NewRedisRealtimePublisher(client *redis.Client, logger outbound.LoggerPort) outbound.RealtimePublisherPort {
	return &redisRealtimePublisher{
		logger: logger,
		client: client,
	}
}

func (p *redisRealtimePublisher) Publish(ctx context.Context, channel string, event string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	envelope, err := json.Marshal(outbound.RealtimeMessage{
		Channel: channel,
		Event:   event,
		Payload: raw,
	})
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, redisChannelPrefix+channel, envelope).Err()
}

// SubscribeRealtime opens a pattern subscription over every realtime
// channel and invokes deliver per decoded envelope until ctx ends. Run it
// once per api process and fan out locally from there.
func SubscribeRealtime(ctx context.Context, client *redis.Client, logger outbound.LoggerPort,
	deliver func(msg outbound.RealtimeMessage)) {
	sub := client.PSubscribe(ctx, redisChannelPrefix+"*")
	defer func() {
		if err := sub.Close(); err != nil {
			logger.Error(err, "Failed to close realtime subscription")
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			var envelope outbound.RealtimeMessage
			if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
				logger.WarnWithFields("Dropping unreadable realtime envelope", map[string]interface{}{
					"channel": msg.Channel,
				})
				continue
			}
			deliver(envelope)
		}
	}
}
