package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisRelay bridges the in-process bus to a Redis pub/sub channel, so
// storefront processes sharing a remote storage backend observe each
// other's cart and wishlist mutations. Local events are forwarded to the
// channel stamped with this relay's instance ID; foreign events coming
// off the channel are republished on the local bus with their origin
// intact, which observers treat as "reload from storage".
type RedisRelay struct {
	bus     *Bus
	client  *redis.Client
	channel string
	id      string
	log     *zap.Logger
}

// NewRedisRelay creates a relay on an existing client. channel is the
// Redis pub/sub channel shared by all storefront instances.
func NewRedisRelay(bus *Bus, client *redis.Client, channel string, log *zap.Logger) *RedisRelay {
	return &RedisRelay{
		bus:     bus,
		client:  client,
		channel: channel,
		id:      uuid.New().String(),
		log:     log,
	}
}

// ID returns the relay's instance identifier, stamped as Origin on
// forwarded events.
func (r *RedisRelay) ID() string {
	return r.id
}

// Run forwards events both ways until ctx is cancelled.
func (r *RedisRelay) Run(ctx context.Context) error {
	for _, topic := range []Topic{TopicCartChanged, TopicWishlistChanged} {
		unsubscribe := r.bus.Subscribe(topic, r.forward(ctx))
		defer unsubscribe()
	}

	pubsub := r.client.Subscribe(ctx, r.channel)
	defer pubsub.Close()

	// Confirm the subscription before reporting the relay as running.
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to %s: %w", r.channel, err)
	}

	for {
		select {
		case msg, ok := <-pubsub.Channel():
			if !ok {
				return nil
			}
			r.receive(msg.Payload)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// forward publishes local events to the shared channel. Events that
// already carry an origin came from another instance and are not
// forwarded again.
func (r *RedisRelay) forward(ctx context.Context) Handler {
	return func(ev Event) {
		if ev.Remote() {
			return
		}
		ev.Origin = r.id

		payload, err := json.Marshal(ev)
		if err != nil {
			r.log.Error("marshal relay event", zap.Error(err))
			return
		}
		if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
			r.log.Warn("publish relay event", zap.String("topic", string(ev.Topic)), zap.Error(err))
		}
	}
}

// receive republishes foreign events on the local bus, dropping echoes
// of this instance's own publishes.
func (r *RedisRelay) receive(payload string) {
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		r.log.Warn("drop malformed relay event", zap.Error(err))
		return
	}
	if ev.Origin == r.id {
		return
	}
	r.bus.Publish(ev)
}
