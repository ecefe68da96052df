package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/smartrentsystem/backend/internal/domain/entities"
	"github.com/smartrentsystem/backend/internal/domain/providers"
	redisclient "github.com/smartrentsystem/backend/internal/infrastructure/clients/redis"
)

// subscriberBuffer is how many events a slow subscriber may lag behind before events are dropped
const subscriberBuffer = 100

// feed is one Redis subscription shared by every local listener of a user channel
type feed struct {
	pubsub    *redis.PubSub
	listeners map[chan *entities.WishlistEvent]struct{}
	closed    bool
}

// RedisEventBus fans wishlist events out across API instances over Redis Pub/Sub
type RedisEventBus struct {
	client *redisclient.Client
	feeds  map[string]*feed
	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
}

// NewRedisEventBus creates a new Redis-based event bus
func NewRedisEventBus(client *redisclient.Client) *RedisEventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisEventBus{
		client: client,
		feeds:  make(map[string]*feed),
		ctx:    ctx,
		cancel: cancel,
	}
}

var _ providers.EventBus = (*RedisEventBus)(nil)

// Publish sends a wishlist event to every instance subscribed to channel
func (b *RedisEventBus) Publish(ctx context.Context, channel string, event *entities.WishlistEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Client().Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	log.Debug().Str("channel", channel).Str("event_id", event.ID).Str("action", string(event.Action)).Msg("Published wishlist event")
	return nil
}

// Subscribe registers a listener on a user channel. The returned channel is
// closed when ctx is done, the channel is unsubscribed or the bus is closed.
func (b *RedisEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.WishlistEvent, error) {
	listener := make(chan *entities.WishlistEvent, subscriberBuffer)

	b.mu.Lock()
	f, ok := b.feeds[channel]
	if !ok {
		f = &feed{
			pubsub:    b.client.Client().Subscribe(b.ctx, channel),
			listeners: make(map[chan *entities.WishlistEvent]struct{}),
		}
		b.feeds[channel] = f
		go b.relay(channel, f)
	}
	f.listeners[listener] = struct{}{}
	count := len(f.listeners)
	b.mu.Unlock()

	log.Info().Str("channel", channel).Int("listeners", count).Msg("Wishlist stream subscribed")

	go func() {
		<-ctx.Done()
		b.leave(channel, f, listener)
	}()

	return listener, nil
}

// relay decodes messages from one Redis subscription until it ends, then
// tears that feed down. A newer feed on the same channel is left alone.
func (b *RedisEventBus) relay(channel string, f *feed) {
	defer func() {
		if err := b.shutdown(channel, f); err != nil {
			log.Error().Err(err).Str("channel", channel).Msg("Failed to close wishlist feed")
		}
	}()

	messages := f.pubsub.Channel()
	for {
		select {
		case <-b.ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			event, err := decodeEvent(msg.Payload)
			if err != nil {
				log.Warn().Err(err).Str("channel", channel).Msg("Skipping malformed wishlist event")
				continue
			}
			b.deliver(channel, f, event)
		}
	}
}

func decodeEvent(payload string) (*entities.WishlistEvent, error) {
	var event entities.WishlistEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// deliver never blocks: a listener with a full buffer misses the event
func (b *RedisEventBus) deliver(channel string, f *feed, event *entities.WishlistEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for listener := range f.listeners {
		select {
		case listener <- event:
		default:
			log.Warn().Str("channel", channel).Str("event_id", event.ID).Msg("Wishlist listener lagging, event dropped")
		}
	}
}

// leave drops one listener and closes the feed's subscription once nobody is left
func (b *RedisEventBus) leave(channel string, f *feed, listener chan *entities.WishlistEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := f.listeners[listener]; !ok {
		return
	}
	delete(f.listeners, listener)
	close(listener)

	if len(f.listeners) == 0 {
		if err := b.detach(channel, f); err != nil {
			log.Warn().Err(err).Str("channel", channel).Msg("Failed to close wishlist feed")
		}
	}
}

// shutdown closes every listener of f along with its Redis subscription
func (b *RedisEventBus) shutdown(channel string, f *feed) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for listener := range f.listeners {
		close(listener)
		delete(f.listeners, listener)
	}
	return b.detach(channel, f)
}

// detach must be called with mu held
func (b *RedisEventBus) detach(channel string, f *feed) error {
	if b.feeds[channel] == f {
		delete(b.feeds, channel)
	}
	if f.closed {
		return nil
	}
	f.closed = true
	if err := f.pubsub.Close(); err != nil {
		return fmt.Errorf("failed to close subscription %s: %w", channel, err)
	}
	return nil
}

// Unsubscribe closes every local listener of channel
func (b *RedisEventBus) Unsubscribe(ctx context.Context, channel string) error {
	b.mu.RLock()
	f, ok := b.feeds[channel]
	b.mu.RUnlock()
	if !ok {
		return nil
	}
	return b.shutdown(channel, f)
}

// Close stops all relays and closes every open feed
func (b *RedisEventBus) Close() error {
	b.cancel()

	b.mu.RLock()
	open := make(map[string]*feed, len(b.feeds))
	for channel, f := range b.feeds {
		open[channel] = f
	}
	b.mu.RUnlock()

	var errs []error
	for channel, f := range open {
		if err := b.shutdown(channel, f); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
