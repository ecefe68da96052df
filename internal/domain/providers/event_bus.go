package providers

import (
	"context"

	"github.com/smartrentsystem/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to wishlist events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.WishlistEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.WishlistEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

const (
	// EventChannelWishlistUpdates is the channel for all wishlist changes
	EventChannelWishlistUpdates = "wishlist:updates"

	// EventChannelUserPrefix is the prefix for user-specific channels
	EventChannelUserPrefix = "user:"
)

// GetUserChannel returns the channel name for a specific user
func GetUserChannel(userID string) string {
	return EventChannelUserPrefix + userID + ":wishlist"
}
