package repositories

import (
	"context"

	"github.com/vidtube/vidtube_backend/internal/core/domain"
)

// SubscriptionReader defines read operations over the subscription relation.
type SubscriptionReader interface {
	// CountSubscribers counts subscriptions where the user is the channel.
	CountSubscribers(ctx context.Context, channelID string) (int64, error)

	// CountSubscribedTo counts subscriptions where the user is the subscriber.
	CountSubscribedTo(ctx context.Context, subscriberID string) (int64, error)

	// IsSubscribed reports whether subscriberID follows channelID.
	IsSubscribed(ctx context.Context, subscriberID, channelID string) (bool, error)

	// GetChannelProfile runs the channel aggregation for a username: public
	// profile fields, subscriber counts and whether viewerID is subscribed.
	// Returns apperrors.ErrNotFound when the channel does not exist.
	GetChannelProfile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error)
}

// SubscriptionWriter defines write operations over the subscription relation.
type SubscriptionWriter interface {
	// Subscribe makes subscriberID follow channelID. Idempotent.
	Subscribe(ctx context.Context, subscriberID, channelID string) error

	// Unsubscribe removes the relation if present.
	Unsubscribe(ctx context.Context, subscriberID, channelID string) error
}

// SubscriptionRepositoryFacade combines subscription reads and writes.
type SubscriptionRepositoryFacade interface {
	SubscriptionReader
	SubscriptionWriter
}
