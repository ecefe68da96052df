package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mongoclient "github.com/smartrentsystem/backend/internal/infrastructure/clients/mongo"
)

// EnsureIndexes creates the indexes the adapters rely on
func EnsureIndexes(ctx context.Context, client *mongoclient.Client) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		listingsCollection: {
			{Keys: bson.D{{Key: "location.city", Value: 1}}},
			{Keys: bson.D{{Key: "propertyType", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		bookingsCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}}},
			{Keys: bson.D{{Key: "property", Value: 1}}},
		},
		reviewsCollection: {
			{Keys: bson.D{{Key: "property", Value: 1}}},
		},
		messagesCollection: {
			{Keys: bson.D{{Key: "sender", Value: 1}}},
			{Keys: bson.D{{Key: "recipient", Value: 1}}},
		},
	}

	for name, models := range indexes {
		if _, err := client.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}
