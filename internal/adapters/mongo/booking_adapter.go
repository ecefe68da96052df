package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smartrentsystem/backend/internal/domain/entities"
	"github.com/smartrentsystem/backend/internal/domain/repositories"
	mongoclient "github.com/smartrentsystem/backend/internal/infrastructure/clients/mongo"
	apperrors "github.com/smartrentsystem/backend/pkg/errors"
)

// BookingAdapter implements the BookingRepository interface on MongoDB
type BookingAdapter struct {
	coll *mongo.Collection
}

// NewBookingAdapter creates a new booking adapter
func NewBookingAdapter(client *mongoclient.Client) repositories.BookingRepository {
	return &BookingAdapter{coll: client.Collection(bookingsCollection)}
}

// Create creates a new booking
func (a *BookingAdapter) Create(ctx context.Context, booking *entities.Booking) error {
	if _, err := a.coll.InsertOne(ctx, booking); err != nil {
		return apperrors.NewStorageError("failed to create booking", err)
	}
	return nil
}

// GetByID retrieves a booking by ID
func (a *BookingAdapter) GetByID(ctx context.Context, id string) (*entities.Booking, error) {
	var booking entities.Booking
	err := a.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("booking with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewStorageError("failed to get booking", err)
	}
	return &booking, nil
}

// ListByUser retrieves bookings made by a user, newest first
func (a *BookingAdapter) ListByUser(ctx context.Context, userID string) ([]*entities.Booking, error) {
	return findAll[entities.Booking](ctx, a.coll, bson.M{"user": userID}, "bookings")
}

// ListByListing retrieves bookings for a listing, newest first
func (a *BookingAdapter) ListByListing(ctx context.Context, listingID string) ([]*entities.Booking, error) {
	return findAll[entities.Booking](ctx, a.coll, bson.M{"property": listingID}, "bookings")
}

// UpdateStatus sets the status of a booking
func (a *BookingAdapter) UpdateStatus(ctx context.Context, id string, status entities.BookingStatus) error {
	result, err := a.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return apperrors.NewStorageError("failed to update booking", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("booking with id %s not found", id))
	}
	return nil
}

// findAll runs query sorted newest first and decodes every document
func findAll[T any](ctx context.Context, coll *mongo.Collection, query bson.M, what string) ([]*T, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := coll.Find(ctx, query, opts)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to list "+what, err)
	}
	defer cursor.Close(ctx)

	items := []*T{}
	for cursor.Next(ctx) {
		item := new(T)
		if err := cursor.Decode(item); err != nil {
			return nil, apperrors.NewStorageError("failed to decode "+what, err)
		}
		items = append(items, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, apperrors.NewStorageError("failed to list "+what, err)
	}
	return items, nil
}
