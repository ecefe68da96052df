package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smartrentsystem/backend/internal/domain/entities"
	"github.com/smartrentsystem/backend/internal/domain/repositories"
	mongoclient "github.com/smartrentsystem/backend/internal/infrastructure/clients/mongo"
	apperrors "github.com/smartrentsystem/backend/pkg/errors"
)

// Collection names follow the documents the web client has always read
const (
	listingsCollection = "properties"
	usersCollection    = "users"
	bookingsCollection = "bookings"
	reviewsCollection  = "reviews"
	messagesCollection = "messages"
)

// listingDocument stores images as plain URLs
type listingDocument struct {
	entities.Listing `bson:",inline"`
	Images           []string `bson:"images"`
}

func toListingDocument(l *entities.Listing) *listingDocument {
	return &listingDocument{Listing: *l, Images: l.ImageURLs()}
}

func (d *listingDocument) toEntity() *entities.Listing {
	l := d.Listing
	l.Images = entities.ImagesFromURLs(d.Images)
	return &l
}

// ListingAdapter implements the ListingRepository interface on MongoDB
type ListingAdapter struct {
	coll *mongo.Collection
}

// NewListingAdapter creates a new listing adapter
func NewListingAdapter(client *mongoclient.Client) repositories.ListingRepository {
	return &ListingAdapter{coll: client.Collection(listingsCollection)}
}

// Create creates a new listing
func (a *ListingAdapter) Create(ctx context.Context, listing *entities.Listing) error {
	if _, err := a.coll.InsertOne(ctx, toListingDocument(listing)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.NewConflictError(fmt.Sprintf("listing %s already exists", listing.ID))
		}
		return apperrors.NewStorageError("failed to create listing", err)
	}
	return nil
}

// GetByID retrieves a listing by ID
func (a *ListingAdapter) GetByID(ctx context.Context, id string) (*entities.Listing, error) {
	var doc listingDocument
	err := a.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("listing with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewStorageError("failed to get listing", err)
	}
	return doc.toEntity(), nil
}

// GetByIDs retrieves multiple listings. IDs with no listing are skipped.
func (a *ListingAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Listing, error) {
	if len(ids) == 0 {
		return []*entities.Listing{}, nil
	}
	return a.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find())
}

// Update replaces a listing document
func (a *ListingAdapter) Update(ctx context.Context, listing *entities.Listing) error {
	result, err := a.coll.ReplaceOne(ctx, bson.M{"_id": listing.ID}, toListingDocument(listing))
	if err != nil {
		return apperrors.NewStorageError("failed to update listing", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("listing with id %s not found", listing.ID))
	}
	return nil
}

// SetAverageRating writes only the average rating of a listing
func (a *ListingAdapter) SetAverageRating(ctx context.Context, id string, rating float64) error {
	result, err := a.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"averageRating": rating,
		"updatedAt":     time.Now().UTC(),
	}})
	if err != nil {
		return apperrors.NewStorageError("failed to update listing rating", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("listing with id %s not found", id))
	}
	return nil
}

// Delete deletes a listing
func (a *ListingAdapter) Delete(ctx context.Context, id string) error {
	result, err := a.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperrors.NewStorageError("failed to delete listing", err)
	}
	if result.DeletedCount == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("listing with id %s not found", id))
	}
	return nil
}

// List retrieves listings matching the equality filters, newest first
func (a *ListingAdapter) List(ctx context.Context, filter repositories.ListingFilter) ([]*entities.Listing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	if filter.Offset > 0 {
		opts.SetSkip(int64(filter.Offset))
	}
	return a.find(ctx, listingQuery(filter), opts)
}

// Count returns how many listings match the filter
func (a *ListingAdapter) Count(ctx context.Context, filter repositories.ListingFilter) (int, error) {
	n, err := a.coll.CountDocuments(ctx, listingQuery(filter))
	if err != nil {
		return 0, apperrors.NewStorageError("failed to count listings", err)
	}
	return int(n), nil
}

func (a *ListingAdapter) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]*entities.Listing, error) {
	cursor, err := a.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to list listings", err)
	}
	defer cursor.Close(ctx)

	var docs []listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, apperrors.NewStorageError("failed to decode listings", err)
	}

	listings := make([]*entities.Listing, 0, len(docs))
	for i := range docs {
		listings = append(listings, docs[i].toEntity())
	}
	return listings, nil
}

func listingQuery(filter repositories.ListingFilter) bson.M {
	query := bson.M{}
	if v := strings.TrimSpace(filter.Location); v != "" {
		query["location.city"] = containsFold(v)
	}
	if v := strings.TrimSpace(filter.PropertyType); v != "" {
		query["propertyType"] = containsFold(v)
	}
	if filter.OwnerID != "" {
		query["owner"] = filter.OwnerID
	}
	return query
}

// containsFold matches any field value containing value, ignoring case
func containsFold(value string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(value), "$options": "i"}
}
