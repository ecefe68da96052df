package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/lib/pq"

	"github.com/smartrentsystem/backend/internal/domain/entities"
	"github.com/smartrentsystem/backend/internal/domain/repositories"
	"github.com/smartrentsystem/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/smartrentsystem/backend/pkg/errors"
)

const listingsTable = "listings"

var listingColumns = []any{
	"id", "title", "description", "price", "property_type", "category",
	"city", "country", "state", "address",
	"bedrooms", "bathrooms", "guests", "beds",
	"amenities", "size", "average_rating", "rating", "trending", "images",
	"owner_id", "created_at", "updated_at",
}

// listingRow is the flat table shape of a listing
type listingRow struct {
	ID            string          `db:"id"`
	Title         string          `db:"title"`
	Description   string          `db:"description"`
	Price         float64         `db:"price"`
	PropertyType  string          `db:"property_type"`
	Category      string          `db:"category"`
	City          string          `db:"city"`
	Country       string          `db:"country"`
	State         string          `db:"state"`
	Address       string          `db:"address"`
	Bedrooms      sql.NullInt64   `db:"bedrooms"`
	Bathrooms     sql.NullInt64   `db:"bathrooms"`
	Guests        sql.NullInt64   `db:"guests"`
	Beds          sql.NullInt64   `db:"beds"`
	Amenities     []byte          `db:"amenities"`
	Size          float64         `db:"size"`
	AverageRating sql.NullFloat64 `db:"average_rating"`
	Rating        sql.NullFloat64 `db:"rating"`
	Trending      bool            `db:"trending"`
	Images        pq.StringArray  `db:"images"`
	OwnerID       string          `db:"owner_id"`
	CreatedAt     sql.NullTime    `db:"created_at"`
	UpdatedAt     sql.NullTime    `db:"updated_at"`
}

func (r *listingRow) toEntity() (*entities.Listing, error) {
	l := &entities.Listing{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		Price:        r.Price,
		PropertyType: r.PropertyType,
		Category:     r.Category,
		Location: entities.Location{
			City:    r.City,
			Country: r.Country,
			State:   r.State,
			Address: r.Address,
		},
		Size:     r.Size,
		Trending: r.Trending,
		Images:   entities.ImagesFromURLs(r.Images),
		OwnerID:  r.OwnerID,
	}

	// capacity counts as known when any of its columns is set
	if r.Bedrooms.Valid || r.Bathrooms.Valid || r.Guests.Valid || r.Beds.Valid {
		l.Capacity = &entities.Capacity{
			Bedrooms:  int(r.Bedrooms.Int64),
			Bathrooms: int(r.Bathrooms.Int64),
			Guests:    int(r.Guests.Int64),
			Beds:      int(r.Beds.Int64),
		}
	}
	if len(r.Amenities) > 0 {
		if err := json.Unmarshal(r.Amenities, &l.Amenities); err != nil {
			return nil, fmt.Errorf("invalid amenities for listing %s: %w", r.ID, err)
		}
	}
	if r.AverageRating.Valid {
		v := r.AverageRating.Float64
		l.AverageRating = &v
	}
	if r.Rating.Valid {
		v := r.Rating.Float64
		l.Rating = &v
	}
	if r.CreatedAt.Valid {
		l.CreatedAt = r.CreatedAt.Time
	}
	if r.UpdatedAt.Valid {
		l.UpdatedAt = r.UpdatedAt.Time
	}
	return l, nil
}

// listingRecord converts a listing to the column values written on insert and update
func listingRecord(l *entities.Listing) (goqu.Record, error) {
	var amenities any
	if l.Amenities != nil {
		data, err := json.Marshal(l.Amenities)
		if err != nil {
			return nil, err
		}
		amenities = string(data)
	}

	record := goqu.Record{
		"title":          l.Title,
		"description":    l.Description,
		"price":          l.Price,
		"property_type":  l.PropertyType,
		"category":       l.Category,
		"city":           l.Location.City,
		"country":        l.Location.Country,
		"state":          l.Location.State,
		"address":        l.Location.Address,
		"bedrooms":       nil,
		"bathrooms":      nil,
		"guests":         nil,
		"beds":           nil,
		"amenities":      amenities,
		"size":           l.Size,
		"average_rating": nullFloat(l.AverageRating),
		"rating":         nullFloat(l.Rating),
		"trending":       l.Trending,
		"images":         pq.StringArray(l.ImageURLs()),
		"owner_id":       l.OwnerID,
		"created_at":     nullTime(l.CreatedAt),
		"updated_at":     nullTime(l.UpdatedAt),
	}
	if c := l.Capacity; c != nil {
		record["bedrooms"] = c.Bedrooms
		record["bathrooms"] = c.Bathrooms
		record["guests"] = c.Guests
		record["beds"] = c.Beds
	}
	return record, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

// ListingAdapter implements the ListingRepository interface
type ListingAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewListingAdapter creates a new listing adapter
func NewListingAdapter(client *postgres.Client) repositories.ListingRepository {
	return &ListingAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new listing
func (a *ListingAdapter) Create(ctx context.Context, listing *entities.Listing) error {
	record, err := listingRecord(listing)
	if err != nil {
		return apperrors.NewValidationError("invalid amenities")
	}
	record["id"] = listing.ID

	query, args, err := a.db.Insert(listingsTable).Rows(record).Prepared(true).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("listing %s already exists", listing.ID))
		}
		return apperrors.NewStorageError("failed to create listing", err)
	}
	return nil
}

// GetByID retrieves a listing by ID
func (a *ListingAdapter) GetByID(ctx context.Context, id string) (*entities.Listing, error) {
	query, args, err := a.db.From(listingsTable).
		Select(listingColumns...).
		Where(goqu.Ex{"id": id}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	var row listingRow
	err = a.client.X().GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("listing with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewStorageError("failed to get listing", err)
	}
	return row.toEntity()
}

// GetByIDs retrieves multiple listings. IDs with no listing are skipped.
func (a *ListingAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Listing, error) {
	if len(ids) == 0 {
		return []*entities.Listing{}, nil
	}

	query, args, err := a.db.From(listingsTable).
		Select(listingColumns...).
		Where(goqu.C("id").In(ids)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}
	return a.selectListings(ctx, query, args)
}

// Update updates a listing
func (a *ListingAdapter) Update(ctx context.Context, listing *entities.Listing) error {
	record, err := listingRecord(listing)
	if err != nil {
		return apperrors.NewValidationError("invalid amenities")
	}
	delete(record, "created_at")

	query, args, err := a.db.Update(listingsTable).
		Set(record).
		Where(goqu.Ex{"id": listing.ID}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewStorageError("failed to update listing", err)
	}
	return requireRow(result, fmt.Sprintf("listing with id %s not found", listing.ID))
}

// SetAverageRating writes only the average rating of a listing
func (a *ListingAdapter) SetAverageRating(ctx context.Context, id string, rating float64) error {
	query, args, err := a.db.Update(listingsTable).Set(goqu.Record{
		"average_rating": rating,
		"updated_at":     time.Now().UTC(),
	}).Where(goqu.Ex{"id": id}).Prepared(true).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewStorageError("failed to update listing rating", err)
	}
	return requireRow(result, fmt.Sprintf("listing with id %s not found", id))
}

// Delete deletes a listing
func (a *ListingAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete(listingsTable).Where(goqu.Ex{"id": id}).Prepared(true).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewStorageError("failed to delete listing", err)
	}
	return requireRow(result, fmt.Sprintf("listing with id %s not found", id))
}

// List retrieves listings matching the equality filters, newest first
func (a *ListingAdapter) List(ctx context.Context, filter repositories.ListingFilter) ([]*entities.Listing, error) {
	ds := a.db.From(listingsTable).
		Select(listingColumns...).
		Where(listingConditions(filter)...).
		Order(goqu.C("created_at").Desc().NullsLast(), goqu.C("id").Asc())

	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}
	return a.selectListings(ctx, query, args)
}

// Count returns how many listings match the filter
func (a *ListingAdapter) Count(ctx context.Context, filter repositories.ListingFilter) (int, error) {
	query, args, err := a.db.From(listingsTable).
		Select(goqu.COUNT("*")).
		Where(listingConditions(filter)...).
		Prepared(true).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build count query", err)
	}

	var total int
	if err := a.client.X().GetContext(ctx, &total, query, args...); err != nil {
		return 0, apperrors.NewStorageError("failed to count listings", err)
	}
	return total, nil
}

func (a *ListingAdapter) selectListings(ctx context.Context, query string, args []any) ([]*entities.Listing, error) {
	var rows []listingRow
	if err := a.client.X().SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperrors.NewStorageError("failed to list listings", err)
	}

	listings := make([]*entities.Listing, 0, len(rows))
	for i := range rows {
		l, err := rows[i].toEntity()
		if err != nil {
			return nil, apperrors.NewStorageError("failed to decode listing", err)
		}
		listings = append(listings, l)
	}
	return listings, nil
}

func listingConditions(filter repositories.ListingFilter) []exp.Expression {
	var where []exp.Expression
	if v := strings.TrimSpace(filter.Location); v != "" {
		where = append(where, goqu.C("city").ILike(likePattern(v)))
	}
	if v := strings.TrimSpace(filter.PropertyType); v != "" {
		where = append(where, goqu.C("property_type").ILike(likePattern(v)))
	}
	if filter.OwnerID != "" {
		where = append(where, goqu.C("owner_id").Eq(filter.OwnerID))
	}
	return where
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// likePattern matches any value containing v, with LIKE wildcards in v taken literally
func likePattern(v string) string {
	return "%" + likeEscaper.Replace(v) + "%"
}

func requireRow(result sql.Result, notFound string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewStorageError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(notFound)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
