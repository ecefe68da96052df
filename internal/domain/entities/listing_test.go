package entities_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartrentsystem/backend/internal/domain/entities"
)

func ptr(f float64) *float64 { return &f }

func TestImageRef_AcceptsStringAndObject(t *testing.T) {
	raw := `{"_id":"1","images":["https://img/a.jpg",{"url":"https://img/b.jpg"},null]}`

	var l entities.Listing
	require.NoError(t, json.Unmarshal([]byte(raw), &l))

	require.Len(t, l.Images, 3)
	assert.Equal(t, "https://img/a.jpg", l.Images[0].URL)
	assert.Equal(t, "https://img/b.jpg", l.Images[1].URL)
	assert.Equal(t, []string{"https://img/a.jpg", "https://img/b.jpg"}, l.ImageURLs())
}

func TestImageRef_RejectsNumbers(t *testing.T) {
	var img entities.ImageRef
	assert.Error(t, json.Unmarshal([]byte(`42`), &img))
}

func TestListing_AbsentNumericsDefault(t *testing.T) {
	var l entities.Listing
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"x","price":10}`), &l))

	assert.Nil(t, l.Capacity)
	assert.Equal(t, 0, l.Bedrooms())
	assert.Equal(t, 0.0, l.EffectiveRating())
	assert.True(t, l.CreatedAt.IsZero())
}

func TestListing_EffectiveRating(t *testing.T) {
	tests := []struct {
		name    string
		listing entities.Listing
		want    float64
	}{
		{"average wins", entities.Listing{AverageRating: ptr(4.5), Rating: ptr(3)}, 4.5},
		{"zero average falls through", entities.Listing{AverageRating: ptr(0), Rating: ptr(3)}, 3},
		{"legacy only", entities.Listing{Rating: ptr(2)}, 2},
		{"none", entities.Listing{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.listing.EffectiveRating())
		})
	}
}

func TestUser_WishlistIndex(t *testing.T) {
	u := entities.User{Wishlist: []string{"a", "b"}}
	assert.Equal(t, 1, u.WishlistIndex("b"))
	assert.Equal(t, -1, u.WishlistIndex("c"))
	assert.True(t, u.InWishlist("a"))
}

func TestBooking_Nights(t *testing.T) {
	b := entities.Booking{
		CheckIn:  time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2026, 3, 4, 11, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, 3, b.Nights())
}

func TestIsAmenity(t *testing.T) {
	assert.True(t, entities.IsAmenity("hotTub"))
	assert.False(t, entities.IsAmenity("topRated"))
}
