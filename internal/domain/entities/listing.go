package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Amenity names understood by the catalog
const (
	AmenityWifi        = "wifi"
	AmenityPool        = "pool"
	AmenityKitchen     = "kitchen"
	AmenityParking     = "parking"
	AmenityPetFriendly = "petFriendly"
	AmenityAC          = "ac"
	AmenityHotTub      = "hotTub"
	AmenityBreakfast   = "breakfast"
	AmenityWorkspace   = "workspace"
	AmenityWasher      = "washer"
	AmenityDryer       = "dryer"
	AmenityGym         = "gym"
)

// AmenityNames lists the amenity vocabulary in display order
var AmenityNames = []string{
	AmenityWifi,
	AmenityPool,
	AmenityKitchen,
	AmenityParking,
	AmenityPetFriendly,
	AmenityAC,
	AmenityHotTub,
	AmenityBreakfast,
	AmenityWorkspace,
	AmenityWasher,
	AmenityDryer,
	AmenityGym,
}

// IsAmenity reports whether name belongs to the amenity vocabulary
func IsAmenity(name string) bool {
	for _, a := range AmenityNames {
		if a == name {
			return true
		}
	}
	return false
}

// Listing represents one rentable property
type Listing struct {
	ID            string          `json:"_id" db:"id" bson:"_id"`
	Title         string          `json:"title" db:"title" bson:"title"`
	Description   string          `json:"description" db:"description" bson:"description"`
	Price         float64         `json:"price" db:"price" bson:"price"`
	PropertyType  string          `json:"propertyType" db:"property_type" bson:"propertyType"`
	Category      string          `json:"category" db:"category" bson:"category"`
	Location      Location        `json:"location" db:"-" bson:"location"`
	Capacity      *Capacity       `json:"capacity,omitempty" db:"-" bson:"capacity,omitempty"`
	Amenities     map[string]bool `json:"amenities,omitempty" db:"-" bson:"amenities,omitempty"`
	Size          float64         `json:"size,omitempty" db:"size" bson:"size,omitempty"`
	AverageRating *float64        `json:"averageRating,omitempty" db:"average_rating" bson:"averageRating,omitempty"`
	Rating        *float64        `json:"rating,omitempty" db:"rating" bson:"rating,omitempty"`
	Trending      bool            `json:"trending" db:"trending" bson:"trending"`
	Images        []ImageRef      `json:"images" db:"-" bson:"-"`
	OwnerID       string          `json:"owner,omitempty" db:"owner_id" bson:"owner,omitempty"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at" bson:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt" db:"updated_at" bson:"updatedAt"`
}

// Location is where a listing is
type Location struct {
	City    string `json:"city" db:"city" bson:"city"`
	Country string `json:"country" db:"country" bson:"country"`
	State   string `json:"state,omitempty" db:"state" bson:"state,omitempty"`
	Address string `json:"address,omitempty" db:"address" bson:"address,omitempty"`
}

// Capacity describes how many people and rooms a listing holds
type Capacity struct {
	Bedrooms  int `json:"bedrooms" db:"bedrooms" bson:"bedrooms"`
	Bathrooms int `json:"bathrooms" db:"bathrooms" bson:"bathrooms"`
	Guests    int `json:"guests" db:"guests" bson:"guests"`
	Beds      int `json:"beds" db:"beds" bson:"beds"`
}

// Bedrooms returns the bedroom count, or 0 when capacity is unknown
func (l *Listing) Bedrooms() int {
	if l.Capacity == nil {
		return 0
	}
	return l.Capacity.Bedrooms
}

// EffectiveRating returns averageRating, then the legacy rating, then 0.
// A zero averageRating counts as unset.
func (l *Listing) EffectiveRating() float64 {
	if l.AverageRating != nil && *l.AverageRating != 0 {
		return *l.AverageRating
	}
	if l.Rating != nil {
		return *l.Rating
	}
	return 0
}

// HasAmenity reports whether the amenity is flagged true
func (l *Listing) HasAmenity(name string) bool {
	return l.Amenities[name]
}

// ImageURLs returns the image URLs in order
func (l *Listing) ImageURLs() []string {
	urls := make([]string, 0, len(l.Images))
	for _, img := range l.Images {
		if img.URL != "" {
			urls = append(urls, img.URL)
		}
	}
	return urls
}

// ImageRef is an image reference. On the wire it is either a bare URL
// string or an object carrying a url field.
type ImageRef struct {
	URL string `json:"url"`
}

// UnmarshalJSON accepts "https://..." as well as {"url": "https://..."}
func (i *ImageRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*i = ImageRef{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		i.URL = s
		return nil
	}

	var obj struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("image reference must be a string or an object with url: %w", err)
	}
	i.URL = obj.URL
	return nil
}

// ImagesFromURLs converts plain URLs into image references
func ImagesFromURLs(urls []string) []ImageRef {
	images := make([]ImageRef, 0, len(urls))
	for _, u := range urls {
		images = append(images, ImageRef{URL: u})
	}
	return images
}
