package entities

import (
	"time"
)

// BookingStatus represents the state of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is a reservation of a listing by a user
type Booking struct {
	ID         string        `json:"_id" db:"id" bson:"_id"`
	ListingID  string        `json:"property" db:"listing_id" bson:"property"`
	UserID     string        `json:"user" db:"user_id" bson:"user"`
	CheckIn    time.Time     `json:"checkIn" db:"check_in" bson:"checkIn"`
	CheckOut   time.Time     `json:"checkOut" db:"check_out" bson:"checkOut"`
	Guests     int           `json:"guests" db:"guests" bson:"guests"`
	TotalPrice float64       `json:"totalPrice" db:"total_price" bson:"totalPrice"`
	Status     BookingStatus `json:"status" db:"status" bson:"status"`
	CreatedAt  time.Time     `json:"createdAt" db:"created_at" bson:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt" db:"updated_at" bson:"updatedAt"`
}

// Nights returns the number of nights between check-in and check-out
func (b *Booking) Nights() int {
	in := truncateDay(b.CheckIn)
	out := truncateDay(b.CheckOut)
	return int(out.Sub(in).Hours() / 24)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
