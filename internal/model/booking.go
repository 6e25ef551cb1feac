package model

import "time"

// Booking statuses.
const (
    BookingPending   = "PENDING"
    BookingConfirmed = "CONFIRMED"
    BookingCancelled = "CANCELLED"
)

// Booking records a customer's trip on a tour.  PriceCents is the price
// snapshot taken when the booking was made.
type Booking struct {
    ID         uint64    `json:"id"`
    TourID     uint64    `json:"tour_id"`
    TourTitle  string    `json:"tour_title"`
    UserID     uint64    `json:"user_id"`
    Status     string    `json:"status"`
    PriceCents uint64    `json:"price_cents"`
    Guests     uint32    `json:"guests"`
    TravelDate time.Time `json:"travel_date"`
    CreatedAt  time.Time `json:"created_at"`
    UpdatedAt  time.Time `json:"updated_at"`
}
