package model

import "time"

// Tour statuses.  Only ACTIVE tours are visible through the catalog.
const (
    TourActive   = "ACTIVE"
    TourDraft    = "DRAFT"
    TourArchived = "ARCHIVED"
)

// Tour is a bookable eco-tour.  Prices are stored in cents; Price is the
// derived decimal value for clients.
type Tour struct {
    ID           uint64    `json:"id"`
    Title        string    `json:"title"`
    Description  string    `json:"description"`
    Location     string    `json:"location"`
    PriceCents   uint64    `json:"price_cents"`
    Price        float64   `json:"price"`
    Status       string    `json:"status"`
    CategoryID   *uint64   `json:"category_id"`
    CategoryName *string   `json:"category_name,omitempty"`
    ImageURL     *string   `json:"image_url"`
    DurationDays uint32    `json:"duration_days"`
    CreatedAt    time.Time `json:"created_at"`
}

// TourDetail adds review aggregates to a tour.
type TourDetail struct {
    Tour
    AverageRating float64 `json:"average_rating"`
    ReviewCount   int64   `json:"review_count"`
}

// FeaturedTour is one entry of the homepage ranking.  Score is computed by
// the database as 0.4*AverageRating + 0.6*BookingCount.
type FeaturedTour struct {
    Tour
    AverageRating float64 `json:"average_rating"`
    ReviewCount   int64   `json:"review_count"`
    BookingCount  int64   `json:"booking_count"`
    Score         float64 `json:"score"`
}

// TourLocation is a distinct location with the number of active tours there.
type TourLocation struct {
    Location  string `json:"location"`
    TourCount int64  `json:"tour_count"`
}
