package model

import "time"

// Review is a customer's rating of a tour together with the interaction
// counters (helpful, like) and the moderation flag.
type Review struct {
    ID           uint64     `json:"id"`
    TourID       uint64     `json:"tour_id"`
    UserID       uint64     `json:"user_id"`
    Rating       uint8      `json:"rating"`
    Comment      string     `json:"comment"`
    HelpfulCount uint32     `json:"helpful_count"`
    LikeCount    uint32     `json:"like_count"`
    Liked        bool       `json:"liked"`
    Reported     bool       `json:"reported"`
    ReportReason *string    `json:"report_reason,omitempty"`
    ReportedBy   *string    `json:"reported_by,omitempty"`
    ReportedAt   *time.Time `json:"reported_at,omitempty"`
    CreatedAt    time.Time  `json:"created_at"`
}

// AdminReview is a review joined with the tour title and author email for
// the moderation list.
type AdminReview struct {
    Review
    TourTitle   string `json:"tour_title"`
    AuthorEmail string `json:"author_email"`
}
