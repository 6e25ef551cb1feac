// Package queue defines message payloads exchanged over the message broker.
package queue

// ReviewReportedQueue is the durable queue review reports are published to.
const ReviewReportedQueue = "review.reported"

// ReviewReportedEvent is published after a review is flagged.  It carries
// enough for a moderator log line without a database lookup.
type ReviewReportedEvent struct {
    ReviewID   uint64 `json:"review_id"`
    TourID     uint64 `json:"tour_id"`
    Rating     uint8  `json:"rating"`
    Reason     string `json:"reason"`
    ReportedBy string `json:"reported_by"`
    ReportedAt string `json:"reported_at"`
}
