package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/ecotour-booking/internal/model"
)

// BookingRepo is read-only: bookings are created by the checkout flow
// outside this service.
type BookingRepo struct {
	db *sql.DB
}

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// ListByUser returns a user's bookings with the tour title, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	const q = `SELECT b.id, b.tour_id, t.title, b.user_id, b.status, b.price_cents, b.guests,
		b.travel_date, b.created_at, b.updated_at
		FROM bookings b
		JOIN tours t ON t.id = b.tour_id
		WHERE b.user_id = ?
		ORDER BY b.created_at DESC, b.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.TourID, &b.TourTitle, &b.UserID, &b.Status, &b.PriceCents, &b.Guests,
			&b.TravelDate, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Totals counts bookings per status created since the given time and sums
// the price snapshots of the confirmed ones.
func (r *BookingRepo) Totals(ctx context.Context, since time.Time) (model.BookingTotals, error) {
	const q = `SELECT status, COUNT(*), COALESCE(SUM(price_cents), 0)
		FROM bookings WHERE created_at >= ? GROUP BY status ORDER BY status`
	rows, err := r.db.QueryContext(ctx, q, since)
	if err != nil {
		return model.BookingTotals{}, err
	}
	defer rows.Close()

	totals := model.BookingTotals{ByStatus: []model.CountByKey{}}
	for rows.Next() {
		var (
			status string
			count  int64
			cents  uint64
		)
		if err := rows.Scan(&status, &count, &cents); err != nil {
			return model.BookingTotals{}, err
		}
		totals.ByStatus = append(totals.ByStatus, model.CountByKey{Key: status, Count: count})
		if status == model.BookingConfirmed {
			totals.ConfirmedRevenueCents = cents
		}
	}
	return totals, rows.Err()
}
