// Package repository contains data access logic separated from HTTP handlers.
// This file covers the read side of the `tours` table: detail lookup, the
// featured ranking and the location index.  Tours are written by operators
// directly in SQL; the API never mutates them.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/ecotour-booking/internal/model"
)

// ErrTourNotFound is returned when no tour has the requested id.
var ErrTourNotFound = errors.New("tour not found")

// MaxFeatured bounds the homepage ranking.
const MaxFeatured = 8

// Weights of the featured score.
const (
	featuredRatingWeight  = 0.4
	featuredBookingWeight = 0.6
)

const tourColumns = `t.id, t.title, t.description, t.location, t.price_cents, t.status,
	t.category_id, c.name, t.image_url, t.duration_days, t.created_at`

type TourRepo struct {
	db *sql.DB
}

func NewTourRepo(db *sql.DB) *TourRepo { return &TourRepo{db: db} }

func scanTour(s rowScanner, extra ...any) (model.Tour, error) {
	var t model.Tour
	dest := []any{&t.ID, &t.Title, &t.Description, &t.Location, &t.PriceCents, &t.Status,
		&t.CategoryID, &t.CategoryName, &t.ImageURL, &t.DurationDays, &t.CreatedAt}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return model.Tour{}, err
	}
	t.Price = float64(t.PriceCents) / 100.0
	return t, nil
}

// GetDetail returns an active tour with its review aggregates.  Drafts and
// archived tours are reported as ErrTourNotFound.
func (r *TourRepo) GetDetail(ctx context.Context, id uint64) (model.TourDetail, error) {
	q := "SELECT " + tourColumns + `,
		COALESCE((SELECT AVG(rating) FROM reviews WHERE tour_id = t.id), 0),
		(SELECT COUNT(*) FROM reviews WHERE tour_id = t.id)
		FROM tours t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.id = ? AND t.status = ?`
	var d model.TourDetail
	tour, err := scanTour(r.db.QueryRowContext(ctx, q, id, model.TourActive), &d.AverageRating, &d.ReviewCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.TourDetail{}, ErrTourNotFound
		}
		return model.TourDetail{}, err
	}
	d.Tour = tour
	return d, nil
}

// Exists reports whether an active tour with the id exists.
func (r *TourRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tours WHERE id = ? AND status = ?", id, model.TourActive).Scan(&n)
	return n > 0, err
}

// ClampFeaturedLimit maps any requested size onto 1..MaxFeatured; zero or
// negative means the maximum.
func ClampFeaturedLimit(n int) int {
	if n <= 0 || n > MaxFeatured {
		return MaxFeatured
	}
	return n
}

// Featured ranks active tours by 0.4*avg(rating) + 0.6*confirmed bookings,
// newest first on ties.  Tours with neither reviews nor confirmed bookings
// are left out.  The ranking is recomputed by the database on every call.
func (r *TourRepo) Featured(ctx context.Context, limit int) ([]model.FeaturedTour, error) {
	q := "SELECT " + tourColumns + `,
		COALESCE(rv.avg_rating, 0) AS avg_rating,
		COALESCE(rv.review_count, 0) AS review_count,
		COALESCE(bk.booking_count, 0) AS booking_count,
		(? * COALESCE(rv.avg_rating, 0) + ? * COALESCE(bk.booking_count, 0)) AS score
		FROM tours t
		LEFT JOIN categories c ON c.id = t.category_id
		LEFT JOIN (
			SELECT tour_id, AVG(rating) AS avg_rating, COUNT(*) AS review_count
			FROM reviews GROUP BY tour_id
		) rv ON rv.tour_id = t.id
		LEFT JOIN (
			SELECT tour_id, COUNT(*) AS booking_count
			FROM bookings WHERE status = ? GROUP BY tour_id
		) bk ON bk.tour_id = t.id
		WHERE t.status = ?
		  AND (COALESCE(rv.review_count, 0) > 0 OR COALESCE(bk.booking_count, 0) > 0)
		ORDER BY score DESC, t.created_at DESC
		LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q,
		featuredRatingWeight, featuredBookingWeight, model.BookingConfirmed, model.TourActive, ClampFeaturedLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.FeaturedTour, 0, MaxFeatured)
	for rows.Next() {
		var f model.FeaturedTour
		tour, err := scanTour(rows, &f.AverageRating, &f.ReviewCount, &f.BookingCount, &f.Score)
		if err != nil {
			return nil, err
		}
		f.Tour = tour
		out = append(out, f)
	}
	return out, rows.Err()
}

// Locations lists distinct locations of active tours with their counts.
func (r *TourRepo) Locations(ctx context.Context) ([]model.TourLocation, error) {
	const q = `SELECT location, COUNT(*) FROM tours
		WHERE status = ? GROUP BY location ORDER BY location`
	rows, err := r.db.QueryContext(ctx, q, model.TourActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.TourLocation, 0)
	for rows.Next() {
		var l model.TourLocation
		if err := rows.Scan(&l.Location, &l.TourCount); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
