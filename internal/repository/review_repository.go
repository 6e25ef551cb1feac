package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/ecotour-booking/internal/model"
)

// ErrReviewNotFound is returned when no review has the requested id.
var ErrReviewNotFound = errors.New("review not found")

// reviewColumns is shared by every query that scans into model.Review; the
// "r" alias lets the admin listing join tours and users.
const reviewColumns = `r.id, r.tour_id, r.user_id, r.rating, r.comment, r.helpful_count,
	r.like_count, r.liked, r.reported, r.report_reason, r.reported_by, r.reported_at, r.created_at`

// ReviewRepo owns the `reviews` table.  Every interaction is a single UPDATE
// that derives the new value from the stored one, so concurrent helpful
// marks or like toggles are serialized by the row lock MySQL takes for the
// statement and no update is lost.
type ReviewRepo struct {
	db *sql.DB
}

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReview(s rowScanner, extra ...any) (model.Review, error) {
	var rv model.Review
	dest := []any{&rv.ID, &rv.TourID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.HelpfulCount,
		&rv.LikeCount, &rv.Liked, &rv.Reported, &rv.ReportReason, &rv.ReportedBy, &rv.ReportedAt, &rv.CreatedAt}
	err := s.Scan(append(dest, extra...)...)
	return rv, err
}

// GetByID returns ErrReviewNotFound when the id is unknown.
func (r *ReviewRepo) GetByID(ctx context.Context, id uint64) (model.Review, error) {
	rv, err := scanReview(r.db.QueryRowContext(ctx, "SELECT "+reviewColumns+" FROM reviews r WHERE r.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Review{}, ErrReviewNotFound
	}
	return rv, err
}

// MarkHelpful increments helpful_count and returns the updated row.
func (r *ReviewRepo) MarkHelpful(ctx context.Context, id uint64) (model.Review, error) {
	return r.updateAndGet(ctx, id, "UPDATE reviews SET helpful_count = helpful_count + 1 WHERE id = ?", id)
}

// ToggleLike flips liked and moves like_count by one in the same direction.
// MySQL evaluates single-table SET assignments left to right, so like_count
// reads the old value of liked.
func (r *ReviewRepo) ToggleLike(ctx context.Context, id uint64) (model.Review, error) {
	const q = "UPDATE reviews SET like_count = IF(liked, GREATEST(like_count, 1) - 1, like_count + 1), liked = NOT liked WHERE id = ?"
	return r.updateAndGet(ctx, id, q, id)
}

// Report flags the review for moderation, recording who reported it and why.
func (r *ReviewRepo) Report(ctx context.Context, id uint64, reason, reporter string) (model.Review, error) {
	const q = "UPDATE reviews SET reported = TRUE, report_reason = ?, reported_by = ?, reported_at = UTC_TIMESTAMP() WHERE id = ?"
	return r.updateAndGet(ctx, id, q, reason, reporter, id)
}

func (r *ReviewRepo) updateAndGet(ctx context.Context, id uint64, q string, args ...any) (model.Review, error) {
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return model.Review{}, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return model.Review{}, err
	} else if n == 0 {
		return model.Review{}, ErrReviewNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes exactly one review or returns ErrReviewNotFound.
func (r *ReviewRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM reviews WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrReviewNotFound
	}
	return nil
}

// ListByTour returns a tour's reviews, newest first.
func (r *ReviewRepo) ListByTour(ctx context.Context, tourID uint64) ([]model.Review, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+reviewColumns+" FROM reviews r WHERE r.tour_id = ? ORDER BY r.created_at DESC, r.id DESC", tourID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Review, 0)
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

// AdminReviewQuery filters the moderation list.  A nil Reported lists all.
type AdminReviewQuery struct {
	Reported *bool
	TourID   uint64
	Page     int
	PageSize int
}

// ListAdmin returns reviews joined with tour title and author email, plus
// the total matching count for paging.
func (r *ReviewRepo) ListAdmin(ctx context.Context, q AdminReviewQuery) ([]model.AdminReview, int64, error) {
	where := []string{}
	args := []any{}
	if q.Reported != nil {
		where = append(where, "r.reported = ?")
		args = append(args, *q.Reported)
	}
	if q.TourID > 0 {
		where = append(where, "r.tour_id = ?")
		args = append(args, q.TourID)
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reviews r WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := "SELECT " + reviewColumns + `, t.title, u.email
		FROM reviews r
		JOIN tours t ON t.id = r.tour_id
		JOIN users u ON u.id = r.user_id
		WHERE ` + cond + `
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT ? OFFSET ?`
	argsData := append(append([]any{}, args...), q.PageSize, (q.Page-1)*q.PageSize)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.AdminReview, 0, q.PageSize)
	for rows.Next() {
		var ar model.AdminReview
		rv, err := scanReview(rows, &ar.TourTitle, &ar.AuthorEmail)
		if err != nil {
			return nil, 0, err
		}
		ar.Review = rv
		out = append(out, ar)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
