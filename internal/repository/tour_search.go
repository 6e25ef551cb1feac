package repository

import (
	"context"
	"strings"

	"github.com/iliyamo/ecotour-booking/internal/model"
)

// TourSearchQuery defines filters & pagination for the public tour list.
type TourSearchQuery struct {
	Text          string
	CategoryID    uint64
	Location      string
	MinPriceCents uint64
	MaxPriceCents uint64
	Page          int
	PageSize      int
}

// Search lists active tours matching q, newest first, with the total count.
func (r *TourRepo) Search(ctx context.Context, q TourSearchQuery) ([]model.Tour, int64, error) {
	where := []string{"t.status = ?"}
	args := []any{model.TourActive}

	if q.Text != "" {
		where = append(where, "(LOWER(t.title) LIKE ? OR LOWER(t.description) LIKE ?)")
		like := "%" + strings.ToLower(q.Text) + "%"
		args = append(args, like, like)
	}
	if q.CategoryID > 0 {
		where = append(where, "t.category_id = ?")
		args = append(args, q.CategoryID)
	}
	if q.Location != "" {
		where = append(where, "LOWER(t.location) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Location)+"%")
	}
	if q.MinPriceCents > 0 {
		where = append(where, "t.price_cents >= ?")
		args = append(args, q.MinPriceCents)
	}
	if q.MaxPriceCents > 0 {
		where = append(where, "t.price_cents <= ?")
		args = append(args, q.MaxPriceCents)
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tours t WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := "SELECT " + tourColumns + `
		FROM tours t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE ` + cond + `
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT ? OFFSET ?`
	argsData := append(append([]any{}, args...), q.PageSize, (q.Page-1)*q.PageSize)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Tour, 0, q.PageSize)
	for rows.Next() {
		t, err := scanTour(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
