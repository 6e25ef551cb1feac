package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/iliyamo/ecotour-booking/internal/model"
)

// AnalyticsRepo appends analytics rows and reads the admin rollup.  Each
// Insert* method is exactly one INSERT; there is no batching or retry.
type AnalyticsRepo struct {
	db *sql.DB
}

func NewAnalyticsRepo(db *sql.DB) *AnalyticsRepo { return &AnalyticsRepo{db: db} }

// jsonArg converts an optional JSON payload into a driver value, mapping
// absent and literal null payloads to SQL NULL.
func jsonArg(raw json.RawMessage) any {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return string(raw)
}

func (r *AnalyticsRepo) InsertPageView(ctx context.Context, v model.PageView) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO page_views (session_id, user_id, page_path, referrer, user_agent, duration_ms, metadata)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		v.SessionID, v.UserID, v.PagePath, v.Referrer, v.UserAgent, v.DurationMs, jsonArg(v.Metadata))
	return err
}

func (r *AnalyticsRepo) InsertSearch(ctx context.Context, s model.SearchQuery) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO search_queries (session_id, user_id, query, filters, results_count, metadata)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.SessionID, s.UserID, s.Query, jsonArg(s.Filters), s.ResultsCount, jsonArg(s.Metadata))
	return err
}

func (r *AnalyticsRepo) InsertTourInterest(ctx context.Context, ti model.TourInterest) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tour_interests (session_id, user_id, tour_id, interest_type, metadata)
		 VALUES (?, ?, ?, ?, ?)`,
		ti.SessionID, ti.UserID, ti.TourID, ti.InterestType, jsonArg(ti.Metadata))
	return err
}

func (r *AnalyticsRepo) InsertFunnelStep(ctx context.Context, f model.FunnelStep) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO conversion_funnels (session_id, user_id, tour_id, step, step_order, metadata)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		f.SessionID, f.UserID, f.TourID, f.Step, f.StepOrder, jsonArg(f.Metadata))
	return err
}

func (r *AnalyticsRepo) InsertEvent(ctx context.Context, e model.UserEvent) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_events (session_id, user_id, event_type, event_data)
		 VALUES (?, ?, ?, ?)`,
		e.SessionID, e.UserID, e.EventType, jsonArg(e.EventData))
	return err
}

// PageViewTotals returns total views and distinct sessions since the time.
func (r *AnalyticsRepo) PageViewTotals(ctx context.Context, since time.Time) (views, sessions int64, err error) {
	err = r.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COUNT(DISTINCT session_id) FROM page_views WHERE created_at >= ?", since).
		Scan(&views, &sessions)
	return views, sessions, err
}

func (r *AnalyticsRepo) TopPages(ctx context.Context, since time.Time, limit int) ([]model.CountByKey, error) {
	return r.countBy(ctx,
		`SELECT page_path, COUNT(*) AS n FROM page_views WHERE created_at >= ?
		 GROUP BY page_path ORDER BY n DESC, page_path LIMIT ?`, since, limit)
}

func (r *AnalyticsRepo) TopSearches(ctx context.Context, since time.Time, limit int) ([]model.CountByKey, error) {
	return r.countBy(ctx,
		`SELECT LOWER(query) AS q, COUNT(*) AS n FROM search_queries WHERE created_at >= ?
		 GROUP BY q ORDER BY n DESC, q LIMIT ?`, since, limit)
}

func (r *AnalyticsRepo) FunnelSteps(ctx context.Context, since time.Time) ([]model.CountByKey, error) {
	return r.countBy(ctx,
		`SELECT step, COUNT(DISTINCT session_id) AS n FROM conversion_funnels WHERE created_at >= ?
		 GROUP BY step ORDER BY MIN(COALESCE(step_order, 0)), n DESC`, since)
}

func (r *AnalyticsRepo) EventTypes(ctx context.Context, since time.Time, limit int) ([]model.CountByKey, error) {
	return r.countBy(ctx,
		`SELECT event_type, COUNT(*) AS n FROM user_events WHERE created_at >= ?
		 GROUP BY event_type ORDER BY n DESC, event_type LIMIT ?`, since, limit)
}

// TopTours ranks tours by the number of interest signals since the time.
func (r *AnalyticsRepo) TopTours(ctx context.Context, since time.Time, limit int) ([]model.TourInterestCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT ti.tour_id, COALESCE(t.title, ''), COUNT(*) AS n
		 FROM tour_interests ti LEFT JOIN tours t ON t.id = ti.tour_id
		 WHERE ti.created_at >= ?
		 GROUP BY ti.tour_id, t.title ORDER BY n DESC, ti.tour_id LIMIT ?`, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.TourInterestCount, 0, limit)
	for rows.Next() {
		var tc model.TourInterestCount
		if err := rows.Scan(&tc.TourID, &tc.TourTitle, &tc.Count); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

func (r *AnalyticsRepo) countBy(ctx context.Context, q string, args ...any) ([]model.CountByKey, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.CountByKey, 0)
	for rows.Next() {
		var c model.CountByKey
		if err := rows.Scan(&c.Key, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
