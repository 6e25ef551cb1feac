package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/ecotour-booking/internal/model"
)

// RouteRepo reads tour routes and their waypoints (reference data).
type RouteRepo struct {
	db *sql.DB
}

func NewRouteRepo(db *sql.DB) *RouteRepo { return &RouteRepo{db: db} }

const waypointColumns = "id, route_id, name, description, latitude, longitude, kind, sequence"

func scanWaypoint(s rowScanner) (model.Waypoint, error) {
	var w model.Waypoint
	err := s.Scan(&w.ID, &w.RouteID, &w.Name, &w.Description, &w.Latitude, &w.Longitude, &w.Kind, &w.Sequence)
	return w, err
}

// ListByTour returns the tour's routes ordered by id, each carrying its
// waypoints ordered by sequence.  Two queries are issued: routes, then all
// of their waypoints at once.
func (r *RouteRepo) ListByTour(ctx context.Context, tourID uint64) ([]model.TourRoute, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, tour_id, name, description, distance_km, duration_minutes, difficulty
		 FROM tour_routes WHERE tour_id = ? ORDER BY id`, tourID)
	if err != nil {
		return nil, err
	}
	routes := make([]model.TourRoute, 0)
	index := map[uint64]int{}
	for rows.Next() {
		var rt model.TourRoute
		if err := rows.Scan(&rt.ID, &rt.TourID, &rt.Name, &rt.Description, &rt.DistanceKm, &rt.DurationMinutes, &rt.Difficulty); err != nil {
			rows.Close()
			return nil, err
		}
		rt.Waypoints = []model.Waypoint{}
		index[rt.ID] = len(routes)
		routes = append(routes, rt)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()
	if len(routes) == 0 {
		return routes, nil
	}

	placeholders := make([]string, len(routes))
	args := make([]any, len(routes))
	for i, rt := range routes {
		placeholders[i] = "?"
		args[i] = rt.ID
	}
	wpRows, err := r.db.QueryContext(ctx,
		"SELECT "+waypointColumns+" FROM waypoints WHERE route_id IN ("+strings.Join(placeholders, ",")+") ORDER BY route_id, sequence, id",
		args...)
	if err != nil {
		return nil, err
	}
	defer wpRows.Close()
	for wpRows.Next() {
		w, err := scanWaypoint(wpRows)
		if err != nil {
			return nil, err
		}
		if w.RouteID == nil {
			continue
		}
		if i, ok := index[*w.RouteID]; ok {
			routes[i].Waypoints = append(routes[i].Waypoints, w)
		}
	}
	return routes, wpRows.Err()
}

// Waypoints lists every waypoint, optionally restricted to one kind.
func (r *RouteRepo) Waypoints(ctx context.Context, kind string) ([]model.Waypoint, error) {
	q := "SELECT " + waypointColumns + " FROM waypoints"
	args := []any{}
	if kind != "" {
		q += " WHERE kind = ?"
		args = append(args, strings.ToUpper(kind))
	}
	q += " ORDER BY route_id, sequence, id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Waypoint, 0)
	for rows.Next() {
		w, err := scanWaypoint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}
