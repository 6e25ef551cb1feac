package model

// TourRoute is a named path that a tour follows.
type TourRoute struct {
    ID              uint64     `json:"id"`
    TourID          uint64     `json:"tour_id"`
    Name            string     `json:"name"`
    Description     *string    `json:"description"`
    DistanceKm      float64    `json:"distance_km"`
    DurationMinutes uint32     `json:"duration_minutes"`
    Difficulty      string     `json:"difficulty"`
    Waypoints       []Waypoint `json:"waypoints"`
}

// Waypoint is a point of interest.  RouteID is nil for standalone
// reference points (trailheads, lodges) not bound to a route.
type Waypoint struct {
    ID          uint64  `json:"id"`
    RouteID     *uint64 `json:"route_id"`
    Name        string  `json:"name"`
    Description *string `json:"description"`
    Latitude    float64 `json:"latitude"`
    Longitude   float64 `json:"longitude"`
    Kind        string  `json:"kind"`
    Sequence    uint32  `json:"sequence"`
}
