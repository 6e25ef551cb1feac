package model

import "encoding/json"

// PageView is one row of `page_views`.
type PageView struct {
    SessionID  string          `json:"session_id"`
    UserID     *uint64         `json:"user_id"`
    PagePath   string          `json:"page_path"`
    Referrer   *string         `json:"referrer"`
    UserAgent  *string         `json:"user_agent"`
    DurationMs *uint32         `json:"duration_ms"`
    Metadata   json.RawMessage `json:"metadata"`
}

// SearchQuery is one row of `search_queries`.
type SearchQuery struct {
    SessionID    string          `json:"session_id"`
    UserID       *uint64         `json:"user_id"`
    Query        string          `json:"query"`
    Filters      json.RawMessage `json:"filters"`
    ResultsCount *uint32         `json:"results_count"`
    Metadata     json.RawMessage `json:"metadata"`
}

// TourInterest is one row of `tour_interests`.
type TourInterest struct {
    SessionID    string          `json:"session_id"`
    UserID       *uint64         `json:"user_id"`
    TourID       uint64          `json:"tour_id"`
    InterestType string          `json:"interest_type"`
    Metadata     json.RawMessage `json:"metadata"`
}

// FunnelStep is one row of `conversion_funnels`.
type FunnelStep struct {
    SessionID string          `json:"session_id"`
    UserID    *uint64         `json:"user_id"`
    TourID    *uint64         `json:"tour_id"`
    Step      string          `json:"step"`
    StepOrder *uint32         `json:"step_order"`
    Metadata  json.RawMessage `json:"metadata"`
}

// UserEvent is one row of `user_events`.
type UserEvent struct {
    SessionID string          `json:"session_id"`
    UserID    *uint64         `json:"user_id"`
    EventType string          `json:"event_type"`
    EventData json.RawMessage `json:"event_data"`
}

// CountByKey is a generic (label, count) pair used by the rollup.
type CountByKey struct {
    Key   string `json:"key"`
    Count int64  `json:"count"`
}

// TourInterestCount ranks tours by interest signals.
type TourInterestCount struct {
    TourID    uint64 `json:"tour_id"`
    TourTitle string `json:"tour_title"`
    Count     int64  `json:"count"`
}

// BookingTotals summarises bookings in the window.
type BookingTotals struct {
    ByStatus              []CountByKey `json:"by_status"`
    ConfirmedRevenueCents uint64       `json:"confirmed_revenue_cents"`
}

// AnalyticsSummary is the admin rollup.  Sections whose analytics kind is
// disabled are left nil and omitted from the response.
type AnalyticsSummary struct {
    Days           int                 `json:"days"`
    PageViews      *int64              `json:"page_views,omitempty"`
    UniqueSessions *int64              `json:"unique_sessions,omitempty"`
    TopPages       []CountByKey        `json:"top_pages,omitempty"`
    TopSearches    []CountByKey        `json:"top_searches,omitempty"`
    TopTours       []TourInterestCount `json:"top_tours,omitempty"`
    FunnelSteps    []CountByKey        `json:"funnel_steps,omitempty"`
    EventTypes     []CountByKey        `json:"event_types,omitempty"`
    Bookings       BookingTotals       `json:"bookings"`
}
