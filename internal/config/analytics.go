package config

// Analytics event kinds accepted by POST /v1/analytics/track/:kind.
const (
    KindPageView     = "pageview"
    KindSearch       = "search"
    KindTourInterest = "tour-interest"
    KindFunnel       = "funnel"
    KindEvent        = "event"
)

// AnalyticsConfig holds one switch per analytics table.  A disabled kind is
// accepted by the tracking endpoint but never written, which lets a
// deployment run without the analytics tables.
type AnalyticsConfig struct {
    PageViews     bool
    Searches      bool
    TourInterests bool
    Funnels       bool
    Events        bool
}

// LoadAnalyticsConfig reads ANALYTICS_* variables; every kind defaults to on.
func LoadAnalyticsConfig() AnalyticsConfig {
    return AnalyticsConfig{
        PageViews:     envBool("ANALYTICS_PAGE_VIEWS", true),
        Searches:      envBool("ANALYTICS_SEARCHES", true),
        TourInterests: envBool("ANALYTICS_TOUR_INTERESTS", true),
        Funnels:       envBool("ANALYTICS_FUNNELS", true),
        Events:        envBool("ANALYTICS_EVENTS", true),
    }
}

// Enabled reports whether the given kind should be stored.  Unknown kinds
// are never enabled.
func (a AnalyticsConfig) Enabled(kind string) bool {
    switch kind {
    case KindPageView:
        return a.PageViews
    case KindSearch:
        return a.Searches
    case KindTourInterest:
        return a.TourInterests
    case KindFunnel:
        return a.Funnels
    case KindEvent:
        return a.Events
    }
    return false
}
