package handler

import (
    "context"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/ecotour-booking/internal/config"
    "github.com/iliyamo/ecotour-booking/internal/model"
    "github.com/iliyamo/ecotour-booking/internal/repository"
)

// AnalyticsHandler ingests client-side analytics.  Every kind performs a
// single insert; kinds switched off in Flags are acknowledged and dropped.
type AnalyticsHandler struct {
    Repo  *repository.AnalyticsRepo
    Flags config.AnalyticsConfig
}

func NewAnalyticsHandler(r *repository.AnalyticsRepo, flags config.AnalyticsConfig) *AnalyticsHandler {
    return &AnalyticsHandler{Repo: r, Flags: flags}
}

// Track dispatches POST /v1/analytics/track/:kind.
func (h *AnalyticsHandler) Track(c echo.Context) error {
    kind := strings.ToLower(c.Param("kind"))
    switch kind {
    case config.KindPageView:
        return h.trackPageView(c)
    case config.KindSearch:
        return h.trackSearch(c)
    case config.KindTourInterest:
        return h.trackTourInterest(c)
    case config.KindFunnel:
        return h.trackFunnel(c)
    case config.KindEvent:
        return h.trackEvent(c)
    }
    return notFound(c, "Unknown analytics kind")
}

func notConfigured(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Analytics not configured"})
}

func required(c echo.Context, field string) error {
    return badRequest(c, field+" is required")
}

// attribute fills a missing user_id from the session, if any.
func attribute(c echo.Context, uid *uint64) *uint64 {
    if uid != nil {
        return uid
    }
    if id, ok := sessionUserID(c); ok {
        return &id
    }
    return nil
}

func (h *AnalyticsHandler) insert(c echo.Context, kind string, fn func(ctx context.Context) error) error {
    ctx, cancel := dbCtx(c)
    defer cancel()
    if err := fn(ctx); err != nil {
        return serverError(c, "Failed to track "+kind, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *AnalyticsHandler) trackPageView(c echo.Context) error {
    if !h.Flags.Enabled(config.KindPageView) {
        return notConfigured(c)
    }
    var v model.PageView
    if err := c.Bind(&v); err != nil {
        return badRequest(c, "invalid body")
    }
    if strings.TrimSpace(v.SessionID) == "" {
        return required(c, "session_id")
    }
    if strings.TrimSpace(v.PagePath) == "" {
        return required(c, "page_path")
    }
    if v.UserAgent == nil {
        if ua := c.Request().UserAgent(); ua != "" {
            v.UserAgent = &ua
        }
    }
    v.UserID = attribute(c, v.UserID)
    return h.insert(c, config.KindPageView, func(ctx context.Context) error { return h.Repo.InsertPageView(ctx, v) })
}

func (h *AnalyticsHandler) trackSearch(c echo.Context) error {
    if !h.Flags.Enabled(config.KindSearch) {
        return notConfigured(c)
    }
    var s model.SearchQuery
    if err := c.Bind(&s); err != nil {
        return badRequest(c, "invalid body")
    }
    if strings.TrimSpace(s.SessionID) == "" {
        return required(c, "session_id")
    }
    if strings.TrimSpace(s.Query) == "" {
        return required(c, "query")
    }
    s.UserID = attribute(c, s.UserID)
    return h.insert(c, config.KindSearch, func(ctx context.Context) error { return h.Repo.InsertSearch(ctx, s) })
}

func (h *AnalyticsHandler) trackTourInterest(c echo.Context) error {
    if !h.Flags.Enabled(config.KindTourInterest) {
        return notConfigured(c)
    }
    var ti model.TourInterest
    if err := c.Bind(&ti); err != nil {
        return badRequest(c, "invalid body")
    }
    if strings.TrimSpace(ti.SessionID) == "" {
        return required(c, "session_id")
    }
    if ti.TourID == 0 {
        return required(c, "tour_id")
    }
    if strings.TrimSpace(ti.InterestType) == "" {
        ti.InterestType = "view"
    }
    ti.UserID = attribute(c, ti.UserID)
    return h.insert(c, config.KindTourInterest, func(ctx context.Context) error { return h.Repo.InsertTourInterest(ctx, ti) })
}

func (h *AnalyticsHandler) trackFunnel(c echo.Context) error {
    if !h.Flags.Enabled(config.KindFunnel) {
        return notConfigured(c)
    }
    var f model.FunnelStep
    if err := c.Bind(&f); err != nil {
        return badRequest(c, "invalid body")
    }
    if strings.TrimSpace(f.SessionID) == "" {
        return required(c, "session_id")
    }
    if strings.TrimSpace(f.Step) == "" {
        return required(c, "step")
    }
    f.UserID = attribute(c, f.UserID)
    return h.insert(c, config.KindFunnel, func(ctx context.Context) error { return h.Repo.InsertFunnelStep(ctx, f) })
}

func (h *AnalyticsHandler) trackEvent(c echo.Context) error {
    if !h.Flags.Enabled(config.KindEvent) {
        return notConfigured(c)
    }
    var e model.UserEvent
    if err := c.Bind(&e); err != nil {
        return badRequest(c, "invalid body")
    }
    if strings.TrimSpace(e.SessionID) == "" {
        return required(c, "session_id")
    }
    if strings.TrimSpace(e.EventType) == "" {
        return required(c, "event_type")
    }
    e.UserID = attribute(c, e.UserID)
    return h.insert(c, config.KindEvent, func(ctx context.Context) error { return h.Repo.InsertEvent(ctx, e) })
}
