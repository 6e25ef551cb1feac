package handler

import (
    "context"
    "errors"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/ecotour-booking/internal/config"
    "github.com/iliyamo/ecotour-booking/internal/model"
    "github.com/iliyamo/ecotour-booking/internal/repository"
    "github.com/iliyamo/ecotour-booking/internal/utils"
)

// AdminHandler groups the admin-only endpoints.  Authorization is done once
// by the route group (JWTAuth + RequireRole), never inside a handler.
type AdminHandler struct {
    Categories *repository.CategoryRepo
    Reviews    *repository.ReviewRepo
    Campaigns  *repository.CampaignRepo
    Events     *repository.AnalyticsRepo
    Bookings   *repository.BookingRepo
    Flags      config.AnalyticsConfig
}

func NewAdminHandler(cats *repository.CategoryRepo, reviews *repository.ReviewRepo, campaigns *repository.CampaignRepo,
    events *repository.AnalyticsRepo, bookings *repository.BookingRepo, flags config.AnalyticsConfig) *AdminHandler {
    return &AdminHandler{
        Categories: cats,
        Reviews:    reviews,
        Campaigns:  campaigns,
        Events:     events,
        Bookings:   bookings,
        Flags:      flags,
    }
}

type categoryReq struct {
    Name        string  `json:"name" validate:"required,max=120"`
    Description *string `json:"description"`
    Icon        *string `json:"icon" validate:"omitempty,max=120"`
}

// CreateCategory handles POST /v1/categories.
func (h *AdminHandler) CreateCategory(c echo.Context) error {
    var req categoryReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid body")
    }
    req.Name = strings.TrimSpace(req.Name)
    if err := c.Validate(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid input", "details": utils.ValidationDetails(err)})
    }

    cat := model.Category{Name: req.Name, Description: req.Description, Icon: req.Icon}
    ctx, cancel := dbCtx(c)
    defer cancel()
    if err := h.Categories.Create(ctx, &cat); err != nil {
        if errors.Is(err, repository.ErrCategoryExists) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "Category already exists"})
        }
        return serverError(c, "Failed to create category", err)
    }
    return c.JSON(http.StatusCreated, cat)
}

// ListReviews handles GET /v1/admin/reviews?reported=&tour_id=&page=&page_size=.
func (h *AdminHandler) ListReviews(c echo.Context) error {
    page, size := pageParams(c)
    q := repository.AdminReviewQuery{Page: page, PageSize: size}
    if v := c.QueryParam("reported"); v != "" {
        b, err := strconv.ParseBool(v)
        if err != nil {
            return badRequest(c, "invalid reported filter")
        }
        q.Reported = &b
    }
    if v := c.QueryParam("tour_id"); v != "" {
        id, err := strconv.ParseUint(v, 10, 64)
        if err != nil {
            return badRequest(c, "invalid tour_id")
        }
        q.TourID = id
    }

    ctx, cancel := dbCtx(c)
    defer cancel()
    reviews, total, err := h.Reviews.ListAdmin(ctx, q)
    if err != nil {
        return serverError(c, "Failed to fetch reviews", err)
    }
    return c.JSON(http.StatusOK, echo.Map{"data": reviews, "total": total, "page": page, "page_size": size})
}

// DeleteReview handles DELETE /v1/admin/reviews/:id.
func (h *AdminHandler) DeleteReview(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badRequest(c, "invalid review id")
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    if err := h.Reviews.Delete(ctx, id); err != nil {
        if errors.Is(err, repository.ErrReviewNotFound) {
            return notFound(c, "Review not found")
        }
        return serverError(c, "Failed to delete review", err)
    }
    return c.NoContent(http.StatusNoContent)
}

// ListCampaigns handles GET /v1/admin/email-campaigns.
func (h *AdminHandler) ListCampaigns(c echo.Context) error {
    ctx, cancel := dbCtx(c)
    defer cancel()
    list, err := h.Campaigns.List(ctx)
    if err != nil {
        return serverError(c, "Failed to fetch campaigns", err)
    }
    return c.JSON(http.StatusOK, echo.Map{"data": list})
}

// DeleteCampaign handles DELETE /v1/admin/email-campaigns/:id.
func (h *AdminHandler) DeleteCampaign(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badRequest(c, "invalid campaign id")
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    if err := h.Campaigns.Delete(ctx, id); err != nil {
        if errors.Is(err, repository.ErrCampaignNotFound) {
            return notFound(c, "Campaign not found")
        }
        return serverError(c, "Failed to delete campaign", err)
    }
    return c.NoContent(http.StatusNoContent)
}

const (
    defaultAnalyticsDays = 30
    maxAnalyticsDays     = 365
    rollupTopN           = 10
)

// Analytics handles GET /v1/admin/analytics?days=N.
func (h *AdminHandler) Analytics(c echo.Context) error {
    days := defaultAnalyticsDays
    if v := c.QueryParam("days"); v != "" {
        n, err := strconv.Atoi(v)
        if err != nil || n < 1 || n > maxAnalyticsDays {
            return badRequest(c, "days must be between 1 and 365")
        }
        days = n
    }
    since := time.Now().UTC().AddDate(0, 0, -days)

    ctx, cancel := context.WithTimeout(c.Request().Context(), 2*dbTimeout)
    defer cancel()

    sum, err := h.rollup(ctx, since)
    if err != nil {
        return serverError(c, "Failed to fetch analytics", err)
    }
    sum.Days = days
    return c.JSON(http.StatusOK, sum)
}

func (h *AdminHandler) rollup(ctx context.Context, since time.Time) (model.AnalyticsSummary, error) {
    var (
        sum model.AnalyticsSummary
        err error
    )
    if h.Flags.PageViews {
        views, sessions, err := h.Events.PageViewTotals(ctx, since)
        if err != nil {
            return sum, err
        }
        sum.PageViews, sum.UniqueSessions = &views, &sessions
        if sum.TopPages, err = h.Events.TopPages(ctx, since, rollupTopN); err != nil {
            return sum, err
        }
    }
    if h.Flags.Searches {
        if sum.TopSearches, err = h.Events.TopSearches(ctx, since, rollupTopN); err != nil {
            return sum, err
        }
    }
    if h.Flags.TourInterests {
        if sum.TopTours, err = h.Events.TopTours(ctx, since, rollupTopN); err != nil {
            return sum, err
        }
    }
    if h.Flags.Funnels {
        if sum.FunnelSteps, err = h.Events.FunnelSteps(ctx, since); err != nil {
            return sum, err
        }
    }
    if h.Flags.Events {
        if sum.EventTypes, err = h.Events.EventTypes(ctx, since, rollupTopN); err != nil {
            return sum, err
        }
    }
    if sum.Bookings, err = h.Bookings.Totals(ctx, since); err != nil {
        return sum, err
    }
    return sum, nil
}
