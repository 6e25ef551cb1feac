package handler

import (
    "errors"
    "math"
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/ecotour-booking/internal/repository"
)

// CatalogHandler serves the public, read-only tour catalog.
type CatalogHandler struct {
    Tours      *repository.TourRepo
    Categories *repository.CategoryRepo
    Routes     *repository.RouteRepo
    Reviews    *repository.ReviewRepo
}

func NewCatalogHandler(t *repository.TourRepo, c *repository.CategoryRepo, r *repository.RouteRepo, rv *repository.ReviewRepo) *CatalogHandler {
    return &CatalogHandler{Tours: t, Categories: c, Routes: r, Reviews: rv}
}

// priceCents parses a decimal price such as "49.90" into cents.  Invalid or
// negative values are ignored.
func priceCents(raw string) uint64 {
    f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
    if err != nil || f <= 0 || math.IsInf(f, 0) {
        return 0
    }
    return uint64(math.Round(f * 100))
}

// ListTours handles GET /v1/tours.
func (h *CatalogHandler) ListTours(c echo.Context) error {
    page, size := pageParams(c)
    q := repository.TourSearchQuery{
        Text:          strings.TrimSpace(c.QueryParam("q")),
        Location:      strings.TrimSpace(c.QueryParam("location")),
        MinPriceCents: priceCents(c.QueryParam("min_price")),
        MaxPriceCents: priceCents(c.QueryParam("max_price")),
        Page:          page,
        PageSize:      size,
    }
    if v := c.QueryParam("category"); v != "" {
        id, err := strconv.ParseUint(v, 10, 64)
        if err != nil {
            return badRequest(c, "invalid category")
        }
        q.CategoryID = id
    }

    ctx, cancel := dbCtx(c)
    defer cancel()
    tours, total, err := h.Tours.Search(ctx, q)
    if err != nil {
        return serverError(c, "database error", err)
    }
    return c.JSON(http.StatusOK, echo.Map{"data": tours, "total": total, "page": page, "page_size": size})
}

// Featured handles GET /v1/tours/featured.
func (h *CatalogHandler) Featured(c echo.Context) error {
    limit := repository.ClampFeaturedLimit(queryInt(c, "limit", repository.MaxFeatured))

    ctx, cancel := dbCtx(c)
    defer cancel()
    tours, err := h.Tours.Featured(ctx, limit)
    if err != nil {
        return serverError(c, "database error", err)
    }
    if len(tours) > repository.MaxFeatured {
        tours = tours[:repository.MaxFeatured]
    }
    return c.JSON(http.StatusOK, echo.Map{"data": tours})
}

// Locations handles GET /v1/tours/locations.
func (h *CatalogHandler) Locations(c echo.Context) error {
    ctx, cancel := dbCtx(c)
    defer cancel()
    locs, err := h.Tours.Locations(ctx)
    if err != nil {
        return serverError(c, "database error", err)
    }
    return c.JSON(http.StatusOK, echo.Map{"data": locs})
}

// GetTour handles GET /v1/tours/:id.
func (h *CatalogHandler) GetTour(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badRequest(c, "invalid tour id")
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    t, err := h.Tours.GetDetail(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrTourNotFound) {
            return notFound(c, "Tour not found")
        }
        return serverError(c, "database error", err)
    }
    return c.JSON(http.StatusOK, t)
}

// TourReviews handles GET /v1/tours/:id/reviews.
func (h *CatalogHandler) TourReviews(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badRequest(c, "invalid tour id")
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    if ok, err := h.Tours.Exists(ctx, id); err != nil {
        return serverError(c, "database error", err)
    } else if !ok {
        return notFound(c, "Tour not found")
    }
    reviews, err := h.Reviews.ListByTour(ctx, id)
    if err != nil {
        return serverError(c, "database error", err)
    }
    return c.JSON(http.StatusOK, echo.Map{"data": reviews})
}

// TourRoutes handles GET /v1/tours/:id/routes.
func (h *CatalogHandler) TourRoutes(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badRequest(c, "invalid tour id")
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    if ok, err := h.Tours.Exists(ctx, id); err != nil {
        return serverError(c, "database error", err)
    } else if !ok {
        return notFound(c, "Tour not found")
    }
    routes, err := h.Routes.ListByTour(ctx, id)
    if err != nil {
        return serverError(c, "database error", err)
    }
    return c.JSON(http.StatusOK, echo.Map{"data": routes})
}

// Waypoints handles GET /v1/tours/waypoints.
func (h *CatalogHandler) Waypoints(c echo.Context) error {
    ctx, cancel := dbCtx(c)
    defer cancel()
    wps, err := h.Routes.Waypoints(ctx, strings.TrimSpace(c.QueryParam("kind")))
    if err != nil {
        return serverError(c, "database error", err)
    }
    return c.JSON(http.StatusOK, echo.Map{"data": wps})
}

// ListCategories handles GET /v1/categories.
func (h *CatalogHandler) ListCategories(c echo.Context) error {
    ctx, cancel := dbCtx(c)
    defer cancel()
    cats, err := h.Categories.List(ctx)
    if err != nil {
        return serverError(c, "database error", err)
    }
    return c.JSON(http.StatusOK, echo.Map{"data": cats})
}
