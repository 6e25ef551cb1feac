package router // router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/ecotour-booking/internal/handler"
    "github.com/iliyamo/ecotour-booking/internal/middleware"
    "github.com/iliyamo/ecotour-booking/internal/model"
)

// RegisterRoutes registers routes that need neither a session nor /v1.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// adminGate is the single authorization policy for admin-only routes:
// 401 without a valid session, 403 for any role but ADMIN.
func adminGate(jwtSecret string) []echo.MiddlewareFunc {
    return []echo.MiddlewareFunc{
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleAdmin),
    }
}

// RegisterAuth registers /v1/auth (rate limited) and the session echo at
// /v1/me.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
    g := e.Group("/v1/auth", limiter)
    g.POST("/signup", a.Signup)
    g.POST("/login", a.Login)
    g.POST("/refresh", a.Refresh)
    g.POST("/logout", a.Logout)

    e.GET("/v1/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterPublic registers the catalog reads and the rate-limited analytics
// intake.  Featured tours are ranked fresh on every request and never cached.
// Tracking accepts anonymous callers; a valid token only attributes the row
// to the user.
func RegisterPublic(e *echo.Echo, cat *handler.CatalogHandler, an *handler.AnalyticsHandler, jwtSecret string, cache, limiter echo.MiddlewareFunc) {
    v1 := e.Group("/v1")

    v1.GET("/tours", cat.ListTours, cache)
    v1.GET("/tours/featured", cat.Featured)
    v1.GET("/tours/locations", cat.Locations, cache)
    v1.GET("/tours/waypoints", cat.Waypoints, cache)
    v1.GET("/tours/:id", cat.GetTour, cache)
    v1.GET("/tours/:id/reviews", cat.TourReviews, cache)
    v1.GET("/tours/:id/routes", cat.TourRoutes, cache)
    v1.GET("/categories", cat.ListCategories, cache)

    v1.POST("/analytics/track/:kind", an.Track, middleware.OptionalJWT(jwtSecret), limiter)
}

// RegisterCustomer registers routes that need any signed-in user.  Review
// interactions additionally need an email claim.
func RegisterCustomer(e *echo.Echo, rv *handler.ReviewHandler, b *handler.BookingHandler, jwtSecret string) {
    reviews := e.Group("/v1/reviews", middleware.JWTAuth(jwtSecret), middleware.RequireEmail())
    reviews.POST("/:id/helpful", rv.MarkHelpful)
    reviews.POST("/:id/like", rv.ToggleLike)
    reviews.POST("/:id/report", rv.Report)

    e.GET("/v1/bookings", b.ListMine, middleware.JWTAuth(jwtSecret))
}

// RegisterAdmin registers every ADMIN-only route behind adminGate.  purge
// runs after catalog writes and clears the cached public reads.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, up *handler.UploadHandler, jwtSecret string, purge echo.MiddlewareFunc) {
    gate := adminGate(jwtSecret)

    e.POST("/v1/categories", a.CreateCategory, append(gate, purge)...)
    e.POST("/v1/upload-image", up.UploadImage, gate...)

    g := e.Group("/v1/admin", append(gate, purge)...)
    g.GET("/reviews", a.ListReviews)
    g.DELETE("/reviews/:id", a.DeleteReview)
    g.GET("/email-campaigns", a.ListCampaigns)
    g.DELETE("/email-campaigns/:id", a.DeleteCampaign)
    g.GET("/analytics", a.Analytics)
}
