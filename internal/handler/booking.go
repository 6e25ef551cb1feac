package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/ecotour-booking/internal/repository"
)

type BookingHandler struct {
    Bookings *repository.BookingRepo
}

func NewBookingHandler(b *repository.BookingRepo) *BookingHandler {
    return &BookingHandler{Bookings: b}
}

// ListMine handles GET /v1/bookings for the session user.
func (h *BookingHandler) ListMine(c echo.Context) error {
    uid, ok := sessionUserID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    list, err := h.Bookings.ListByUser(ctx, uid)
    if err != nil {
        return serverError(c, "Failed to fetch bookings", err)
    }
    return c.JSON(http.StatusOK, echo.Map{"data": list})
}
