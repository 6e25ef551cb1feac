package handler

import (
    "context"
    "math"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/ecotour-booking/internal/middleware"
)

const dbTimeout = 5 * time.Second

// dbCtx bounds database work to dbTimeout on top of the request context.
func dbCtx(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// parseID reads a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, false
    }
    return id, true
}

// sessionUserID returns the numeric subject of the current session.
func sessionUserID(c echo.Context) (uint64, bool) {
    s := middleware.SessionFrom(c)
    if s == nil {
        return 0, false
    }
    id, err := s.UserID()
    if err != nil {
        return 0, false
    }
    return id, true
}

func queryInt(c echo.Context, name string, def int) int {
    v := strings.TrimSpace(c.QueryParam(name))
    if v == "" {
        return def
    }
    n, err := strconv.Atoi(v)
    if err != nil {
        return def
    }
    return n
}

// pageParams returns page >= 1 and page_size clamped to 1..100 (default 20).
// page is capped so the row offset fits a signed 32-bit integer.
func pageParams(c echo.Context) (page, size int) {
    page = queryInt(c, "page", 1)
    if page < 1 {
        page = 1
    }
    size = queryInt(c, "page_size", 20)
    if size < 1 {
        size = 20
    }
    if size > 100 {
        size = 100
    }
    if maxPage := math.MaxInt32 / size; page > maxPage {
        page = maxPage
    }
    return page, size
}

func badRequest(c echo.Context, msg string) error {
    return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

func notFound(c echo.Context, msg string) error {
    return c.JSON(http.StatusNotFound, echo.Map{"error": msg})
}

// serverError logs err and answers 500 with msg.
func serverError(c echo.Context, msg string, err error) error {
    c.Logger().Errorf("%s %s: %s: %v", c.Request().Method, c.Path(), msg, err)
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": msg})
}
