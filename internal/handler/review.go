package handler

import (
    "context"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/ecotour-booking/internal/middleware"
    "github.com/iliyamo/ecotour-booking/internal/model"
    "github.com/iliyamo/ecotour-booking/internal/queue"
    "github.com/iliyamo/ecotour-booking/internal/repository"
)

// ReportPublisher announces flagged reviews to moderators.
type ReportPublisher interface {
    PublishReviewReported(ctx context.Context, ev queue.ReviewReportedEvent) error
}

// ReviewHandler serves the helpful/like/report interactions.  Publisher may
// be nil, in which case reports are stored but not announced.
type ReviewHandler struct {
    Reviews   *repository.ReviewRepo
    Publisher ReportPublisher
}

func NewReviewHandler(r *repository.ReviewRepo, p ReportPublisher) *ReviewHandler {
    return &ReviewHandler{Reviews: r, Publisher: p}
}

type reportReq struct {
    Reason string `json:"reason" validate:"required,max=500"`
}

// MarkHelpful handles POST /v1/reviews/:id/helpful.
func (h *ReviewHandler) MarkHelpful(c echo.Context) error {
    return h.mutate(c, "Failed to mark review as helpful", h.Reviews.MarkHelpful)
}

// ToggleLike handles POST /v1/reviews/:id/like.
func (h *ReviewHandler) ToggleLike(c echo.Context) error {
    return h.mutate(c, "Failed to toggle like", h.Reviews.ToggleLike)
}

// Report handles POST /v1/reviews/:id/report.
func (h *ReviewHandler) Report(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badRequest(c, "invalid review id")
    }
    var req reportReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid body")
    }
    req.Reason = strings.TrimSpace(req.Reason)
    if err := c.Validate(&req); err != nil {
        return badRequest(c, "Report reason is required")
    }
    reporter := middleware.SessionFrom(c).Email

    ctx, cancel := dbCtx(c)
    defer cancel()

    rv, err := h.Reviews.Report(ctx, id, req.Reason, reporter)
    if err != nil {
        return h.fail(c, "Failed to report review", err)
    }
    h.announce(c, rv, req.Reason, reporter)
    return c.JSON(http.StatusOK, echo.Map{"success": true, "review": rv})
}

func (h *ReviewHandler) mutate(c echo.Context, failMsg string, op func(context.Context, uint64) (model.Review, error)) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badRequest(c, "invalid review id")
    }
    ctx, cancel := dbCtx(c)
    defer cancel()

    rv, err := op(ctx, id)
    if err != nil {
        return h.fail(c, failMsg, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "review": rv})
}

func (h *ReviewHandler) fail(c echo.Context, msg string, err error) error {
    if errors.Is(err, repository.ErrReviewNotFound) {
        return notFound(c, "Review not found")
    }
    return serverError(c, msg, err)
}

// announce publishes the report event; failures are only logged.
func (h *ReviewHandler) announce(c echo.Context, rv model.Review, reason, reporter string) {
    if h.Publisher == nil {
        return
    }
    at := time.Now().UTC()
    if rv.ReportedAt != nil {
        at = rv.ReportedAt.UTC()
    }
    ev := queue.ReviewReportedEvent{
        ReviewID:   rv.ID,
        TourID:     rv.TourID,
        Rating:     rv.Rating,
        Reason:     reason,
        ReportedBy: reporter,
        ReportedAt: at.Format(time.RFC3339),
    }
    ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
    defer cancel()
    if err := h.Publisher.PublishReviewReported(ctx, ev); err != nil {
        c.Logger().Warnf("review %d: publish report event: %v", rv.ID, err)
    }
}
