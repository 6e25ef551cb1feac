package handler

import (
    "bytes"
    "context"
    "io"
    "net/http"
    "strings"
    "time"

    "github.com/gabriel-vasile/mimetype"
    "github.com/google/uuid"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/ecotour-booking/internal/storage"
)

// UploadHandler accepts tour images and stores them in the image bucket.
// Store is nil when storage is not configured.
type UploadHandler struct {
    Store    storage.ImageStore
    MaxBytes int64
}

func NewUploadHandler(store storage.ImageStore, maxBytes int64) *UploadHandler {
    return &UploadHandler{Store: store, MaxBytes: maxBytes}
}

// UploadImage handles POST /v1/upload-image (multipart field "file").
func (h *UploadHandler) UploadImage(c echo.Context) error {
    if h.Store == nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": storage.ErrNotConfigured.Error()})
    }
    fh, err := c.FormFile("file")
    if err != nil {
        return badRequest(c, "No file provided")
    }
    if h.MaxBytes > 0 && fh.Size > h.MaxBytes {
        return badRequest(c, "File too large")
    }

    f, err := fh.Open()
    if err != nil {
        return serverError(c, "Failed to read upload", err)
    }
    defer f.Close()

    // Read one byte past the limit so oversize bodies with a lying header are caught.
    limit := h.MaxBytes
    if limit <= 0 {
        limit = 5 << 20
    }
    data, err := io.ReadAll(io.LimitReader(f, limit+1))
    if err != nil {
        return serverError(c, "Failed to read upload", err)
    }
    if int64(len(data)) > limit {
        return badRequest(c, "File too large")
    }
    if len(data) == 0 {
        return badRequest(c, "No file provided")
    }

    mt := mimetype.Detect(data)
    if !strings.HasPrefix(mt.String(), "image/") {
        return badRequest(c, "File must be an image")
    }

    key := "tours/" + uuid.NewString() + mt.Extension()
    ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
    defer cancel()

    url, err := h.Store.Put(ctx, key, mt.String(), bytes.NewReader(data), int64(len(data)))
    if err != nil {
        return serverError(c, "Failed to upload image", err)
    }
    return c.JSON(http.StatusOK, echo.Map{"url": url})
}
