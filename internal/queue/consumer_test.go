package queue

import (
    "encoding/json"
    "os"
    "path/filepath"
    "strings"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestFormatLine(t *testing.T) {
    line := formatLine(ReviewReportedEvent{
        ReviewID:   12,
        TourID:     3,
        Rating:     1,
        Reason:     "spam link",
        ReportedBy: "mod@example.com",
        ReportedAt: "2026-01-02T03:04:05Z",
    })
    assert.Equal(t, `[2026-01-02T03:04:05Z] Review reported | review_id=12 | tour_id=3 | rating=1 | by="mod@example.com" | reason="spam link"`+"\n", line)
}

func TestHandleMessageAppends(t *testing.T) {
    dir := filepath.Join(t.TempDir(), "logs")
    for _, id := range []uint64{1, 2} {
        body, err := json.Marshal(ReviewReportedEvent{ReviewID: id, Reason: "r"})
        require.NoError(t, err)
        require.NoError(t, handleMessage(dir, body))
    }

    data, err := os.ReadFile(filepath.Join(dir, "moderation.log"))
    require.NoError(t, err)
    lines := strings.Split(strings.TrimSpace(string(data)), "\n")
    require.Len(t, lines, 2)
    assert.Contains(t, lines[0], "review_id=1")
    assert.Contains(t, lines[1], "review_id=2")
}

func TestHandleMessageRejectsBadPayload(t *testing.T) {
    dir := t.TempDir()
    assert.Error(t, handleMessage(dir, []byte("{")))
    assert.Error(t, handleMessage(dir, []byte(`{"reason":"x"}`)))
    _, err := os.Stat(filepath.Join(dir, "moderation.log"))
    assert.True(t, os.IsNotExist(err))
}
