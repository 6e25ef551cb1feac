package handler

import (
    "math"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
)

func ctxFor(target string) echo.Context {
    return echo.New().NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
}

func TestPageParams(t *testing.T) {
    cases := []struct {
        query      string
        page, size int
    }{
        {"", 1, 20},
        {"?page=3&page_size=50", 3, 50},
        {"?page=0&page_size=0", 1, 20},
        {"?page=-2&page_size=1000", 1, 100},
        {"?page=x&page_size=y", 1, 20},
        {"?page=9223372036854775807&page_size=20", math.MaxInt32 / 20, 20},
        {"?page=3000000000&page_size=100", math.MaxInt32 / 100, 100},
    }
    for _, tc := range cases {
        page, size := pageParams(ctxFor("/v1/tours" + tc.query))
        assert.Equal(t, tc.page, page, tc.query)
        assert.Equal(t, tc.size, size, tc.query)
    }
}

func TestPriceCents(t *testing.T) {
    assert.EqualValues(t, 4990, priceCents("49.90"))
    assert.EqualValues(t, 100, priceCents(" 1 "))
    assert.EqualValues(t, 0, priceCents(""))
    assert.EqualValues(t, 0, priceCents("-5"))
    assert.EqualValues(t, 0, priceCents("cheap"))
}

func TestParseID(t *testing.T) {
    c := ctxFor("/")
    c.SetParamNames("id")

    c.SetParamValues("12")
    id, ok := parseID(c, "id")
    assert.True(t, ok)
    assert.EqualValues(t, 12, id)

    for _, bad := range []string{"0", "-1", "abc", ""} {
        c.SetParamValues(bad)
        _, ok := parseID(c, "id")
        assert.False(t, ok, bad)
    }
}

func TestPageParamsOffsetFitsInt32(t *testing.T) {
    page, size := pageParams(ctxFor("/v1/tours?page=9223372036854775807&page_size=7"))
    assert.LessOrEqual(t, int64(page)*int64(size), int64(math.MaxInt32))
    assert.GreaterOrEqual(t, (page-1)*size, 0)
}
