package repository

import (
    "context"
    "database/sql"
    "encoding/json"
    "errors"
    "regexp"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/go-sql-driver/mysql"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "golang.org/x/crypto/bcrypt"

    "github.com/iliyamo/ecotour-booking/internal/model"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() {
        assert.NoError(t, mock.ExpectationsWereMet())
        _ = db.Close()
    })
    return db, mock
}

var reviewCols = []string{"id", "tour_id", "user_id", "rating", "comment", "helpful_count",
    "like_count", "liked", "reported", "report_reason", "reported_by", "reported_at", "created_at"}

func reviewRows(id, likes int64, liked bool) *sqlmock.Rows {
    return sqlmock.NewRows(reviewCols).AddRow(id, 1, 2, 5, "lovely", 0, likes, liked, false, nil, nil, nil, time.Now())
}

func TestToggleLikeIsSingleStatement(t *testing.T) {
    db, mock := newMock(t)
    repo := NewReviewRepo(db)

    mock.ExpectExec(regexp.QuoteMeta("SET like_count = IF(liked, GREATEST(like_count, 1) - 1, like_count + 1), liked = NOT liked WHERE id = ?")).
        WithArgs(4).WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectQuery(regexp.QuoteMeta("FROM reviews r WHERE r.id = ?")).WithArgs(4).
        WillReturnRows(reviewRows(4, 1, true))

    rv, err := repo.ToggleLike(context.Background(), 4)
    require.NoError(t, err)
    assert.True(t, rv.Liked)
    assert.EqualValues(t, 1, rv.LikeCount)
}

func TestReviewMutationsReportMissingRow(t *testing.T) {
    db, mock := newMock(t)
    repo := NewReviewRepo(db)
    ctx := context.Background()

    mock.ExpectExec("UPDATE reviews SET helpful_count").WillReturnResult(sqlmock.NewResult(0, 0))
    _, err := repo.MarkHelpful(ctx, 1)
    assert.ErrorIs(t, err, ErrReviewNotFound)

    mock.ExpectExec("UPDATE reviews SET reported").WillReturnResult(sqlmock.NewResult(0, 0))
    _, err = repo.Report(ctx, 1, "spam", "a@b.c")
    assert.ErrorIs(t, err, ErrReviewNotFound)

    mock.ExpectExec("DELETE FROM reviews").WillReturnResult(sqlmock.NewResult(0, 0))
    assert.ErrorIs(t, repo.Delete(ctx, 1), ErrReviewNotFound)

    boom := errors.New("lock wait timeout")
    mock.ExpectExec("UPDATE reviews SET helpful_count").WillReturnError(boom)
    _, err = repo.MarkHelpful(ctx, 1)
    assert.ErrorIs(t, err, boom)
}

func TestListAdminFiltersAndPages(t *testing.T) {
    db, mock := newMock(t)
    repo := NewReviewRepo(db)
    reported := true

    mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM reviews r WHERE r.reported = ?")).
        WithArgs(true).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(21))
    cols := append(append([]string{}, reviewCols...), "title", "email")
    mock.ExpectQuery(regexp.QuoteMeta("JOIN users u ON u.id = r.user_id")).
        WithArgs(true, 10, 10).
        WillReturnRows(sqlmock.NewRows(cols).
            AddRow(9, 1, 2, 1, "bad", 0, 0, false, true, "spam", "m@x.io", time.Now(), time.Now(), "Canopy Walk", "w@x.io"))

    list, total, err := repo.ListAdmin(context.Background(), AdminReviewQuery{Reported: &reported, Page: 2, PageSize: 10})
    require.NoError(t, err)
    assert.EqualValues(t, 21, total)
    require.Len(t, list, 1)
    assert.Equal(t, "Canopy Walk", list[0].TourTitle)
    assert.Equal(t, "w@x.io", list[0].AuthorEmail)
    require.NotNil(t, list[0].ReportReason)
    assert.Equal(t, "spam", *list[0].ReportReason)
}

func TestClampFeaturedLimit(t *testing.T) {
    for in, want := range map[int]int{-1: 8, 0: 8, 1: 1, 5: 5, 8: 8, 9: 8, 1000: 8} {
        assert.Equal(t, want, ClampFeaturedLimit(in), in)
    }
}

func TestFeaturedPassesWeightsAndClamp(t *testing.T) {
    db, mock := newMock(t)
    mock.ExpectQuery(regexp.QuoteMeta("(COALESCE(rv.review_count, 0) > 0 OR COALESCE(bk.booking_count, 0) > 0)")).
        WithArgs(0.4, 0.6, "CONFIRMED", "ACTIVE", 8).
        WillReturnRows(sqlmock.NewRows([]string{"id"}))

    out, err := NewTourRepo(db).Featured(context.Background(), 99)
    require.NoError(t, err)
    assert.Empty(t, out)
}

func TestSearchBuildsFilters(t *testing.T) {
    db, mock := newMock(t)
    cond := "t.status = ? AND (LOWER(t.title) LIKE ? OR LOWER(t.description) LIKE ?) AND t.category_id = ? AND LOWER(t.location) LIKE ? AND t.price_cents >= ? AND t.price_cents <= ?"

    mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM tours t WHERE "+cond)).
        WithArgs("ACTIVE", "%kayak%", "%kayak%", 3, "%coast%", 1000, 50000).
        WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
    mock.ExpectQuery(regexp.QuoteMeta("LIMIT ? OFFSET ?")).
        WithArgs("ACTIVE", "%kayak%", "%kayak%", 3, "%coast%", 1000, 50000, 20, 0).
        WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "location", "price_cents", "status",
            "category_id", "category_name", "image_url", "duration_days", "created_at"}).
            AddRow(1, "Kayak", "sea kayak", "Coast", 4500, "ACTIVE", 3, "Water", nil, 1, time.Now()))

    tours, total, err := NewTourRepo(db).Search(context.Background(), TourSearchQuery{
        Text: "Kayak", CategoryID: 3, Location: "Coast", MinPriceCents: 1000, MaxPriceCents: 50000, Page: 1, PageSize: 20,
    })
    require.NoError(t, err)
    assert.EqualValues(t, 1, total)
    require.Len(t, tours, 1)
    assert.InDelta(t, 45.0, tours[0].Price, 0.001)
    require.NotNil(t, tours[0].CategoryName)
    assert.Equal(t, "Water", *tours[0].CategoryName)
}

func TestRoutesCarryTheirWaypoints(t *testing.T) {
    db, mock := newMock(t)
    mock.ExpectQuery(regexp.QuoteMeta("FROM tour_routes WHERE tour_id = ?")).WithArgs(5).
        WillReturnRows(sqlmock.NewRows([]string{"id", "tour_id", "name", "description", "distance_km", "duration_minutes", "difficulty"}).
            AddRow(1, 5, "Ridge", nil, 7.5, 180, "HARD").
            AddRow(2, 5, "Lake", "flat", 3.2, 60, "EASY"))
    wpCols := []string{"id", "route_id", "name", "description", "latitude", "longitude", "kind", "sequence"}
    mock.ExpectQuery(regexp.QuoteMeta("FROM waypoints WHERE route_id IN (?,?)")).WithArgs(1, 2).
        WillReturnRows(sqlmock.NewRows(wpCols).
            AddRow(10, 1, "Trailhead", nil, 9.9, -84.1, "START", 0).
            AddRow(11, 1, "Summit", nil, 9.95, -84.2, "VIEWPOINT", 1).
            AddRow(12, 2, "Dock", nil, 9.8, -84.0, "START", 0))

    routes, err := NewRouteRepo(db).ListByTour(context.Background(), 5)
    require.NoError(t, err)
    require.Len(t, routes, 2)
    assert.Len(t, routes[0].Waypoints, 2)
    assert.Equal(t, "Summit", routes[0].Waypoints[1].Name)
    assert.Len(t, routes[1].Waypoints, 1)
}

func TestWaypointsKindFilter(t *testing.T) {
    db, mock := newMock(t)
    mock.ExpectQuery(regexp.QuoteMeta("FROM waypoints WHERE kind = ?")).WithArgs("VIEWPOINT").
        WillReturnRows(sqlmock.NewRows([]string{"id"}))

    out, err := NewRouteRepo(db).Waypoints(context.Background(), "viewpoint")
    require.NoError(t, err)
    assert.Empty(t, out)
}

func TestBookingTotals(t *testing.T) {
    db, mock := newMock(t)
    mock.ExpectQuery(regexp.QuoteMeta("GROUP BY status")).
        WillReturnRows(sqlmock.NewRows([]string{"status", "n", "sum"}).
            AddRow("CONFIRMED", 3, 39000).
            AddRow("PENDING", 1, 9900))

    totals, err := NewBookingRepo(db).Totals(context.Background(), time.Now().AddDate(0, 0, -30))
    require.NoError(t, err)
    assert.EqualValues(t, 39000, totals.ConfirmedRevenueCents)
    assert.Equal(t, []model.CountByKey{{Key: "CONFIRMED", Count: 3}, {Key: "PENDING", Count: 1}}, totals.ByStatus)
}

func TestCampaignDelete(t *testing.T) {
    db, mock := newMock(t)
    repo := NewCampaignRepo(db)
    mock.ExpectExec("DELETE FROM email_campaigns").WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec("DELETE FROM email_campaigns").WithArgs(2).WillReturnResult(sqlmock.NewResult(0, 0))

    assert.NoError(t, repo.Delete(context.Background(), 1))
    assert.ErrorIs(t, repo.Delete(context.Background(), 2), ErrCampaignNotFound)
}

func TestJSONArg(t *testing.T) {
    assert.Nil(t, jsonArg(nil))
    assert.Nil(t, jsonArg(json.RawMessage("null")))
    assert.Equal(t, `{"a":1}`, jsonArg(json.RawMessage(`{"a":1}`)))
}

func TestInsertSearchStoresNullFilters(t *testing.T) {
    db, mock := newMock(t)
    mock.ExpectExec(regexp.QuoteMeta("INSERT INTO search_queries")).
        WithArgs("s1", nil, "volcano", nil, 4, `["x"]`).
        WillReturnResult(sqlmock.NewResult(1, 1))

    n := uint32(4)
    err := NewAnalyticsRepo(db).InsertSearch(context.Background(), model.SearchQuery{
        SessionID: "s1", Query: "volcano", ResultsCount: &n, Metadata: json.RawMessage(`["x"]`),
    })
    assert.NoError(t, err)
}

func TestUserCreateDuplicate(t *testing.T) {
    db, mock := newMock(t)
    mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
        WithArgs("a@b.com", "A", sqlmock.AnyArg(), model.RoleUser).
        WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@b.com'"})

    _, err := NewUserRepo(db).Create(context.Background(), " A@B.com ", " A ", "Secret123", model.RoleUser, bcrypt.MinCost)
    assert.ErrorIs(t, err, ErrEmailExists)
}

var tokenCols = []string{"id", "user_id", "token_hash", "expires_at", "revoked_at", "created_at"}

func tokenRow(expires time.Time, revoked any) *sqlmock.Rows {
    return sqlmock.NewRows(tokenCols).AddRow(3, 1, "h", expires, revoked, time.Now().Add(-time.Minute))
}

func TestValidateRefreshRejectsRevokedAndExpired(t *testing.T) {
    db, mock := newMock(t)
    repo := NewTokenRepo(db)
    q := regexp.QuoteMeta("FROM refresh_tokens WHERE token_hash=?")

    mock.ExpectQuery(q).WithArgs("h").WillReturnRows(tokenRow(time.Now().Add(time.Hour), nil))
    id, err := repo.ValidateRefresh(context.Background(), "h")
    require.NoError(t, err)
    assert.EqualValues(t, 1, id)

    mock.ExpectQuery(q).WillReturnRows(tokenRow(time.Now().Add(time.Hour), time.Now()))
    _, err = repo.ValidateRefresh(context.Background(), "h")
    assert.ErrorIs(t, err, ErrRefreshRevoked)

    mock.ExpectQuery(q).WillReturnRows(tokenRow(time.Now().Add(-time.Hour), nil))
    _, err = repo.ValidateRefresh(context.Background(), "h")
    assert.ErrorIs(t, err, ErrRefreshRevoked)

    mock.ExpectQuery(q).WillReturnRows(sqlmock.NewRows(tokenCols))
    _, err = repo.ValidateRefresh(context.Background(), "missing")
    assert.ErrorIs(t, err, ErrRefreshRevoked)
}

func TestRevokeByHashSpendsTokenOnce(t *testing.T) {
    db, mock := newMock(t)
    repo := NewTokenRepo(db)
    revoke := regexp.QuoteMeta("UPDATE refresh_tokens SET revoked_at=UTC_TIMESTAMP() WHERE token_hash=? AND revoked_at IS NULL")

    mock.ExpectExec(revoke).WithArgs("h").WillReturnResult(sqlmock.NewResult(0, 1))
    require.NoError(t, repo.RevokeByHash(context.Background(), "h"))

    mock.ExpectExec(revoke).WithArgs("h").WillReturnResult(sqlmock.NewResult(0, 0))
    assert.ErrorIs(t, repo.RevokeByHash(context.Background(), "h"), ErrRefreshRevoked)

    mock.ExpectExec(revoke).WithArgs("h").WillReturnError(errors.New("lock wait timeout"))
    err := repo.RevokeByHash(context.Background(), "h")
    require.Error(t, err)
    assert.NotErrorIs(t, err, ErrRefreshRevoked)
}

func TestLocationsCountsActiveTours(t *testing.T) {
    db, mock := newMock(t)
    mock.ExpectQuery(regexp.QuoteMeta("SELECT location, COUNT(*) FROM tours")).
        WithArgs(model.TourActive).
        WillReturnRows(sqlmock.NewRows([]string{"location", "n"}).
            AddRow("Azores", 3).
            AddRow("Lofoten", 1))

    locs, err := NewTourRepo(db).Locations(context.Background())
    require.NoError(t, err)
    require.Len(t, locs, 2)
    assert.Equal(t, "Azores", locs[0].Location)
    assert.Equal(t, int64(3), locs[0].TourCount)
}

func TestCategoryListKeepsNullColumns(t *testing.T) {
    db, mock := newMock(t)
    mock.ExpectQuery(regexp.QuoteMeta("FROM categories ORDER BY name")).
        WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "icon", "created_at"}).
            AddRow(1, "Birding", nil, "bird", time.Now()))

    cats, err := NewCategoryRepo(db).List(context.Background())
    require.NoError(t, err)
    require.Len(t, cats, 1)
    assert.Nil(t, cats[0].Description)
    require.NotNil(t, cats[0].Icon)
    assert.Equal(t, "bird", *cats[0].Icon)
}

func TestReviewsByTourNewestFirst(t *testing.T) {
    db, mock := newMock(t)
    mock.ExpectQuery(regexp.QuoteMeta("WHERE r.tour_id = ? ORDER BY r.created_at DESC")).
        WithArgs(uint64(1)).
        WillReturnRows(sqlmock.NewRows(reviewCols).
            AddRow(9, 1, 2, 4, "newer", 0, 0, false, false, nil, nil, nil, time.Now()).
            AddRow(3, 1, 2, 5, "older", 1, 1, true, false, nil, nil, nil, time.Now().Add(-time.Hour)))

    list, err := NewReviewRepo(db).ListByTour(context.Background(), 1)
    require.NoError(t, err)
    require.Len(t, list, 2)
    assert.Equal(t, uint64(9), list[0].ID)
    assert.True(t, list[1].Liked)
}
