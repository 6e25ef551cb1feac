package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/ecotour-booking/internal/model"
)

// ErrRefreshRevoked is returned when a refresh token is unknown, expired or
// was already spent by another request.
var ErrRefreshRevoked = errors.New("refresh token revoked")

// TokenRepo owns `refresh_tokens`.  Only the SHA-256 hex digest of a token
// is ever stored or looked up.
type TokenRepo struct {
	db *sql.DB
}

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{db: db} }

// StoreRefresh records a freshly issued token for userID.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, exp)
	return err
}

// Lookup loads the row for tokenHash, or sql.ErrNoRows.
func (r *TokenRepo) Lookup(ctx context.Context, tokenHash string) (model.RefreshToken, error) {
	var t model.RefreshToken
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, token_hash, expires_at, revoked_at, created_at
		 FROM refresh_tokens WHERE token_hash=? LIMIT 1`, tokenHash).
		Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.RevokedAt, &t.CreatedAt)
	return t, err
}

// ValidateRefresh returns the owning user id of a usable token, and
// ErrRefreshRevoked for unknown, revoked or expired ones.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	t, err := r.Lookup(ctx, tokenHash)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrRefreshRevoked
	}
	if err != nil {
		return 0, err
	}
	if !t.Usable(time.Now().UTC()) {
		return 0, ErrRefreshRevoked
	}
	return t.UserID, nil
}

// RevokeByHash spends the token.  Only one caller can revoke a given token:
// every other caller, concurrent or later, gets ErrRefreshRevoked.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=UTC_TIMESTAMP() WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRefreshRevoked
	}
	return nil
}
