package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/ecotour-booking/internal/model"
)

// ErrCampaignNotFound is returned when no campaign has the requested id.
var ErrCampaignNotFound = errors.New("campaign not found")

type CampaignRepo struct {
	db *sql.DB
}

func NewCampaignRepo(db *sql.DB) *CampaignRepo { return &CampaignRepo{db: db} }

// List returns campaigns, newest first.
func (r *CampaignRepo) List(ctx context.Context) ([]model.EmailCampaign, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, subject, status, sent_count, created_at FROM email_campaigns ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.EmailCampaign, 0)
	for rows.Next() {
		var c model.EmailCampaign
		if err := rows.Scan(&c.ID, &c.Name, &c.Subject, &c.Status, &c.SentCount, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Delete removes exactly one campaign or returns ErrCampaignNotFound.
func (r *CampaignRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM email_campaigns WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCampaignNotFound
	}
	return nil
}
