package postgres

import (
	"context"

	"github.com/chamalog/chamalog/internal/domain/activity"
	"github.com/chamalog/chamalog/internal/observability"
	"github.com/georgysavva/scany/v2/pgxscan"
)

type ActivitiesRepo struct {
	base
}

func NewActivitiesRepo(db DB, prom *observability.Prom) *ActivitiesRepo {
	return &ActivitiesRepo{base{db: db, prom: prom}}
}

func (r *ActivitiesRepo) Append(ctx context.Context, description string, userID *int64) error {
	return r.observe("activities.append", func() error {
		_, err := r.db.Exec(ctx, `INSERT INTO activities (description, user_id) VALUES ($1, $2)`, description, userID)
		return err
	})
}

func (r *ActivitiesRepo) Recent(ctx context.Context, limit int) ([]activity.Activity, error) {
	out := make([]activity.Activity, 0, limit)

	err := r.observe("activities.recent", func() error {
		return pgxscan.Select(ctx, r.db, &out,
			`SELECT id, description, user_id, created_at
			 FROM activities
			 ORDER BY created_at DESC, id DESC
			 LIMIT $1`, limit)
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}
