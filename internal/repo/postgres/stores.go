package postgres

import (
	"context"
	"errors"

	"github.com/chamalog/chamalog/internal/domain/store"
	"github.com/chamalog/chamalog/internal/observability"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type StoresRepo struct {
	base
}

func NewStoresRepo(db DB, prom *observability.Prom) *StoresRepo {
	return &StoresRepo{base{db: db, prom: prom}}
}

func (r *StoresRepo) List(ctx context.Context) ([]store.Store, error) {
	out := make([]store.Store, 0)

	err := r.observe("stores.list", func() error {
		return pgxscan.Select(ctx, r.db, &out, `SELECT id, name, address, created_at FROM stores ORDER BY name ASC, id ASC`)
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *StoresRepo) GetByID(ctx context.Context, id int64) (store.Store, error) {
	var s store.Store

	err := r.observe("stores.get_by_id", func() error {
		return r.db.QueryRow(ctx,
			`SELECT id, name, address, created_at FROM stores WHERE id = $1`, id,
		).Scan(&s.ID, &s.Name, &s.Address, &s.CreatedAt)
	})

	if errors.Is(err, pgx.ErrNoRows) {
		return store.Store{}, store.ErrNotFound
	}

	return s, err
}

func (r *StoresRepo) Create(ctx context.Context, req store.CreateRequest) (store.Store, error) {
	s := store.Store{Name: req.Name, Address: req.Address}

	err := r.observe("stores.create", func() error {
		return r.db.QueryRow(ctx,
			`INSERT INTO stores (name, address) VALUES ($1, $2) RETURNING id, created_at`,
			s.Name, s.Address,
		).Scan(&s.ID, &s.CreatedAt)
	})

	if err != nil {
		return store.Store{}, err
	}

	return s, nil
}

func (r *StoresRepo) Update(ctx context.Context, id int64, req store.UpdateRequest) error {
	var tag pgconn.CommandTag

	err := r.observe("stores.update", func() error {
		var err error
		tag, err = r.db.Exec(ctx, `UPDATE stores SET name = $1, address = $2 WHERE id = $3`, req.Name, req.Address, id)
		return err
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}

	return nil
}

// Delete fails with store.ErrReferenced while any order still names the store
// as its origin.
func (r *StoresRepo) Delete(ctx context.Context, id int64) error {
	var tag pgconn.CommandTag

	err := r.observe("stores.delete", func() error {
		var err error
		tag, err = r.db.Exec(ctx, `DELETE FROM stores WHERE id = $1`, id)
		return err
	})

	if err != nil {
		if IsForeignKeyViolation(err) {
			return store.ErrReferenced
		}
		return err
	}

	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}

	return nil
}
