package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/chamalog/chamalog/internal/domain/user"
	"github.com/chamalog/chamalog/internal/observability"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const userColumns = `id, name, email, password_hash, role, store_id, token_version, created_at`

type UsersRepo struct {
	base
}

func NewUsersRepo(db DB, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{base{db: db, prom: prom}}
}

func scanUser(row pgx.Row, u *user.User) error {
	return row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.StoreID, &u.TokenVersion, &u.CreatedAt)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_email", func() error {
		return scanUser(r.db.QueryRow(ctx,
			`SELECT `+userColumns+` FROM users WHERE lower(email) = $1`,
			strings.ToLower(strings.TrimSpace(email)),
		), &u)
	})

	if errors.Is(err, pgx.ErrNoRows) {
		return user.User{}, user.ErrNotFound
	}

	return u, err
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_id", func() error {
		return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id), &u)
	})

	if errors.Is(err, pgx.ErrNoRows) {
		return user.User{}, user.ErrNotFound
	}

	return u, err
}

func (r *UsersRepo) List(ctx context.Context) ([]user.User, error) {
	out := make([]user.User, 0)

	err := r.observe("users.list", func() error {
		return pgxscan.Select(ctx, r.db, &out, `SELECT `+userColumns+` FROM users ORDER BY id ASC`)
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

// Create inserts u and fills in its id and creation time.
func (r *UsersRepo) Create(ctx context.Context, u *user.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	err := r.observe("users.create", func() error {
		return r.db.QueryRow(ctx,
			`INSERT INTO users (name, email, password_hash, role, store_id)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id, token_version, created_at`,
			u.Name, u.Email, u.PasswordHash, u.Role, u.StoreID,
		).Scan(&u.ID, &u.TokenVersion, &u.CreatedAt)
	})

	return mapUserWriteErr(err)
}

// Update never touches password_hash.
func (r *UsersRepo) Update(ctx context.Context, id int64, req user.UpdateRequest, storeID *int64) error {
	var tag pgconn.CommandTag

	err := r.observe("users.update", func() error {
		var err error
		tag, err = r.db.Exec(ctx,
			`UPDATE users SET name = $1, email = $2, role = $3, store_id = $4 WHERE id = $5`,
			req.Name, strings.ToLower(strings.TrimSpace(req.Email)), req.Role, storeID, id,
		)
		return err
	})

	if err != nil {
		return mapUserWriteErr(err)
	}

	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}

	return nil
}

func (r *UsersRepo) Delete(ctx context.Context, id int64) error {
	var tag pgconn.CommandTag

	err := r.observe("users.delete", func() error {
		var err error
		tag, err = r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		return err
	})

	if err != nil {
		if IsForeignKeyViolation(err) {
			return user.ErrReferenced
		}
		return err
	}

	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}

	return nil
}

func (r *UsersRepo) TokenVersion(ctx context.Context, id int64) (v int, err error) {
	err = r.observe("users.token_version", func() error {
		return r.db.QueryRow(ctx, `SELECT token_version FROM users WHERE id = $1`, id).Scan(&v)
	})

	if errors.Is(err, pgx.ErrNoRows) {
		return 0, user.ErrNotFound
	}

	return v, err
}

// BumpTokenVersion invalidates every token issued before the call.
func (r *UsersRepo) BumpTokenVersion(ctx context.Context, id int64) (v int, err error) {
	err = r.observe("users.bump_token_version", func() error {
		return r.db.QueryRow(ctx,
			`UPDATE users SET token_version = token_version + 1 WHERE id = $1 RETURNING token_version`, id,
		).Scan(&v)
	})

	if errors.Is(err, pgx.ErrNoRows) {
		return 0, user.ErrNotFound
	}

	return v, err
}

func mapUserWriteErr(err error) error {
	switch {
	case err == nil:
		return nil
	case IsUniqueViolation(err):
		return user.ErrEmailTaken
	case IsForeignKeyViolation(err):
		return user.ErrUnknownStore
	default:
		return err
	}
}
