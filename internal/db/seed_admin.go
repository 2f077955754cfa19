package db

import (
	"context"
	"errors"
	"strings"

	"github.com/chamalog/chamalog/internal/domain/user"
	"github.com/chamalog/chamalog/internal/security"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type AdminSeed struct {
	Email    string
	Password string
	Name     string
}

// EnsureAdminUser creates the admin account when no user with that e-mail
// exists yet. It reports whether a row was inserted.
func EnsureAdminUser(ctx context.Context, q Execer, seed AdminSeed) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(seed.Email))

	if email == "" || seed.Password == "" {
		return false, nil
	}

	var id int64

	err := q.QueryRow(ctx, `SELECT id FROM users WHERE lower(email) = $1`, email).Scan(&id)

	if err == nil {
		return false, nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return false, err
	}

	hash, err := security.HashPassword(seed.Password)

	if err != nil {
		return false, err
	}

	name := seed.Name

	if name == "" {
		name = "Administrador"
	}

	_, err = q.Exec(ctx,
		`INSERT INTO users (name, email, password_hash, role) VALUES ($1, $2, $3, $4)`,
		name, email, hash, user.RoleAdmin,
	)

	if err != nil {
		return false, err
	}

	return true, nil
}
