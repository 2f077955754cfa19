// Package service holds the business rules that sit between HTTP handlers
// and the Postgres repositories.
package service

import (
	"context"

	"github.com/chamalog/chamalog/internal/domain/user"
)

// Actor is the authenticated caller an operation runs on behalf of.
type Actor struct {
	ID   int64
	Role user.Role
}

func (a Actor) IsStaff() bool {
	return a.Role.AtLeast(user.RoleStaff)
}

// Recorder appends entries to the activity feed. Implementations never fail
// the calling operation.
type Recorder interface {
	Record(ctx context.Context, description string, actorID int64)
}
