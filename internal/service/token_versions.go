package service

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/chamalog/chamalog/internal/cache"
)

type VersionStore interface {
	TokenVersion(ctx context.Context, userID int64) (int, error)
	BumpTokenVersion(ctx context.Context, userID int64) (int, error)
}

// TokenVersions tracks the per-user token generation. Tokens carrying an
// older generation are rejected by the auth middleware.
type TokenVersions struct {
	store VersionStore
	cache cache.Cache
	ttl   time.Duration
}

func NewTokenVersions(store VersionStore, c cache.Cache, ttl time.Duration) *TokenVersions {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &TokenVersions{store: store, cache: c, ttl: ttl}
}

func versionKey(userID int64) string {
	return "tokver:" + strconv.FormatInt(userID, 10)
}

func (t *TokenVersions) Current(ctx context.Context, userID int64) (int, error) {
	if t.cache != nil {
		if b, err := t.cache.Get(ctx, versionKey(userID)); err == nil {
			if v, err := strconv.Atoi(string(b)); err == nil {
				return v, nil
			}
		}
	}

	v, err := t.store.TokenVersion(ctx, userID)

	if err != nil {
		return 0, err
	}

	t.remember(ctx, userID, v)
	return v, nil
}

// Bump invalidates every token issued to userID so far.
func (t *TokenVersions) Bump(ctx context.Context, userID int64) (int, error) {
	v, err := t.store.BumpTokenVersion(ctx, userID)

	if err != nil {
		return 0, err
	}

	t.remember(ctx, userID, v)
	return v, nil
}

func (t *TokenVersions) remember(ctx context.Context, userID int64, v int) {
	if t.cache == nil {
		return
	}

	if err := t.cache.Set(ctx, versionKey(userID), []byte(strconv.Itoa(v)), t.ttl); err != nil {
		slog.Default().WarnContext(ctx, "token version cache write failed", "user_id", userID, "err", err)
	}
}
