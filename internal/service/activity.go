package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/chamalog/chamalog/internal/domain/activity"
)

type ActivityStore interface {
	Append(ctx context.Context, description string, userID *int64) error
	Recent(ctx context.Context, limit int) ([]activity.Activity, error)
}

type ActivityService struct {
	store ActivityStore
	log   *slog.Logger
	now   func() time.Time
}

func NewActivityService(store ActivityStore, log *slog.Logger) *ActivityService {
	if log == nil {
		log = slog.Default()
	}
	return &ActivityService{store: store, log: log, now: time.Now}
}

// Record appends to the feed. A failed insert is logged and dropped.
func (s *ActivityService) Record(ctx context.Context, description string, actorID int64) {
	var uid *int64
	if actorID > 0 {
		uid = &actorID
	}

	if err := s.store.Append(ctx, description, uid); err != nil {
		s.log.WarnContext(ctx, "activity append failed",
			"description", description,
			"user_id", actorID,
			"err", err,
		)
	}
}

// Feed returns the newest entries with relative times computed now.
func (s *ActivityService) Feed(ctx context.Context, limit int) ([]activity.FeedItem, error) {
	items, err := s.store.Recent(ctx, activity.ClampLimit(limit))

	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]activity.FeedItem, 0, len(items))

	for _, a := range items {
		out = append(out, a.FeedItem(now))
	}

	return out, nil
}
