package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/chamalog/chamalog/internal/domain/activity"
	"github.com/gin-gonic/gin"
)

type ActivityFeed interface {
	Feed(ctx context.Context, limit int) ([]activity.FeedItem, error)
}

type ActivitiesHandler struct {
	feed ActivityFeed
}

func NewActivitiesHandler(feed ActivityFeed) *ActivitiesHandler {
	return &ActivitiesHandler{feed: feed}
}

func (h *ActivitiesHandler) Recent(ctx *gin.Context) {
	limit := 0

	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			RespondBadRequest(ctx, "limit must be a positive integer", gin.H{"limit": raw})
			return
		}
		limit = n
	}

	items, err := h.feed.Feed(ctx.Request.Context(), limit)

	if err != nil {
		RespondServiceError(ctx, err, "Could not load recent activity")
		return
	}

	ctx.JSON(http.StatusOK, items)
}
