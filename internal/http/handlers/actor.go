package handlers

import (
	"github.com/chamalog/chamalog/internal/actorctx"
	"github.com/chamalog/chamalog/internal/domain/ids"
	"github.com/chamalog/chamalog/internal/service"
	"github.com/gin-gonic/gin"
)

// actorFrom reads the identity left by the auth middleware and answers 401
// when it is missing.
func actorFrom(ctx *gin.Context) (service.Actor, bool) {
	id, ok := actorctx.From(ctx.Request.Context())

	if !ok {
		RespondUnauthorized(ctx, "Authentication required")
		return service.Actor{}, false
	}

	return service.Actor{ID: id.UserID, Role: id.Role}, true
}

func pathID(ctx *gin.Context) (int64, bool) {
	id, err := ids.Parse(ctx.Param("id"))

	if err != nil {
		RespondBadRequest(ctx, "Invalid id", gin.H{"id": ctx.Param("id")})
		return 0, false
	}

	return id, true
}
