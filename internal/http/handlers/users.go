package handlers

import (
	"context"
	"net/http"

	"github.com/chamalog/chamalog/internal/domain/user"
	"github.com/chamalog/chamalog/internal/service"
	"github.com/gin-gonic/gin"
)

type UserDirectory interface {
	List(ctx context.Context) ([]user.User, error)
	Create(ctx context.Context, actor service.Actor, req user.CreateRequest) (user.User, error)
	Update(ctx context.Context, actor service.Actor, id int64, req user.UpdateRequest) error
	Delete(ctx context.Context, actor service.Actor, id int64) error
}

type UsersHandler struct {
	users UserDirectory
}

func NewUsersHandler(users UserDirectory) *UsersHandler {
	return &UsersHandler{users: users}
}

func (h *UsersHandler) List(ctx *gin.Context) {
	users, err := h.users.List(ctx.Request.Context())

	if err != nil {
		RespondServiceError(ctx, err, "Could not list users")
		return
	}

	ctx.JSON(http.StatusOK, users)
}

func (h *UsersHandler) Create(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	var req user.CreateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	u, err := h.users.Create(ctx.Request.Context(), actor, req)

	if err != nil {
		RespondServiceError(ctx, err, "Could not create user")
		return
	}

	RespondCreated(ctx, u.ID, nil)
}

func (h *UsersHandler) Update(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var req user.UpdateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if err := h.users.Update(ctx.Request.Context(), actor, id, req); err != nil {
		RespondServiceError(ctx, err, "Could not update user")
		return
	}

	RespondMessage(ctx, "User updated")
}

func (h *UsersHandler) Delete(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	id, ok := pathID(ctx)
	if !ok {
		return
	}

	if err := h.users.Delete(ctx.Request.Context(), actor, id); err != nil {
		RespondServiceError(ctx, err, "Could not delete user")
		return
	}

	RespondMessage(ctx, "User deleted")
}
