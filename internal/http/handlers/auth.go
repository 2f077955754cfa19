package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/chamalog/chamalog/internal/domain/user"
	"github.com/chamalog/chamalog/internal/observability"
	"github.com/chamalog/chamalog/internal/service"
	"github.com/gin-gonic/gin"
)

type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (user.User, string, error)
	Register(ctx context.Context, req user.SignUpRequest) (user.User, string, error)
	Me(ctx context.Context, actor service.Actor) (user.User, error)
	LogoutAll(ctx context.Context, actor service.Actor) error
}

type AuthHandler struct {
	users Authenticator
	prom  *observability.Prom
}

func NewAuthHandler(users Authenticator, prom *observability.Prom) *AuthHandler {
	return &AuthHandler{users: users, prom: prom}
}

type authResponse struct {
	User  user.User `json:"user"`
	Token string    `json:"token"`
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	u, token, err := h.users.Authenticate(ctx.Request.Context(), req.Email, req.Password)

	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			h.prom.IncLogin("invalid")
		} else {
			h.prom.IncLogin("error")
		}
		RespondServiceError(ctx, err, "Could not sign in")
		return
	}

	h.prom.IncLogin("ok")

	ctx.JSON(http.StatusOK, authResponse{User: u, Token: token})
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req user.SignUpRequest

	if !BindJSON(ctx, &req) {
		return
	}

	u, token, err := h.users.Register(ctx.Request.Context(), req)

	if err != nil {
		RespondServiceError(ctx, err, "Could not create account")
		return
	}

	ctx.JSON(http.StatusCreated, authResponse{User: u, Token: token})
}

func (h *AuthHandler) Me(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	u, err := h.users.Me(ctx.Request.Context(), actor)

	if errors.Is(err, user.ErrNotFound) {
		RespondUnauthorized(ctx, "Account no longer exists")
		return
	}

	if err != nil {
		RespondServiceError(ctx, err, "Could not load profile")
		return
	}

	ctx.JSON(http.StatusOK, u)
}

// LogoutAll revokes every token issued to the caller so far, this one included.
func (h *AuthHandler) LogoutAll(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	if err := h.users.LogoutAll(ctx.Request.Context(), actor); err != nil {
		RespondServiceError(ctx, err, "Could not revoke sessions")
		return
	}

	ctx.Status(http.StatusNoContent)
}
