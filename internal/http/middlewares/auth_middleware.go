package middlewares

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/chamalog/chamalog/internal/actorctx"
	"github.com/chamalog/chamalog/internal/auth"
	"github.com/chamalog/chamalog/internal/domain/user"
	"github.com/gin-gonic/gin"
)

// Keep these small interfaces so tests can fake them easily.
type TokenVerifier interface {
	ParseAndValidate(token string) (*auth.Claims, error)
}

type VersionChecker interface {
	Current(ctx context.Context, userID int64) (int, error)
}

type AuthMiddleware struct {
	jwt      TokenVerifier
	versions VersionChecker
}

// NewAuthMiddleware builds the bearer-token gate. versions may be nil, in
// which case logout-all revocation is not enforced.
func NewAuthMiddleware(jwt TokenVerifier, versions VersionChecker) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, versions: versions}
}

func abortUnauthorized(c *gin.Context, message string) {
	reqID, _ := c.Get(CtxRequestID)
	rid, _ := reqID.(string)

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":      "unauthorized",
			"message":   message,
			"requestId": rid,
		},
	})
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthorized(c, "Missing or invalid Authorization header")
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if raw == "" {
			abortUnauthorized(c, "Missing or invalid access token")
			return
		}

		claims, err := m.jwt.ParseAndValidate(raw)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired access token")
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			abortUnauthorized(c, "Invalid or expired access token")
			return
		}

		role, err := user.ParseRole(claims.Role)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired access token")
			return
		}

		if m.versions != nil {
			current, err := m.versions.Current(c.Request.Context(), userID)

			switch {
			case err == nil && claims.Version < current:
				abortUnauthorized(c, "Session has been revoked")
				return
			case errors.Is(err, user.ErrNotFound):
				abortUnauthorized(c, "Account no longer exists")
				return
			case err != nil:
				slog.Default().ErrorContext(c.Request.Context(), "token version lookup failed", "user_id", userID, "err", err)
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
					"error": gin.H{
						"code":    "unavailable",
						"message": "Could not verify session",
					},
				})
				return
			}
		}

		ctx := actorctx.With(c.Request.Context(), actorctx.Identity{
			UserID:  userID,
			Email:   claims.Email,
			Role:    role,
			Version: claims.Version,
		})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// IdentityFromContext is a helper so handlers don't need to know the context key.
func IdentityFromContext(c *gin.Context) (actorctx.Identity, bool) {
	return actorctx.From(c.Request.Context())
}
