package middlewares

import (
	"net/http"

	"github.com/chamalog/chamalog/internal/domain/user"
	"github.com/gin-gonic/gin"
)

// RequireRole admits callers whose role ranks at or above required. It runs
// before the handler, so a denied caller learns nothing about the resource.
func (m *AuthMiddleware) RequireRole(required user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFromContext(c)

		if !ok {
			abortUnauthorized(c, "Missing identity context")
			return
		}

		if !id.Role.AtLeast(required) {
			reqID, _ := c.Get(CtxRequestID)
			rid, _ := reqID.(string)

			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{
					"code":      "forbidden",
					"message":   "Role " + string(required) + " or higher required",
					"requestId": rid,
				},
			})
			return
		}
		c.Next()
	}
}
