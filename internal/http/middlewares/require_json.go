package middlewares

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireJSON answers 415 for write requests whose body is not JSON.
// Bodiless writes such as logout-all pass through.
func RequireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !hasBodyMethod(c.Request.Method) || c.Request.ContentLength == 0 {
			c.Next()
			return
		}

		mt, _, err := mime.ParseMediaType(c.GetHeader("Content-Type"))
		if err != nil || mt != "application/json" {
			rid := c.GetString(CtxRequestID)
			c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{
				"error": gin.H{
					"code":      "unsupported_media_type",
					"message":   "Content-Type must be application/json",
					"requestId": rid,
				},
			})
			return
		}

		c.Next()
	}
}

func hasBodyMethod(m string) bool {
	return m == http.MethodPost || m == http.MethodPut || m == http.MethodPatch
}
