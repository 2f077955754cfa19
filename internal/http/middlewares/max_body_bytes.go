package middlewares

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// MaxBodyBytes rejects bodies declared larger than max up front and caps
// streamed ones at max.
func MaxBodyBytes(max int64) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.ContentLength > max {
			rid := ctx.GetString(CtxRequestID)

			ctx.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": gin.H{
					"code":      "payload_too_large",
					"message":   "Request body must not exceed " + strconv.FormatInt(max, 10) + " bytes",
					"requestId": rid,
				},
			})
			return
		}

		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, max)

		ctx.Next()
	}
}
