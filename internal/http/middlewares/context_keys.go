package middlewares

// gin.Context keys
const (
	CtxRequestID = "request_id"
)
