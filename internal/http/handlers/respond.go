package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError is the body of every non-2xx response, wrapped as {"error": ...}.
type APIError struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"requestId,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

type errorEnvelope struct {
	Error APIError `json:"error"`
}

func requestIDFrom(ctx *gin.Context) string {
	if s := ctx.GetString("request_id"); s != "" {
		return s
	}
	return ctx.GetHeader("X-Request-Id")
}

func RespondError(ctx *gin.Context, status int, code, message string, details interface{}) {
	ctx.JSON(status, errorEnvelope{Error: APIError{
		Code:      code,
		Message:   message,
		RequestID: requestIDFrom(ctx),
		Details:   details,
	}})
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	RespondError(ctx, http.StatusBadRequest, "invalid_request", message, details)
}

func RespondUnauthorized(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusUnauthorized, "unauthorized", message, nil)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, "internal_error", message, nil)
}

// RespondCreated answers 201 with the new row's id plus any extra fields.
func RespondCreated(ctx *gin.Context, id int64, extra gin.H) {
	body := gin.H{"id": id}
	for k, v := range extra {
		body[k] = v
	}
	ctx.JSON(http.StatusCreated, body)
}

// RespondMessage is the {"message": ...} body the dashboard expects after
// updates and deletes.
func RespondMessage(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusOK, gin.H{"message": message})
}
