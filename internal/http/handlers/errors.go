package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/chamalog/chamalog/internal/domain/ids"
	"github.com/chamalog/chamalog/internal/domain/order"
	"github.com/chamalog/chamalog/internal/domain/store"
	"github.com/chamalog/chamalog/internal/domain/user"
	"github.com/chamalog/chamalog/internal/geo"
	"github.com/chamalog/chamalog/internal/label"
	"github.com/gin-gonic/gin"
)

// InvalidCredentialsMessage is shared by the unknown-email and wrong-password
// paths so the two cannot be told apart.
const InvalidCredentialsMessage = "Email or password is incorrect."

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

var errorMappings = []errorMapping{
	{user.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials", InvalidCredentialsMessage},
	{user.ErrNotFound, http.StatusNotFound, "not_found", "User not found"},
	{user.ErrEmailTaken, http.StatusBadRequest, "email_taken", "Email is already registered"},
	{user.ErrInvalidRole, http.StatusBadRequest, "invalid_role", "Unknown access level"},
	{user.ErrSelfDelete, http.StatusBadRequest, "self_delete", "You cannot delete your own account"},
	{user.ErrReferenced, http.StatusConflict, "user_referenced", "User still owns or carries orders"},
	{user.ErrUnknownStore, http.StatusBadRequest, "unknown_store", "Store does not exist"},

	{store.ErrNotFound, http.StatusNotFound, "not_found", "Store not found"},
	{store.ErrReferenced, http.StatusConflict, "store_referenced", "Store is the origin of existing orders"},

	{order.ErrInvalidCode, http.StatusNotFound, "invalid_code", "No order matches the scanned code"},
	{order.ErrNotFound, http.StatusNotFound, "not_found", "Order not found"},
	{order.ErrInvalidStatus, http.StatusBadRequest, "invalid_status", "Status must be one of pendente, em_transito, entregue"},
	{order.ErrDuplicateCode, http.StatusBadRequest, "duplicate_code", "Tracking code already exists"},
	{order.ErrUnknownStore, http.StatusBadRequest, "unknown_store", "Origin store does not exist"},
	{order.ErrUnknownUser, http.StatusBadRequest, "unknown_user", "Courier does not exist"},
	{order.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount", "Weight and value must be greater than zero"},

	{label.ErrInvalidPayload, http.StatusBadRequest, "invalid_qr", "QR payload does not carry a tracking code"},
	{label.ErrNoQRCode, http.StatusBadRequest, "invalid_qr", "No QR code found in image"},

	{geo.ErrInvalidCEP, http.StatusBadRequest, "invalid_cep", "CEP must have 8 digits"},
	{geo.ErrCEPNotFound, http.StatusNotFound, "not_found", "CEP not found"},
	{geo.ErrUpstream, http.StatusBadGateway, "upstream_error", "Address lookup is unavailable"},

	{ids.ErrInvalid, http.StatusBadRequest, "invalid_request", "Invalid id"},
}

// RespondServiceError writes the envelope for a known domain error, or logs
// err and answers 500 with fallback.
func RespondServiceError(ctx *gin.Context, err error, fallback string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			RespondError(ctx, m.status, m.code, m.message, nil)
			return
		}
	}

	slog.Default().ErrorContext(ctx.Request.Context(), fallback,
		"route", ctx.FullPath(),
		"request_id", requestIDFrom(ctx),
		"err", err,
	)

	RespondInternal(ctx, fallback)
}
