package handlers

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/chamalog/chamalog/internal/domain/order"
	"github.com/chamalog/chamalog/internal/label"
	"github.com/gin-gonic/gin"
)

// GenerateLabel answers {"pdf": "<base64>"} for the requested order.
func (h *OrdersHandler) GenerateLabel(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	var req order.LabelRequest

	if !BindJSON(ctx, &req) {
		return
	}

	pdf, err := h.orders.Label(ctx.Request.Context(), actor, req.OrderID.Int64())

	if err != nil {
		RespondServiceError(ctx, err, "Could not generate label")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"pdf": base64.StdEncoding.EncodeToString(pdf)})
}

// ValidateQR resolves a scanned label to its order.
func (h *OrdersHandler) ValidateQR(ctx *gin.Context) {
	payload, ok := scanPayload(ctx)
	if !ok {
		return
	}

	o, err := h.orders.ResolveScan(ctx.Request.Context(), payload)

	if err != nil {
		RespondServiceError(ctx, err, "Could not validate QR code")
		return
	}

	ctx.JSON(http.StatusOK, o)
}

// ConfirmTransport is the courier pickup scan.
func (h *OrdersHandler) ConfirmTransport(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	payload, ok := scanPayload(ctx)
	if !ok {
		return
	}

	o, err := h.orders.ConfirmTransport(ctx.Request.Context(), actor, payload)

	if err != nil {
		RespondServiceError(ctx, err, "Could not confirm transport")
		return
	}

	ctx.JSON(http.StatusOK, o)
}

// scanPayload returns the QR text, decoding the uploaded image when the
// client sent a picture instead of already decoded text.
func scanPayload(ctx *gin.Context) (string, bool) {
	var req order.ScanRequest

	if !BindJSON(ctx, &req) {
		return "", false
	}

	if strings.TrimSpace(req.QRData) != "" {
		return req.QRData, true
	}

	img := req.Image
	// data URLs from <canvas>.toDataURL()
	if i := strings.Index(img, ";base64,"); i >= 0 {
		img = img[i+len(";base64,"):]
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(img))

	if err != nil {
		RespondBadRequest(ctx, "imagem must be base64 encoded", gin.H{"fields": []FieldError{{Field: "imagem", Rule: "base64", Message: "must be base64 encoded"}}})
		return "", false
	}

	text, err := label.DecodeQRCode(raw)

	if err != nil {
		RespondError(ctx, http.StatusBadRequest, "invalid_qr", "No QR code found in image", nil)
		return "", false
	}

	return text, true
}
