package handlers

import (
	"context"
	"net/http"

	"github.com/chamalog/chamalog/internal/geo"
	"github.com/gin-gonic/gin"
)

type AddressLookup interface {
	Lookup(ctx context.Context, cep string) (geo.Address, error)
}

type cepResponse struct {
	geo.Address
	Full string `json:"endereco_completo"`
}

type CEPHandler struct {
	lookup AddressLookup
}

func NewCEPHandler(lookup AddressLookup) *CEPHandler {
	return &CEPHandler{lookup: lookup}
}

func (h *CEPHandler) Lookup(ctx *gin.Context) {
	addr, err := h.lookup.Lookup(ctx.Request.Context(), ctx.Param("cep"))

	if err != nil {
		RespondServiceError(ctx, err, "Could not look up address")
		return
	}

	ctx.JSON(http.StatusOK, cepResponse{Address: addr, Full: addr.Full()})
}
