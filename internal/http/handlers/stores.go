package handlers

import (
	"context"
	"net/http"

	"github.com/chamalog/chamalog/internal/domain/store"
	"github.com/chamalog/chamalog/internal/service"
	"github.com/gin-gonic/gin"
)

type StoreDirectory interface {
	List(ctx context.Context) ([]store.Store, error)
	Get(ctx context.Context, id int64) (store.Store, error)
	Create(ctx context.Context, actor service.Actor, req store.CreateRequest) (store.Store, error)
	Update(ctx context.Context, actor service.Actor, id int64, req store.UpdateRequest) error
	Delete(ctx context.Context, actor service.Actor, id int64) error
}

type StoresHandler struct {
	stores StoreDirectory
}

func NewStoresHandler(stores StoreDirectory) *StoresHandler {
	return &StoresHandler{stores: stores}
}

// List backs the store dropdowns, which the dashboard polls; it honours
// If-None-Match.
func (h *StoresHandler) List(ctx *gin.Context) {
	stores, err := h.stores.List(ctx.Request.Context())

	if err != nil {
		RespondServiceError(ctx, err, "Could not list stores")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, stores)
}

func (h *StoresHandler) Get(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	s, err := h.stores.Get(ctx.Request.Context(), id)

	if err != nil {
		RespondServiceError(ctx, err, "Could not fetch store")
		return
	}

	ctx.JSON(http.StatusOK, s)
}

func (h *StoresHandler) Create(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	var req store.CreateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	s, err := h.stores.Create(ctx.Request.Context(), actor, req)

	if err != nil {
		RespondServiceError(ctx, err, "Could not create store")
		return
	}

	RespondCreated(ctx, s.ID, nil)
}

func (h *StoresHandler) Update(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var req store.UpdateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if err := h.stores.Update(ctx.Request.Context(), actor, id, req); err != nil {
		RespondServiceError(ctx, err, "Could not update store")
		return
	}

	RespondMessage(ctx, "Store updated")
}

func (h *StoresHandler) Delete(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	id, ok := pathID(ctx)
	if !ok {
		return
	}

	if err := h.stores.Delete(ctx.Request.Context(), actor, id); err != nil {
		RespondServiceError(ctx, err, "Could not delete store")
		return
	}

	RespondMessage(ctx, "Store deleted")
}
