package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/chamalog/chamalog/internal/domain/order"
	"github.com/chamalog/chamalog/internal/service"
	"github.com/chamalog/chamalog/internal/utils"
	"github.com/gin-gonic/gin"
)

const maxPageSize = 100

type OrderDesk interface {
	Create(ctx context.Context, actor service.Actor, req order.CreateRequest) (order.Order, error)
	List(ctx context.Context, actor service.Actor, f order.ListFilter) ([]order.Order, error)
	ListForCourier(ctx context.Context, actor service.Actor) ([]order.Order, error)
	Get(ctx context.Context, actor service.Actor, id int64) (order.Order, error)
	UpdateStatus(ctx context.Context, actor service.Actor, id int64, status order.Status) (order.Order, error)
	Delete(ctx context.Context, actor service.Actor, id int64) error
	Stats(ctx context.Context) (order.Stats, error)
	ResolveScan(ctx context.Context, payload string) (order.Order, error)
	ConfirmTransport(ctx context.Context, actor service.Actor, payload string) (order.Order, error)
	Label(ctx context.Context, actor service.Actor, id int64) ([]byte, error)
}

type OrdersHandler struct {
	orders OrderDesk
}

func NewOrdersHandler(orders OrderDesk) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

// List supports ?status=, and keyset pagination through ?limit= and ?cursor=.
// Without limit every visible order is returned. The next page's cursor is
// sent in X-Next-Cursor.
func (h *OrdersHandler) List(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	var f order.ListFilter

	if raw := strings.TrimSpace(ctx.Query("status")); raw != "" {
		st, err := order.ParseStatus(raw)
		if err != nil {
			RespondServiceError(ctx, err, "Could not list orders")
			return
		}
		f.Status = &st
	}

	if raw := ctx.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxPageSize {
			RespondBadRequest(ctx, "limit must be between 1 and 100", gin.H{"limit": raw})
			return
		}
		f.Limit = limit + 1
	}

	if raw := ctx.Query("cursor"); raw != "" {
		cur, err := utils.DecodeOrderCursor(raw)
		if err != nil {
			RespondBadRequest(ctx, "Invalid cursor", nil)
			return
		}
		f.AfterCreatedAt = &cur.CreatedAt
		f.AfterID = cur.ID
	}

	orders, err := h.orders.List(ctx.Request.Context(), actor, f)

	if err != nil {
		RespondServiceError(ctx, err, "Could not list orders")
		return
	}

	if f.Limit > 0 && len(orders) == f.Limit {
		orders = orders[:f.Limit-1]
		last := orders[len(orders)-1]

		if next, err := utils.EncodeOrderCursor(last.CreatedAt, last.ID); err == nil {
			ctx.Header("X-Next-Cursor", next)
		}
	}

	ctx.JSON(http.StatusOK, orders)
}

func (h *OrdersHandler) ListForCourier(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	orders, err := h.orders.ListForCourier(ctx.Request.Context(), actor)

	if err != nil {
		RespondServiceError(ctx, err, "Could not list orders")
		return
	}

	ctx.JSON(http.StatusOK, orders)
}

func (h *OrdersHandler) Get(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	id, ok := pathID(ctx)
	if !ok {
		return
	}

	o, err := h.orders.Get(ctx.Request.Context(), actor, id)

	if err != nil {
		RespondServiceError(ctx, err, "Could not fetch order")
		return
	}

	ctx.JSON(http.StatusOK, o)
}

func (h *OrdersHandler) Create(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	var req order.CreateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	o, err := h.orders.Create(ctx.Request.Context(), actor, req)

	if err != nil {
		RespondServiceError(ctx, err, "Could not create order")
		return
	}

	RespondCreated(ctx, o.ID, gin.H{"codigo": o.Code})
}

func (h *OrdersHandler) UpdateStatus(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var req order.StatusRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if _, err := h.orders.UpdateStatus(ctx.Request.Context(), actor, id, req.Status); err != nil {
		RespondServiceError(ctx, err, "Could not update order status")
		return
	}

	RespondMessage(ctx, "Order status updated")
}

func (h *OrdersHandler) Delete(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	id, ok := pathID(ctx)
	if !ok {
		return
	}

	if err := h.orders.Delete(ctx.Request.Context(), actor, id); err != nil {
		RespondServiceError(ctx, err, "Could not delete order")
		return
	}

	RespondMessage(ctx, "Order deleted")
}

// Stats is always computed live; the ETag only saves the body transfer.
func (h *OrdersHandler) Stats(ctx *gin.Context) {
	stats, err := h.orders.Stats(ctx.Request.Context())

	if err != nil {
		RespondServiceError(ctx, err, "Could not compute statistics")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, stats)
}
