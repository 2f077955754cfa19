package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/chamalog/chamalog/internal/domain/order"
	"github.com/chamalog/chamalog/internal/domain/user"
	"github.com/chamalog/chamalog/internal/http/handlers"
	"github.com/chamalog/chamalog/internal/service"
	"github.com/chamalog/chamalog/internal/utils"
)

func TestUpdateStatusHandler(t *testing.T) {
	stored := map[int64]order.Status{1: order.StatusPending}

	orders := &fakeOrders{
		updateStatusFn: func(ctx context.Context, actor service.Actor, id int64, status order.Status) (order.Order, error) {
			if !status.IsValid() {
				return order.Order{}, order.ErrInvalidStatus
			}
			if _, ok := stored[id]; !ok {
				return order.Order{}, order.ErrNotFound
			}
			stored[id] = status
			return order.Order{ID: id, Status: status}, nil
		},
	}

	r := setupRouter(http.MethodPut, "/api/pedidos/:id/status", handlers.NewOrdersHandler(orders).UpdateStatus, as(2, user.RoleStaff))

	tests := []struct {
		name           string
		id             string
		body           string
		wantStatusCode int
		wantStored     order.Status
	}{
		{"invalid status is rejected", "1", `{"status":"voando"}`, http.StatusBadRequest, order.StatusPending},
		{"missing status", "1", `{}`, http.StatusBadRequest, order.StatusPending},
		{"english alias", "1", `{"status":"in_transit"}`, http.StatusOK, order.StatusInTransit},
		{"stored name", "1", `{"status":"entregue"}`, http.StatusOK, order.StatusDelivered},
		{"unknown order", "99", `{"status":"entregue"}`, http.StatusNotFound, order.StatusDelivered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPut, "/api/pedidos/"+tt.id+"/status", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
			if stored[1] != tt.wantStored {
				t.Fatalf("stored status %q, want %q", stored[1], tt.wantStored)
			}
		})
	}

	w := do(r, http.MethodPut, "/api/pedidos/1/status", `{"status":"voando"}`)
	if decodeError(t, w).Error.Code != "invalid_status" {
		t.Fatalf("expected invalid_status, got %s", w.Body.String())
	}
}

func TestListOrdersHandler(t *testing.T) {
	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	all := []order.Order{
		{ID: 3, Code: "TR3", CreatedAt: base.Add(2 * time.Minute)},
		{ID: 2, Code: "TR2", CreatedAt: base.Add(time.Minute)},
		{ID: 1, Code: "TR1", CreatedAt: base},
	}

	var lastFilter order.ListFilter

	orders := &fakeOrders{
		listFn: func(ctx context.Context, actor service.Actor, f order.ListFilter) ([]order.Order, error) {
			lastFilter = f

			out := all
			if f.AfterCreatedAt != nil {
				out = nil
				for _, o := range all {
					if o.CreatedAt.Before(*f.AfterCreatedAt) {
						out = append(out, o)
					}
				}
			}
			if f.Limit > 0 && len(out) > f.Limit {
				out = out[:f.Limit]
			}
			return out, nil
		},
	}

	r := setupRouter(http.MethodGet, "/api/pedidos", handlers.NewOrdersHandler(orders).List, as(5, user.RoleCustomer))

	w := do(r, http.MethodGet, "/api/pedidos", "")
	var page []order.Order
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil || len(page) != 3 {
		t.Fatalf("expected the full list without limit, got %s", w.Body.String())
	}
	if w.Header().Get("X-Next-Cursor") != "" {
		t.Fatalf("no cursor expected without limit")
	}

	w = do(r, http.MethodGet, "/api/pedidos?limit=2", "")
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil || len(page) != 2 {
		t.Fatalf("expected 2 orders, got %s", w.Body.String())
	}

	next := w.Header().Get("X-Next-Cursor")
	cur, err := utils.DecodeOrderCursor(next)
	if err != nil || cur.ID != 2 {
		t.Fatalf("unexpected cursor %q (%v)", next, err)
	}

	w = do(r, http.MethodGet, "/api/pedidos?limit=2&cursor="+next, "")
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil || len(page) != 1 || page[0].ID != 1 {
		t.Fatalf("expected last order on page two, got %s", w.Body.String())
	}
	if w.Header().Get("X-Next-Cursor") != "" {
		t.Fatalf("last page must not carry a cursor")
	}

	w = do(r, http.MethodGet, "/api/pedidos?status=delivered", "")
	if w.Code != http.StatusOK || lastFilter.Status == nil || *lastFilter.Status != order.StatusDelivered {
		t.Fatalf("expected status filter entregue, got %d %+v", w.Code, lastFilter)
	}

	for _, q := range []string{"?status=voando", "?limit=0", "?limit=101", "?cursor=garbage"} {
		if w := do(r, http.MethodGet, "/api/pedidos"+q, ""); w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", q, w.Code)
		}
	}
}

func TestCreateOrderHandler(t *testing.T) {
	orders := &fakeOrders{
		createFn: func(ctx context.Context, actor service.Actor, req order.CreateRequest) (order.Order, error) {
			if err := req.Validate(); err != nil {
				return order.Order{}, err
			}
			if req.Origin.Int64() == 404 {
				return order.Order{}, order.ErrUnknownStore
			}
			return order.Order{ID: 10, Code: "TR17000000000001234", OwnerID: actor.ID}, nil
		},
	}

	r := setupRouter(http.MethodPost, "/api/pedidos", handlers.NewOrdersHandler(orders).Create, as(2, user.RoleStaff))

	w := do(r, http.MethodPost, "/api/pedidos", `{"destinatario":"Maria","endereco_completo":"Rua A, 10","peso":"1.2","valor":"30","origem":1}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var created struct {
		ID     int64  `json:"id"`
		Codigo string `json:"codigo"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil || created.ID != 10 || created.Codigo == "" {
		t.Fatalf("unexpected body %s", w.Body.String())
	}

	w = do(r, http.MethodPost, "/api/pedidos", `{"destinatario":"Maria","endereco_completo":"Rua A, 10","peso":"0","valor":"30","origem":1}`)
	if w.Code != http.StatusBadRequest || decodeError(t, w).Error.Code != "invalid_amount" {
		t.Fatalf("expected invalid_amount, got %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodPost, "/api/pedidos", `{"destinatario":"Maria","endereco_completo":"Rua A, 10","peso":"1","valor":"30","origem":404}`)
	if w.Code != http.StatusBadRequest || decodeError(t, w).Error.Code != "unknown_store" {
		t.Fatalf("expected unknown_store, got %d %s", w.Code, w.Body.String())
	}
}

func TestGetAndDeleteOrderHandler(t *testing.T) {
	orders := &fakeOrders{
		getFn: func(ctx context.Context, actor service.Actor, id int64) (order.Order, error) {
			if id != 1 {
				return order.Order{}, order.ErrNotFound
			}
			return order.Order{ID: 1, Code: "TR1"}, nil
		},
		deleteFn: func(ctx context.Context, actor service.Actor, id int64) error {
			if id != 1 {
				return order.ErrNotFound
			}
			return nil
		},
	}
	h := handlers.NewOrdersHandler(orders)

	get := setupRouter(http.MethodGet, "/api/pedidos/:id", h.Get, as(5, user.RoleCustomer))
	if w := do(get, http.MethodGet, "/api/pedidos/1", ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w := do(get, http.MethodGet, "/api/pedidos/2", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	del := setupRouter(http.MethodDelete, "/api/pedidos/:id", h.Delete, as(5, user.RoleCustomer))
	if w := do(del, http.MethodDelete, "/api/pedidos/1", ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w := do(del, http.MethodDelete, "/api/pedidos/2", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestStatsHandler(t *testing.T) {
	orders := &fakeOrders{
		statsFn: func(ctx context.Context) (order.Stats, error) {
			return order.Stats{Total: 5, InTransit: 2, Delivered: 1}, nil
		},
	}

	r := setupRouter(http.MethodGet, "/api/pedido-estatisticas", handlers.NewOrdersHandler(orders).Stats, as(5, user.RoleCustomer))

	w := do(r, http.MethodGet, "/api/pedido-estatisticas", "")

	var got map[string]int64
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["total"] != 5 || got["emTransito"] != 2 || got["entregues"] != 1 {
		t.Fatalf("unexpected stats %v", got)
	}

	orders.statsFn = func(ctx context.Context) (order.Stats, error) { return order.Stats{}, errors.New("boom") }
	if w := do(r, http.MethodGet, "/api/pedido-estatisticas", ""); w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}
