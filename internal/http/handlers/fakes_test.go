package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chamalog/chamalog/internal/actorctx"
	"github.com/chamalog/chamalog/internal/domain/activity"
	"github.com/chamalog/chamalog/internal/domain/order"
	"github.com/chamalog/chamalog/internal/domain/store"
	"github.com/chamalog/chamalog/internal/domain/user"
	"github.com/chamalog/chamalog/internal/geo"
	"github.com/chamalog/chamalog/internal/service"
	"github.com/gin-gonic/gin"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuth struct {
	authenticateFn func(ctx context.Context, email, password string) (user.User, string, error)
	registerFn     func(ctx context.Context, req user.SignUpRequest) (user.User, string, error)
	meFn           func(ctx context.Context, actor service.Actor) (user.User, error)
	logoutAllFn    func(ctx context.Context, actor service.Actor) error
}

func (f *fakeAuth) Authenticate(ctx context.Context, email, password string) (user.User, string, error) {
	if f.authenticateFn != nil {
		return f.authenticateFn(ctx, email, password)
	}
	return user.User{}, "", nil
}

func (f *fakeAuth) Register(ctx context.Context, req user.SignUpRequest) (user.User, string, error) {
	if f.registerFn != nil {
		return f.registerFn(ctx, req)
	}
	return user.User{}, "", nil
}

func (f *fakeAuth) Me(ctx context.Context, actor service.Actor) (user.User, error) {
	if f.meFn != nil {
		return f.meFn(ctx, actor)
	}
	return user.User{ID: actor.ID, Role: actor.Role}, nil
}

func (f *fakeAuth) LogoutAll(ctx context.Context, actor service.Actor) error {
	if f.logoutAllFn != nil {
		return f.logoutAllFn(ctx, actor)
	}
	return nil
}

type fakeUsers struct {
	listFn   func(ctx context.Context) ([]user.User, error)
	createFn func(ctx context.Context, actor service.Actor, req user.CreateRequest) (user.User, error)
	updateFn func(ctx context.Context, actor service.Actor, id int64, req user.UpdateRequest) error
	deleteFn func(ctx context.Context, actor service.Actor, id int64) error
}

func (f *fakeUsers) List(ctx context.Context) ([]user.User, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return []user.User{}, nil
}

func (f *fakeUsers) Create(ctx context.Context, actor service.Actor, req user.CreateRequest) (user.User, error) {
	if f.createFn != nil {
		return f.createFn(ctx, actor, req)
	}
	return user.User{}, nil
}

func (f *fakeUsers) Update(ctx context.Context, actor service.Actor, id int64, req user.UpdateRequest) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, actor, id, req)
	}
	return nil
}

func (f *fakeUsers) Delete(ctx context.Context, actor service.Actor, id int64) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, actor, id)
	}
	return nil
}

type fakeStores struct {
	listFn   func(ctx context.Context) ([]store.Store, error)
	getFn    func(ctx context.Context, id int64) (store.Store, error)
	createFn func(ctx context.Context, actor service.Actor, req store.CreateRequest) (store.Store, error)
	updateFn func(ctx context.Context, actor service.Actor, id int64, req store.UpdateRequest) error
	deleteFn func(ctx context.Context, actor service.Actor, id int64) error
}

func (f *fakeStores) List(ctx context.Context) ([]store.Store, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return []store.Store{}, nil
}

func (f *fakeStores) Get(ctx context.Context, id int64) (store.Store, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return store.Store{ID: id}, nil
}

func (f *fakeStores) Create(ctx context.Context, actor service.Actor, req store.CreateRequest) (store.Store, error) {
	if f.createFn != nil {
		return f.createFn(ctx, actor, req)
	}
	return store.Store{}, nil
}

func (f *fakeStores) Update(ctx context.Context, actor service.Actor, id int64, req store.UpdateRequest) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, actor, id, req)
	}
	return nil
}

func (f *fakeStores) Delete(ctx context.Context, actor service.Actor, id int64) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, actor, id)
	}
	return nil
}

type fakeOrders struct {
	createFn           func(ctx context.Context, actor service.Actor, req order.CreateRequest) (order.Order, error)
	listFn             func(ctx context.Context, actor service.Actor, f order.ListFilter) ([]order.Order, error)
	listForCourierFn   func(ctx context.Context, actor service.Actor) ([]order.Order, error)
	getFn              func(ctx context.Context, actor service.Actor, id int64) (order.Order, error)
	updateStatusFn     func(ctx context.Context, actor service.Actor, id int64, status order.Status) (order.Order, error)
	deleteFn           func(ctx context.Context, actor service.Actor, id int64) error
	statsFn            func(ctx context.Context) (order.Stats, error)
	resolveScanFn      func(ctx context.Context, payload string) (order.Order, error)
	confirmTransportFn func(ctx context.Context, actor service.Actor, payload string) (order.Order, error)
	labelFn            func(ctx context.Context, actor service.Actor, id int64) ([]byte, error)
}

func (f *fakeOrders) Create(ctx context.Context, actor service.Actor, req order.CreateRequest) (order.Order, error) {
	if f.createFn != nil {
		return f.createFn(ctx, actor, req)
	}
	return order.Order{}, nil
}

func (f *fakeOrders) List(ctx context.Context, actor service.Actor, filter order.ListFilter) ([]order.Order, error) {
	if f.listFn != nil {
		return f.listFn(ctx, actor, filter)
	}
	return []order.Order{}, nil
}

func (f *fakeOrders) ListForCourier(ctx context.Context, actor service.Actor) ([]order.Order, error) {
	if f.listForCourierFn != nil {
		return f.listForCourierFn(ctx, actor)
	}
	return []order.Order{}, nil
}

func (f *fakeOrders) Get(ctx context.Context, actor service.Actor, id int64) (order.Order, error) {
	if f.getFn != nil {
		return f.getFn(ctx, actor, id)
	}
	return order.Order{ID: id}, nil
}

func (f *fakeOrders) UpdateStatus(ctx context.Context, actor service.Actor, id int64, status order.Status) (order.Order, error) {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, actor, id, status)
	}
	return order.Order{ID: id, Status: status}, nil
}

func (f *fakeOrders) Delete(ctx context.Context, actor service.Actor, id int64) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, actor, id)
	}
	return nil
}

func (f *fakeOrders) Stats(ctx context.Context) (order.Stats, error) {
	if f.statsFn != nil {
		return f.statsFn(ctx)
	}
	return order.Stats{}, nil
}

func (f *fakeOrders) ResolveScan(ctx context.Context, payload string) (order.Order, error) {
	if f.resolveScanFn != nil {
		return f.resolveScanFn(ctx, payload)
	}
	return order.Order{}, nil
}

func (f *fakeOrders) ConfirmTransport(ctx context.Context, actor service.Actor, payload string) (order.Order, error) {
	if f.confirmTransportFn != nil {
		return f.confirmTransportFn(ctx, actor, payload)
	}
	return order.Order{}, nil
}

func (f *fakeOrders) Label(ctx context.Context, actor service.Actor, id int64) ([]byte, error) {
	if f.labelFn != nil {
		return f.labelFn(ctx, actor, id)
	}
	return []byte("%PDF-1.3"), nil
}

type fakeFeed struct {
	feedFn func(ctx context.Context, limit int) ([]activity.FeedItem, error)
}

func (f *fakeFeed) Feed(ctx context.Context, limit int) ([]activity.FeedItem, error) {
	if f.feedFn != nil {
		return f.feedFn(ctx, limit)
	}
	return []activity.FeedItem{}, nil
}

type fakeLookup struct {
	lookupFn func(ctx context.Context, cep string) (geo.Address, error)
}

func (f *fakeLookup) Lookup(ctx context.Context, cep string) (geo.Address, error) {
	if f.lookupFn != nil {
		return f.lookupFn(ctx, cep)
	}
	return geo.Address{}, nil
}

// small helper function which returns the gin engine to mount one handler per test.
// A non-nil identity is placed on the request context the way the auth
// middleware would.
func setupRouter(method, path string, h gin.HandlerFunc, id *actorctx.Identity) *gin.Engine {
	r := gin.New()

	if id != nil {
		identity := *id
		r.Use(func(c *gin.Context) {
			c.Request = c.Request.WithContext(actorctx.With(c.Request.Context(), identity))
			c.Next()
		})
	}

	r.Handle(method, path, h)

	return r
}

func as(id int64, role user.Role) *actorctx.Identity {
	return &actorctx.Identity{UserID: id, Role: role}
}

func do(r http.Handler, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()

	var e errorBody
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("failed to decode error body: %v body=%s", err, w.Body.String())
	}
	return e
}
