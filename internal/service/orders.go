package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chamalog/chamalog/internal/domain/activity"
	"github.com/chamalog/chamalog/internal/domain/ids"
	"github.com/chamalog/chamalog/internal/domain/order"
	"github.com/chamalog/chamalog/internal/domain/store"
	"github.com/chamalog/chamalog/internal/label"
	"github.com/chamalog/chamalog/internal/observability"
	"go.opentelemetry.io/otel/attribute"
)

// generated codes collide only within the same millisecond
const codeAttempts = 3

type OrderStore interface {
	Create(ctx context.Context, o *order.Order) error
	GetByID(ctx context.Context, id int64) (order.Order, error)
	GetByCode(ctx context.Context, code string) (order.Order, error)
	List(ctx context.Context, f order.ListFilter) ([]order.Order, error)
	UpdateStatus(ctx context.Context, id int64, status order.Status) (order.Order, error)
	ConfirmTransport(ctx context.Context, id, courierID int64) (order.Order, error)
	Delete(ctx context.Context, id int64) (order.Order, error)
	Stats(ctx context.Context) (order.Stats, error)
	LabelView(ctx context.Context, id int64) (order.LabelView, error)
}

type StoreLookup interface {
	GetByID(ctx context.Context, id int64) (store.Store, error)
}

type LabelRenderer interface {
	Render(d label.Data) ([]byte, error)
}

type OrderService struct {
	orders   OrderStore
	stores   StoreLookup
	activity Recorder
	tracker  label.Tracker
	renderer LabelRenderer
	prom     *observability.Prom
	now      func() time.Time
}

type OrderServiceDeps struct {
	Orders   OrderStore
	Stores   StoreLookup
	Activity Recorder
	Tracker  label.Tracker
	Renderer LabelRenderer
	Prom     *observability.Prom
}

func NewOrderService(d OrderServiceDeps) *OrderService {
	return &OrderService{
		orders:   d.Orders,
		stores:   d.Stores,
		activity: d.Activity,
		tracker:  d.Tracker,
		renderer: d.Renderer,
		prom:     d.Prom,
		now:      time.Now,
	}
}

// Create stores a new pending order owned by the caller. The sender is the
// origin store's name.
func (s *OrderService) Create(ctx context.Context, actor Actor, req order.CreateRequest) (order.Order, error) {
	if err := req.Validate(); err != nil {
		return order.Order{}, err
	}

	origin, err := s.stores.GetByID(ctx, req.Origin.Int64())

	if errors.Is(err, store.ErrNotFound) {
		return order.Order{}, order.ErrUnknownStore
	}

	if err != nil {
		return order.Order{}, err
	}

	o := order.Order{
		Code:       order.NormalizeCode(req.Code),
		Sender:     origin.Name,
		Recipient:  req.Recipient,
		Address:    req.Address,
		Weight:     req.Weight,
		Dimensions: req.Dimensions,
		Value:      req.Value,
		OriginID:   origin.ID,
		OwnerID:    actor.ID,
		CourierID:  ids.Ptr(req.CourierID),
	}

	generated := o.Code == ""

	for attempt := 1; ; attempt++ {
		if generated {
			o.Code = order.GenerateCode(s.now())
		}

		err = s.orders.Create(ctx, &o)

		if errors.Is(err, order.ErrDuplicateCode) && generated && attempt < codeAttempts {
			continue
		}

		break
	}

	if err != nil {
		return order.Order{}, err
	}

	s.prom.IncOrdersCreated()
	s.activity.Record(ctx, activity.OrderCreated(o.Code), actor.ID)

	return o, nil
}

// List returns every order for staff and only owned orders for customers.
func (s *OrderService) List(ctx context.Context, actor Actor, f order.ListFilter) ([]order.Order, error) {
	f.OwnerID = nil
	f.CourierID = nil

	if !actor.IsStaff() {
		f.OwnerID = &actor.ID
	}

	return s.orders.List(ctx, f)
}

// ListForCourier returns orders assigned to the caller.
func (s *OrderService) ListForCourier(ctx context.Context, actor Actor) ([]order.Order, error) {
	return s.orders.List(ctx, order.ListFilter{CourierID: &actor.ID})
}

// Get hides orders the caller may not see behind order.ErrNotFound.
func (s *OrderService) Get(ctx context.Context, actor Actor, id int64) (order.Order, error) {
	o, err := s.orders.GetByID(ctx, id)

	if err != nil {
		return order.Order{}, err
	}

	if !canSee(actor, o) {
		return order.Order{}, order.ErrNotFound
	}

	return o, nil
}

func canSee(actor Actor, o order.Order) bool {
	if actor.IsStaff() || o.OwnerID == actor.ID {
		return true
	}
	return o.CourierID != nil && *o.CourierID == actor.ID
}

// UpdateStatus sets any valid status; there is no transition graph and the
// last concurrent writer wins.
func (s *OrderService) UpdateStatus(ctx context.Context, actor Actor, id int64, status order.Status) (order.Order, error) {
	if !status.IsValid() {
		return order.Order{}, order.ErrInvalidStatus
	}

	o, err := s.orders.UpdateStatus(ctx, id, status)

	if err != nil {
		return order.Order{}, err
	}

	s.prom.IncStatusChange(string(status))
	s.activity.Record(ctx, activity.OrderStatusChanged(o.Code, string(status)), actor.ID)

	return o, nil
}

func (s *OrderService) Delete(ctx context.Context, actor Actor, id int64) error {
	o, err := s.orders.Delete(ctx, id)

	if err != nil {
		return err
	}

	s.activity.Record(ctx, activity.OrderDeleted(o.Code), actor.ID)

	return nil
}

func (s *OrderService) Stats(ctx context.Context) (order.Stats, error) {
	return s.orders.Stats(ctx)
}

// ResolveScan maps a scanned QR payload to its order. Malformed payloads
// wrap label.ErrInvalidPayload; well-formed but unknown codes return
// order.ErrInvalidCode. Lookups are not scoped to the caller since couriers
// validate a label before the pickup assigns them.
func (s *OrderService) ResolveScan(ctx context.Context, payload string) (order.Order, error) {
	code, err := s.tracker.CodeFromPayload(payload)

	if err != nil {
		s.prom.IncScan("invalid_qr")
		return order.Order{}, err
	}

	o, err := s.orders.GetByCode(ctx, code)

	switch {
	case errors.Is(err, order.ErrNotFound):
		s.prom.IncScan("unknown_code")
		return order.Order{}, fmt.Errorf("%w: %s", order.ErrInvalidCode, code)
	case err != nil:
		return order.Order{}, err
	}

	s.prom.IncScan("ok")

	return o, nil
}

// ConfirmTransport is the courier pickup: the scanned order goes in transit
// and the caller becomes its courier unless one is already assigned.
func (s *OrderService) ConfirmTransport(ctx context.Context, actor Actor, payload string) (order.Order, error) {
	o, err := s.ResolveScan(ctx, payload)

	if err != nil {
		return order.Order{}, err
	}

	updated, err := s.orders.ConfirmTransport(ctx, o.ID, actor.ID)

	if err != nil {
		return order.Order{}, err
	}

	s.activity.Record(ctx, activity.TransportConfirmed(updated.Code), actor.ID)

	return updated, nil
}

// Label renders the printable label for an order the caller can see.
func (s *OrderService) Label(ctx context.Context, actor Actor, id int64) ([]byte, error) {
	v, err := s.orders.LabelView(ctx, id)

	if err != nil {
		return nil, err
	}

	if !canSee(actor, v.Order) {
		return nil, order.ErrNotFound
	}

	_, span := observability.StartSpan(ctx, "label.render", attribute.String("order.code", v.Code))

	pdf, err := s.renderer.Render(label.Data{
		Code:         v.Code,
		Recipient:    v.Recipient,
		Address:      v.Address,
		StoreName:    v.StoreName,
		StoreAddress: v.StoreAddress,
		IssuedAt:     s.now(),
	})

	observability.EndSpan(span, err)

	if err != nil {
		return nil, err
	}

	s.prom.IncLabelRendered()
	s.activity.Record(ctx, activity.LabelGenerated(v.Code), actor.ID)

	return pdf, nil
}
