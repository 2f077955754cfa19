package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/chamalog/chamalog/internal/domain/activity"
	"github.com/chamalog/chamalog/internal/domain/order"
	"github.com/chamalog/chamalog/internal/domain/store"
	"github.com/chamalog/chamalog/internal/domain/user"
)

type fakeOrders struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]order.Order
	stores map[int64]store.Store
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{rows: map[int64]order.Order{}, stores: map[int64]store.Store{}}
}

func (f *fakeOrders) Create(_ context.Context, o *order.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.rows {
		if existing.Code == o.Code {
			return order.ErrDuplicateCode
		}
	}

	f.nextID++
	o.ID = f.nextID
	o.Status = order.StatusPending
	o.CreatedAt = time.Now().Add(time.Duration(f.nextID) * time.Millisecond)
	f.rows[o.ID] = *o
	return nil
}

func (f *fakeOrders) GetByID(_ context.Context, id int64) (order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	o, ok := f.rows[id]
	if !ok {
		return order.Order{}, order.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrders) GetByCode(_ context.Context, code string) (order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, o := range f.rows {
		if o.Code == code {
			return o, nil
		}
	}
	return order.Order{}, order.ErrNotFound
}

func (f *fakeOrders) List(_ context.Context, flt order.ListFilter) ([]order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]order.Order, 0)
	for _, o := range f.rows {
		if flt.OwnerID != nil && o.OwnerID != *flt.OwnerID {
			continue
		}
		if flt.CourierID != nil && (o.CourierID == nil || *o.CourierID != *flt.CourierID) {
			continue
		}
		if flt.Status != nil && o.Status != *flt.Status {
			continue
		}
		out = append(out, o)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id int64, status order.Status) (order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	o, ok := f.rows[id]
	if !ok {
		return order.Order{}, order.ErrNotFound
	}
	o.Status = status
	f.rows[id] = o
	return o, nil
}

func (f *fakeOrders) ConfirmTransport(_ context.Context, id, courierID int64) (order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	o, ok := f.rows[id]
	if !ok {
		return order.Order{}, order.ErrNotFound
	}
	o.Status = order.StatusInTransit
	if o.CourierID == nil {
		o.CourierID = &courierID
	}
	f.rows[id] = o
	return o, nil
}

func (f *fakeOrders) Delete(_ context.Context, id int64) (order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	o, ok := f.rows[id]
	if !ok {
		return order.Order{}, order.ErrNotFound
	}
	delete(f.rows, id)
	return o, nil
}

func (f *fakeOrders) Stats(_ context.Context) (order.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var s order.Stats
	for _, o := range f.rows {
		s.Total++
		switch o.Status {
		case order.StatusInTransit:
			s.InTransit++
		case order.StatusDelivered:
			s.Delivered++
		}
	}
	return s, nil
}

func (f *fakeOrders) LabelView(ctx context.Context, id int64) (order.LabelView, error) {
	o, err := f.GetByID(ctx, id)
	if err != nil {
		return order.LabelView{}, err
	}
	st := f.stores[o.OriginID]
	return order.LabelView{Order: o, StoreName: st.Name, StoreAddress: st.Address}, nil
}

type fakeStores struct {
	mu   sync.Mutex
	rows map[int64]store.Store
	// store ids referenced by orders
	referenced map[int64]bool
}

func newFakeStores(rows ...store.Store) *fakeStores {
	f := &fakeStores{rows: map[int64]store.Store{}, referenced: map[int64]bool{}}
	for _, s := range rows {
		f.rows[s.ID] = s
	}
	return f
}

func (f *fakeStores) List(_ context.Context) ([]store.Store, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]store.Store, 0, len(f.rows))
	for _, s := range f.rows {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeStores) GetByID(_ context.Context, id int64) (store.Store, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.rows[id]
	if !ok {
		return store.Store{}, store.ErrNotFound
	}
	return s, nil
}

func (f *fakeStores) Create(_ context.Context, req store.CreateRequest) (store.Store, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := store.Store{ID: int64(len(f.rows) + 1), Name: req.Name, Address: req.Address, CreatedAt: time.Now()}
	f.rows[s.ID] = s
	return s, nil
}

func (f *fakeStores) Update(_ context.Context, id int64, req store.UpdateRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.rows[id]
	if !ok {
		return store.ErrNotFound
	}
	s.Name, s.Address = req.Name, req.Address
	f.rows[id] = s
	return nil
}

func (f *fakeStores) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.rows[id]; !ok {
		return store.ErrNotFound
	}
	if f.referenced[id] {
		return store.ErrReferenced
	}
	delete(f.rows, id)
	return nil
}

type fakeUsers struct {
	mu       sync.Mutex
	rows     map[int64]user.User
	versions map[int64]int
	// ids referenced by orders
	referenced map[int64]bool
	versionHit int
}

func newFakeUsers(rows ...user.User) *fakeUsers {
	f := &fakeUsers{rows: map[int64]user.User{}, versions: map[int64]int{}, referenced: map[int64]bool{}}
	for _, u := range rows {
		f.rows[u.ID] = u
	}
	return f
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.rows {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.rows[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) List(_ context.Context) ([]user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]user.User, 0, len(f.rows))
	for _, u := range f.rows {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsers) Create(_ context.Context, u *user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.rows {
		if strings.EqualFold(existing.Email, u.Email) {
			return user.ErrEmailTaken
		}
	}
	u.ID = int64(len(f.rows) + 100)
	f.rows[u.ID] = *u
	return nil
}

func (f *fakeUsers) Update(_ context.Context, id int64, req user.UpdateRequest, storeID *int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.rows[id]
	if !ok {
		return user.ErrNotFound
	}
	u.Name, u.Email, u.Role, u.StoreID = req.Name, req.Email, req.Role, storeID
	f.rows[id] = u
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.rows[id]; !ok {
		return user.ErrNotFound
	}
	if f.referenced[id] {
		return user.ErrReferenced
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeUsers) TokenVersion(_ context.Context, id int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.versionHit++
	if _, ok := f.rows[id]; !ok {
		return 0, user.ErrNotFound
	}
	return f.versions[id], nil
}

func (f *fakeUsers) BumpTokenVersion(_ context.Context, id int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.rows[id]; !ok {
		return 0, user.ErrNotFound
	}
	f.versions[id]++
	return f.versions[id], nil
}

type fakeActivity struct {
	mu      sync.Mutex
	entries []activity.Activity
	failing bool
}

func (f *fakeActivity) Append(_ context.Context, description string, userID *int64) error {
	if f.failing {
		return errors.New("activities table is gone")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries = append(f.entries, activity.Activity{
		ID:          int64(len(f.entries) + 1),
		Description: description,
		UserID:      userID,
		CreatedAt:   time.Now(),
	})
	return nil
}

func (f *fakeActivity) Recent(_ context.Context, limit int) ([]activity.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]activity.Activity, 0, limit)
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.entries[i])
	}
	return out, nil
}

func (f *fakeActivity) descriptions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.Description)
	}
	return out
}
