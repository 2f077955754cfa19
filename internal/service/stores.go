package service

import (
	"context"

	"github.com/chamalog/chamalog/internal/domain/activity"
	"github.com/chamalog/chamalog/internal/domain/store"
)

type StoreStore interface {
	List(ctx context.Context) ([]store.Store, error)
	GetByID(ctx context.Context, id int64) (store.Store, error)
	Create(ctx context.Context, req store.CreateRequest) (store.Store, error)
	Update(ctx context.Context, id int64, req store.UpdateRequest) error
	Delete(ctx context.Context, id int64) error
}

type StoreService struct {
	stores   StoreStore
	activity Recorder
}

func NewStoreService(stores StoreStore, activity Recorder) *StoreService {
	return &StoreService{stores: stores, activity: activity}
}

func (s *StoreService) List(ctx context.Context) ([]store.Store, error) {
	return s.stores.List(ctx)
}

func (s *StoreService) Get(ctx context.Context, id int64) (store.Store, error) {
	return s.stores.GetByID(ctx, id)
}

func (s *StoreService) Create(ctx context.Context, actor Actor, req store.CreateRequest) (store.Store, error) {
	created, err := s.stores.Create(ctx, req)

	if err != nil {
		return store.Store{}, err
	}

	s.activity.Record(ctx, activity.StoreCreated(created.Name), actor.ID)

	return created, nil
}

func (s *StoreService) Update(ctx context.Context, actor Actor, id int64, req store.UpdateRequest) error {
	if err := s.stores.Update(ctx, id, req); err != nil {
		return err
	}

	s.activity.Record(ctx, activity.StoreUpdated(req.Name), actor.ID)

	return nil
}

// Delete fails with store.ErrReferenced while orders still originate there.
func (s *StoreService) Delete(ctx context.Context, actor Actor, id int64) error {
	existing, err := s.stores.GetByID(ctx, id)

	if err != nil {
		return err
	}

	if err := s.stores.Delete(ctx, id); err != nil {
		return err
	}

	s.activity.Record(ctx, activity.StoreDeleted(existing.Name), actor.ID)

	return nil
}
