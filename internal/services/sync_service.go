package services

import (
	"context"
	"fmt"

	"design_portal/internal/repository"
	"design_portal/internal/store"
)

// SyncService reconciles the entity store against server truth. It backs the
// debounced push-channel refresh and the periodic cron sweep. Refreshes are
// silent: identical snapshots cause no store notification, and entities with
// a transition in flight are left to their optimistic patch.
type SyncService struct {
	orders     repository.OrderRepository
	complaints repository.ComplaintRepository
	store      *store.Store
}

func NewSyncService(orders repository.OrderRepository, complaints repository.ComplaintRepository, st *store.Store) *SyncService {
	return &SyncService{orders: orders, complaints: complaints, store: st}
}

// Refresh re-fetches every tracked entity and reconciles it.
func (s *SyncService) Refresh(ctx context.Context) error {
	var firstErr error
	for _, key := range s.store.Keys() {
		if s.store.InFlight(key) {
			continue
		}
		if err := s.refreshOne(ctx, key); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *SyncService) refreshOne(ctx context.Context, key store.Key) error {
	switch key.Kind {
	case store.KindOrder:
		order, err := s.orders.GetByPublicID(ctx, key.ID)
		if err != nil {
			return fmt.Errorf("failed to refresh order %s: %w", key.ID, err)
		}
		s.store.Reconcile(key, order)
	case store.KindComplaint:
		complaint, err := s.complaints.GetByPublicID(ctx, key.ID)
		if err != nil {
			return fmt.Errorf("failed to refresh complaint %s: %w", key.ID, err)
		}
		s.store.Reconcile(key, complaint)
	}
	return nil
}
