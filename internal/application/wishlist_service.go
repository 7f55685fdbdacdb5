package application

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/shopeasy/shopeasy-engine/internal/domain/repository"
)

// WishlistService keeps the wished product-id set, persisted independently of
// the cart and discarded on logout.
type WishlistService struct {
	mu     sync.Mutex
	store  repository.Store
	logger *logrus.Logger
	ids    []string
}

func NewWishlistService(ctx context.Context, store repository.Store, logger *logrus.Logger) (*WishlistService, error) {
	s := &WishlistService{store: store, logger: logger}
	if _, err := store.Get(ctx, repository.KeyWishlist, &s.ids); err != nil {
		return nil, err
	}
	return s, nil
}

// Toggle adds the product id if absent, removes it if present. The returned
// bool reports whether the id is on the wishlist after the call.
func (s *WishlistService) Toggle(ctx context.Context, productID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]string, 0, len(s.ids)+1)
	added := true
	for _, id := range s.ids {
		if id == productID {
			added = false
			continue
		}
		next = append(next, id)
	}
	if added {
		next = append(next, productID)
	}
	if err := s.store.Set(ctx, repository.KeyWishlist, next); err != nil {
		return false, err
	}
	s.ids = next
	s.logger.WithFields(logrus.Fields{"product_id": productID, "wished": added}).Debug("wishlist toggled")
	return added, nil
}

// Contains reports whether the product id is on the wishlist.
func (s *WishlistService) Contains(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.ids {
		if id == productID {
			return true
		}
	}
	return false
}

// Items returns a copy of the wished product ids.
func (s *WishlistService) Items() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Reset drops the wishlist record (logout). Implements SessionScoped.
func (s *WishlistService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Remove(ctx, repository.KeyWishlist); err != nil {
		return err
	}
	s.ids = nil
	return nil
}
