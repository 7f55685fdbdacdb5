package application

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/shopeasy/shopeasy-engine/internal/domain/entity"
	"github.com/shopeasy/shopeasy-engine/internal/domain/repository"
)

// Pricing holds the shipping rule: free strictly above the threshold,
// otherwise a flat fee.
type Pricing struct {
	ShippingFlatFee  float64
	FreeShippingOver float64
}

func (p *Pricing) setDefaults() {
	if p.ShippingFlatFee == 0 {
		p.ShippingFlatFee = 49
	}
	if p.FreeShippingOver == 0 {
		p.FreeShippingOver = 999
	}
}

// CartService keeps the cart in memory and mirrors it to the store after
// every mutation. The persisted cart and the in-memory cart are identical
// whenever a mutating call has returned; a failed write leaves both at the
// previous state.
type CartService struct {
	mu      sync.Mutex
	store   repository.Store
	logger  *logrus.Logger
	pricing Pricing
	items   entity.CartItems
}

// NewCartService loads the persisted cart; an absent record is an empty cart.
func NewCartService(ctx context.Context, store repository.Store, logger *logrus.Logger, pricing Pricing) (*CartService, error) {
	pricing.setDefaults()
	s := &CartService{store: store, logger: logger, pricing: pricing}
	if _, err := store.Get(ctx, repository.KeyCart, &s.items); err != nil {
		return nil, err
	}
	return s, nil
}

// AddItem appends a new line with quantity 1, or bumps the quantity when the
// id is already present. The unit price of an existing line is never updated;
// the first-seen price wins.
func (s *CartService) AddItem(ctx context.Context, id, name string, unitPrice float64) (entity.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.items.Clone()
	idx := indexOf(next, id)
	if idx >= 0 {
		next[idx].Quantity++
	} else {
		next = append(next, entity.CartItem{ID: id, Name: name, UnitPrice: unitPrice, Quantity: 1})
		idx = len(next) - 1
	}
	if err := s.persist(ctx, next); err != nil {
		return entity.CartItem{}, err
	}
	s.items = next
	s.logger.WithFields(logrus.Fields{"item_id": id, "quantity": next[idx].Quantity}).Debug("cart item added")
	return next[idx], nil
}

// RemoveItem deletes the line with the given id; an absent id is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(ctx, id)
}

func (s *CartService) removeLocked(ctx context.Context, id string) error {
	idx := indexOf(s.items, id)
	if idx < 0 {
		return nil
	}
	next := make(entity.CartItems, 0, len(s.items)-1)
	next = append(next, s.items[:idx]...)
	next = append(next, s.items[idx+1:]...)
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.items = next
	s.logger.WithField("item_id", id).Debug("cart item removed")
	return nil
}

// UpdateQuantity adds delta (signed) to the line's quantity. A resulting
// quantity of zero or less removes the line; an absent id is a no-op.
func (s *CartService) UpdateQuantity(ctx context.Context, id string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.items, id)
	if idx < 0 {
		return nil
	}
	if s.items[idx].Quantity+delta <= 0 {
		return s.removeLocked(ctx, id)
	}
	next := s.items.Clone()
	next[idx].Quantity += delta
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.items = next
	return nil
}

// Clear empties the cart and persists the empty sequence.
func (s *CartService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	empty := entity.CartItems{}
	if err := s.persist(ctx, empty); err != nil {
		return err
	}
	s.items = empty
	return nil
}

// Reset drops the cart record entirely (logout). Implements SessionScoped.
func (s *CartService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Remove(ctx, repository.KeyCart); err != nil {
		return err
	}
	s.items = nil
	return nil
}

// Items returns a deep copy of the cart lines in order.
func (s *CartService) Items() entity.CartItems {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.Clone()
}

// Count returns the total quantity across all lines.
func (s *CartService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.Count()
}

// Subtotal sums unit price times quantity.
func (s *CartService) Subtotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.Subtotal()
}

// Shipping is zero when the subtotal is strictly above the free-shipping
// threshold, otherwise the flat fee.
func (s *CartService) Shipping() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shippingFor(s.items.Subtotal())
}

func (s *CartService) shippingFor(subtotal float64) float64 {
	if subtotal > s.pricing.FreeShippingOver {
		return 0
	}
	return s.pricing.ShippingFlatFee
}

// Total is subtotal plus shipping.
func (s *CartService) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	subtotal := s.items.Subtotal()
	return subtotal + s.shippingFor(subtotal)
}

// Snapshot is a pricing-consistent capture of the cart taken in a single lock
// hold: the totals are derived from exactly the items listed, so no mutation
// can slip in between reading the lines and pricing them.
type Snapshot struct {
	Items    entity.CartItems
	Subtotal float64
	Shipping float64
	Total    float64
}

// Snapshot captures the current cart and its pricing atomically.
func (s *CartService) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.items.Clone()
	subtotal := items.Subtotal()
	shipping := s.shippingFor(subtotal)
	return Snapshot{Items: items, Subtotal: subtotal, Shipping: shipping, Total: subtotal + shipping}
}

// Consume subtracts the snapshot's quantities from the cart and persists the
// remainder. Lines (or extra quantity) added after the snapshot was taken
// survive into the next cart instead of being wiped.
func (s *CartService) Consume(ctx context.Context, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	taken := make(map[string]int, len(snap.Items))
	for _, it := range snap.Items {
		taken[it.ID] += it.Quantity
	}
	next := make(entity.CartItems, 0, len(s.items))
	for _, line := range s.items {
		if q := line.Quantity - taken[line.ID]; q > 0 {
			line.Quantity = q
			next = append(next, line)
		}
	}
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.items = next
	return nil
}

func (s *CartService) persist(ctx context.Context, items entity.CartItems) error {
	return s.store.Set(ctx, repository.KeyCart, items)
}

func indexOf(items entity.CartItems, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
