package application

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shopeasy/shopeasy-engine/internal/domain/apperr"
	"github.com/shopeasy/shopeasy-engine/internal/domain/entity"
	"github.com/shopeasy/shopeasy-engine/internal/domain/repository"
)

// OrderService converts the cart into persisted order records and exposes
// the order history. Orders are immutable once written.
type OrderService struct {
	mu       sync.Mutex
	store    repository.Store
	cart     *CartService
	accounts *AccountService
	logger   *logrus.Logger
	idPrefix string

	now func() time.Time
}

func NewOrderService(store repository.Store, cart *CartService, accounts *AccountService, logger *logrus.Logger, idPrefix string) *OrderService {
	if idPrefix == "" {
		idPrefix = "SHOP"
	}
	return &OrderService{
		store:    store,
		cart:     cart,
		accounts: accounts,
		logger:   logger,
		idPrefix: idPrefix,
		now:      time.Now,
	}
}

// Checkout snapshots the cart into a new pending order attributed to the
// session user, prepends it to the history, and consumes the snapshot from
// the cart. The snapshot carries its own totals, taken in a single cart-lock
// hold, so the recorded total always prices exactly the recorded items even
// while cart mutations race the checkout; lines added after the snapshot stay
// in the cart. The cart is consumed only after the order is recorded, and
// checkouts are serialized, so invoking checkout twice with no intervening
// cart change cannot record the order twice: the second call finds an empty
// cart.
func (s *OrderService) Checkout(ctx context.Context) (*entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok, err := s.accounts.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.State("No user logged in")
	}

	snap := s.cart.Snapshot()
	if len(snap.Items) == 0 {
		return nil, apperr.EmptyCart("Your cart is empty")
	}

	order := entity.Order{
		ID:        s.idPrefix + "-" + shortOrderID(),
		UserID:    user.ID,
		TotalCost: snap.Total,
		PlacedAt:  s.now().UTC(),
		Status:    entity.OrderStatusPending,
		Items:     snap.Items,
	}

	var history []entity.Order
	if _, err := s.store.Get(ctx, repository.KeyOrderHistory, &history); err != nil {
		return nil, err
	}
	history = append([]entity.Order{order}, history...)
	if err := s.store.Set(ctx, repository.KeyOrderHistory, history); err != nil {
		return nil, err
	}

	if err := s.cart.Consume(ctx, snap); err != nil {
		// The order is recorded; report the failure rather than retrying a
		// write that would let a later checkout duplicate it.
		s.logger.WithError(err).WithField("order_id", order.ID).Error("cart consume after checkout failed")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":   order.ID,
		"user_id":    order.UserID,
		"total_cost": order.TotalCost,
	}).Info("order placed")
	return &order, nil
}

// History returns the user's orders, most recent first. Ties on timestamp
// keep insertion order.
func (s *OrderService) History(ctx context.Context, userID string) ([]entity.Order, error) {
	var history []entity.Order
	if _, err := s.store.Get(ctx, repository.KeyOrderHistory, &history); err != nil {
		return nil, err
	}
	out := make([]entity.Order, 0, len(history))
	for _, o := range history {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func shortOrderID() string {
	return strings.ToUpper(strings.SplitN(uuid.NewString(), "-", 2)[0])
}
