package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/api"
	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Authenticator reports whether a session is active. Satisfied by the
// session store.
type Authenticator interface {
	IsAuthenticated() bool
}

// Store is the client-side view of the server-owned cart. Every mutation
// round-trips and wholesale-replaces local state with the server's response;
// the store never computes quantity or subtotal transitions locally.
type Store struct {
	client *api.Client
	auth   Authenticator
	logger zerolog.Logger

	mu       sync.Mutex
	cart     *model.Cart
	inFlight map[int64]bool

	clearTimer *time.Timer
}

// NewStore creates a cart store.
func NewStore(client *api.Client, auth Authenticator, logger zerolog.Logger) *Store {
	return &Store{
		client:   client,
		auth:     auth,
		logger:   logger.With().Str("store", "cart").Logger(),
		inFlight: make(map[int64]bool),
	}
}

// Get fetches the cart. Without a session it yields an empty cart, not an
// error.
func (s *Store) Get(ctx context.Context) (*model.Cart, error) {
	if s.auth != nil && !s.auth.IsAuthenticated() {
		empty := &model.Cart{}
		s.apply(empty)
		return empty, nil
	}

	cart, err := api.Get[*model.Cart](ctx, s.client, "/cart")
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to fetch cart")
		return nil, err
	}
	if cart == nil {
		cart = &model.Cart{}
	}
	s.apply(cart)
	return cart, nil
}

// Add adds a product to the cart. Stock limits are checked by the caller
// against the product detail before invoking this.
func (s *Store) Add(ctx context.Context, productID int64, quantity int) (*model.Cart, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1, got %d", quantity)
	}

	cart, err := api.Post[*model.Cart](ctx, s.client, "/cart/add", model.AddToCartRequest{
		ProductID: productID,
		Quantity:  quantity,
	})
	if err != nil {
		s.logger.Warn().Int64("product_id", productID).Err(err).Msg("failed to add to cart")
		return nil, err
	}

	s.apply(cart)
	s.logger.Debug().Int64("product_id", productID).Int("quantity", quantity).Msg("added to cart")
	return cart, nil
}

// UpdateItem changes a line item's quantity. A transition to zero is a
// remove intent: the caller must confirm and call Remove instead. While a
// mutation for the same line item is in flight, further updates are rejected
// so out-of-order responses cannot produce lost updates.
func (s *Store) UpdateItem(ctx context.Context, itemID int64, quantity int) (*model.Cart, error) {
	if quantity == 0 {
		return nil, model.ErrRemoveConfirmationRequired
	}
	if quantity < 0 {
		return nil, fmt.Errorf("quantity cannot be negative, got %d", quantity)
	}

	if !s.acquire(itemID) {
		return nil, model.ErrMutationInFlight
	}
	defer s.release(itemID)

	cart, err := api.Put[*model.Cart](ctx, s.client, fmt.Sprintf("/cart/update/%d", itemID), model.UpdateCartItemRequest{
		Quantity: quantity,
	})
	if err != nil {
		s.logger.Warn().Int64("item_id", itemID).Err(err).Msg("failed to update cart item")
		return nil, err
	}

	s.apply(cart)
	return cart, nil
}

// Remove deletes a product's line item from the cart.
func (s *Store) Remove(ctx context.Context, productID int64) (*model.Cart, error) {
	cart, err := api.Delete[*model.Cart](ctx, s.client, fmt.Sprintf("/cart/remove/%d", productID))
	if err != nil {
		s.logger.Warn().Int64("product_id", productID).Err(err).Msg("failed to remove from cart")
		return nil, err
	}

	s.apply(cart)
	s.logger.Debug().Int64("product_id", productID).Msg("removed from cart")
	return cart, nil
}

// Clear empties the cart. Used after a cart-sourced checkout and as a safety
// net after the payment gateway round trip.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.client.Do(ctx, "DELETE", "/cart/clear", nil); err != nil {
		s.logger.Warn().Err(err).Msg("failed to clear cart")
		return err
	}
	s.apply(&model.Cart{})
	s.logger.Debug().Msg("cart cleared")
	return nil
}

// ScheduleClear clears the cart after delay, replacing any previously
// scheduled clear. The delay avoids racing the backend's own order-driven
// cart clear after gateway payment confirmation.
func (s *Store) ScheduleClear(delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clearTimer != nil {
		s.clearTimer.Stop()
	}
	s.clearTimer = time.AfterFunc(delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Clear(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("scheduled cart clear failed")
		}
	})
	s.logger.Debug().Dur("delay", delay).Msg("cart clear scheduled")
}

// CancelScheduledClear stops a pending scheduled clear, if any.
func (s *Store) CancelScheduledClear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clearTimer != nil {
		s.clearTimer.Stop()
		s.clearTimer = nil
	}
}

// Current returns the last server-returned cart, or nil before the first
// fetch.
func (s *Store) Current() *model.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart
}

// Subtotal sums the server-provided line subtotals.
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	if s.cart == nil {
		return total
	}
	for _, item := range s.cart.Items {
		total = total.Add(item.Subtotal)
	}
	return total
}

// ItemCount returns the number of line items in the cart.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart == nil {
		return 0
	}
	return len(s.cart.Items)
}

// apply replaces local state with the server's authoritative response.
func (s *Store) apply(cart *model.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = cart
}

func (s *Store) acquire(itemID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[itemID] {
		return false
	}
	s.inFlight[itemID] = true
	return true
}

func (s *Store) release(itemID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, itemID)
}
