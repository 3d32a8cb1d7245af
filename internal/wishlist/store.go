package wishlist

import (
	"context"
	"fmt"
	"sync"

	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/api"
	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/model"

	"github.com/rs/zerolog"
)

// Authenticator reports whether a session is active.
type Authenticator interface {
	IsAuthenticated() bool
}

// Store mirrors the server-owned wishlist with the same wholesale-replace
// discipline as the cart, minus quantities.
type Store struct {
	client *api.Client
	auth   Authenticator
	logger zerolog.Logger

	mu    sync.RWMutex
	items []model.WishlistItem
}

// NewStore creates a wishlist store.
func NewStore(client *api.Client, auth Authenticator, logger zerolog.Logger) *Store {
	return &Store{
		client: client,
		auth:   auth,
		logger: logger.With().Str("store", "wishlist").Logger(),
	}
}

// Get fetches the wishlist. Without a session it yields an empty list.
func (s *Store) Get(ctx context.Context) ([]model.WishlistItem, error) {
	if s.auth != nil && !s.auth.IsAuthenticated() {
		s.apply(nil)
		return nil, nil
	}

	env, err := s.client.Do(ctx, "GET", "/wishlist", nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to fetch wishlist")
		return nil, err
	}

	items, err := normalizeItems(env.Result)
	if err != nil {
		return nil, err
	}
	s.apply(items)
	return items, nil
}

// Add saves a product to the wishlist.
func (s *Store) Add(ctx context.Context, productID int64) ([]model.WishlistItem, error) {
	env, err := s.client.Do(ctx, "POST", "/wishlist/add", model.AddToWishlistRequest{ProductID: productID})
	if err != nil {
		s.logger.Warn().Int64("product_id", productID).Err(err).Msg("failed to add to wishlist")
		return nil, err
	}

	items, err := normalizeItems(env.Result)
	if err != nil {
		return nil, err
	}
	s.apply(items)
	s.logger.Debug().Int64("product_id", productID).Msg("added to wishlist")
	return items, nil
}

// Remove deletes a product from the wishlist.
func (s *Store) Remove(ctx context.Context, productID int64) ([]model.WishlistItem, error) {
	env, err := s.client.Do(ctx, "DELETE", fmt.Sprintf("/wishlist/remove/%d", productID), nil)
	if err != nil {
		s.logger.Warn().Int64("product_id", productID).Err(err).Msg("failed to remove from wishlist")
		return nil, err
	}

	items, err := normalizeItems(env.Result)
	if err != nil {
		return nil, err
	}
	s.apply(items)
	return items, nil
}

// Clear empties the wishlist.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.client.Do(ctx, "DELETE", "/wishlist/clear", nil); err != nil {
		s.logger.Warn().Err(err).Msg("failed to clear wishlist")
		return err
	}
	s.apply(nil)
	return nil
}

// Items returns the last server-returned wishlist.
func (s *Store) Items() []model.WishlistItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items
}

// IsInWishlist reports whether the product is saved, matching against the
// item id, the flattened productId or a nested product record.
func (s *Store) IsInWishlist(productID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.ProductID == productID || item.ID == productID {
			return true
		}
		if item.Product != nil && item.Product.ID == productID {
			return true
		}
	}
	return false
}

func (s *Store) apply(items []model.WishlistItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
}
