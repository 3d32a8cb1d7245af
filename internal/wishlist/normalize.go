package wishlist

import (
	"encoding/json"

	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/model"
)

// normalizeItems flattens the backend's inconsistent wishlist shapes into a
// plain item slice. The contract is not uniformly normalised: responses
// arrive as a bare array, {"items":[...]} or {"wishlistItems":[...]}.
func normalizeItems(raw json.RawMessage) ([]model.WishlistItem, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var bare []model.WishlistItem
	if err := json.Unmarshal(raw, &bare); err == nil {
		return bare, nil
	}

	var wrapped struct {
		Items         []model.WishlistItem `json:"items"`
		WishlistItems []model.WishlistItem `json:"wishlistItems"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, model.ErrInvalidResponse
	}
	if wrapped.Items != nil {
		return wrapped.Items, nil
	}
	return wrapped.WishlistItems, nil
}
