package model

import "github.com/shopspring/decimal"

// WishlistItem is one saved product. Same wholesale-replace discipline as the
// cart, without quantities.
type WishlistItem struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"productId"`
	ProductName  string          `json:"productName"`
	ProductPrice decimal.Decimal `json:"productPrice"`
	ProductImage string          `json:"productImage"`

	// Some backend responses nest the product instead of flattening it.
	Product *Product `json:"product,omitempty"`
}

// AddToWishlistRequest is the add payload.
type AddToWishlistRequest struct {
	ProductID int64 `json:"productId"`
}
