package model

import "github.com/shopspring/decimal"

// CartItem is one server-owned line item. Quantity and subtotal always come
// from the server; the client never recomputes them.
type CartItem struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"productId"`
	ProductName  string          `json:"productName"`
	ProductPrice decimal.Decimal `json:"productPrice"`
	ProductImage string          `json:"productImage"`
	Quantity     int             `json:"quantity"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// Cart is the authoritative cart as last returned by the server.
type Cart struct {
	ID         int64           `json:"id"`
	Items      []CartItem      `json:"items"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	TotalItems int             `json:"totalItems"`
}

// AddToCartRequest is the add-line-item payload.
type AddToCartRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// UpdateCartItemRequest is the change-quantity payload.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}
