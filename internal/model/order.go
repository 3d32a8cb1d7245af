package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses returned by the back end.
const (
	OrderStatusPending    = "PENDING"
	OrderStatusConfirmed  = "CONFIRMED"
	OrderStatusProcessing = "PROCESSING"
	OrderStatusShipped    = "SHIPPED"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCancelled  = "CANCELLED"
)

// OrderDetail is one line item within an order.
type OrderDetail struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"productId"`
	ProductName  string          `json:"productName"`
	ProductImage string          `json:"productImage"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// Order is created server-side; the client only displays it. The one local
// mutation allowed is the optimistic greying of a cancel request, followed by
// a reload.
type Order struct {
	ID                 int64           `json:"id"`
	OrderNumber        string          `json:"orderNumber"`
	OrderDate          time.Time       `json:"orderDate"`
	Status             string          `json:"status"`
	PaymentMethod      string          `json:"paymentMethod"`
	PaymentStatus      string          `json:"paymentStatus"`
	ShippingAddress    string          `json:"shippingAddress"`
	BillingAddress     string          `json:"billingAddress"`
	Phone              string          `json:"phone"`
	Email              string          `json:"email"`
	CustomerName       string          `json:"customerName"`
	TotalAmount        decimal.Decimal `json:"totalAmount"`
	ShippingFee        decimal.Decimal `json:"shippingFee"`
	DiscountAmount     decimal.Decimal `json:"discountAmount"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	Notes              string          `json:"notes"`
	TrackingNumber     string          `json:"trackingNumber"`
	CancellationReason string          `json:"cancellationReason"`
	Details            []OrderDetail   `json:"orderDetails"`
	TotalItems         int             `json:"totalItems"`
	CanBeCancelled     bool            `json:"canBeCancelled"`
}

// OrderItemRequest is a product+quantity pair in a direct order.
type OrderItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// CreateOrderRequest is the create-from-cart payload; the server reads the
// authoritative cart for the item list.
type CreateOrderRequest struct {
	ShippingAddress string          `json:"shippingAddress"`
	BillingAddress  string          `json:"billingAddress"`
	Phone           string          `json:"phone"`
	Email           string          `json:"email"`
	CustomerName    string          `json:"customerName"`
	PaymentMethod   string          `json:"paymentMethod"`
	ShippingFee     decimal.Decimal `json:"shippingFee"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	Notes           string          `json:"notes"`
}

// CreateDirectOrderRequest is the buy-now payload carrying its explicit item
// list. It must never be conflated with the cart path.
type CreateDirectOrderRequest struct {
	Items           []OrderItemRequest `json:"items"`
	ShippingAddress string             `json:"shippingAddress"`
	BillingAddress  string             `json:"billingAddress"`
	Phone           string             `json:"phone"`
	Email           string             `json:"email"`
	CustomerName    string             `json:"customerName"`
	PaymentMethod   string             `json:"paymentMethod"`
	ShippingFee     decimal.Decimal    `json:"shippingFee"`
	DiscountAmount  decimal.Decimal    `json:"discountAmount"`
	Notes           string             `json:"notes"`
}
