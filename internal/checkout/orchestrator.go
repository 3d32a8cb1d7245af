package checkout

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/cart"
	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/model"
	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/order"
	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/payment"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// SessionReader exposes the current session for payment attribution.
type SessionReader interface {
	Current() *model.Session
}

// Orchestrator collects shipping, payment method and items, validates, and
// submits exactly one of the two order-creation calls.
type Orchestrator struct {
	orders   *order.Service
	payments *payment.Service
	cart     *cart.Store
	sessions SessionReader
	logger   zerolog.Logger

	// cartClearDelay spaces the post-gateway cart clear away from the
	// backend's own order-driven clear.
	cartClearDelay time.Duration
}

// NewOrchestrator creates a checkout orchestrator.
func NewOrchestrator(
	orders *order.Service,
	payments *payment.Service,
	cartStore *cart.Store,
	sessions SessionReader,
	cartClearDelay time.Duration,
	logger zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		orders:         orders,
		payments:       payments,
		cart:           cartStore,
		sessions:       sessions,
		cartClearDelay: cartClearDelay,
		logger:         logger.With().Str("service", "checkout").Logger(),
	}
}

// Result is the outcome of a successful submission. A non-empty RedirectURL
// means the gateway round-trip owns confirmation: redirect the browser and
// show no local success state.
type Result struct {
	Order       *model.Order
	RedirectURL string
	CartCleared bool
}

// Submit validates the checkout context and creates the order. OriginBuyNow
// calls the direct-order endpoint with its explicit item list; OriginCart
// calls create-from-cart and the server reads the authoritative cart. On a
// non-gateway success the cart is cleared only when the order originated
// from it.
func (o *Orchestrator) Submit(ctx context.Context, co *Context) (*Result, error) {
	if len(co.Items) == 0 {
		return nil, fmt.Errorf("nothing to check out")
	}
	if errs := Validate(co.Form); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	shippingAddress := formatAddress(co.Form.Address)
	fee := co.ShippingFee()

	var (
		created *model.Order
		err     error
	)
	switch co.Origin {
	case OriginBuyNow:
		items := make([]model.OrderItemRequest, len(co.Items))
		for i, item := range co.Items {
			items[i] = model.OrderItemRequest{ProductID: item.ProductID, Quantity: item.Quantity}
		}
		created, err = o.orders.CreateDirect(ctx, model.CreateDirectOrderRequest{
			Items:           items,
			ShippingAddress: shippingAddress,
			BillingAddress:  shippingAddress,
			Phone:           co.Form.PhoneNumber,
			Email:           co.Form.Email,
			CustomerName:    co.Form.FullName,
			PaymentMethod:   co.Form.PaymentMethod,
			ShippingFee:     fee,
			DiscountAmount:  decimal.Zero,
			Notes:           co.Form.DeliveryNotes,
		})
	case OriginCart:
		created, err = o.orders.CreateFromCart(ctx, model.CreateOrderRequest{
			ShippingAddress: shippingAddress,
			BillingAddress:  shippingAddress,
			Phone:           co.Form.PhoneNumber,
			Email:           co.Form.Email,
			CustomerName:    co.Form.FullName,
			PaymentMethod:   co.Form.PaymentMethod,
			ShippingFee:     fee,
			DiscountAmount:  decimal.Zero,
			Notes:           co.Form.DeliveryNotes,
		})
	default:
		return nil, fmt.Errorf("unknown checkout origin %d", co.Origin)
	}
	if err != nil {
		return nil, err
	}

	o.logger.Info().
		Int64("order_id", created.ID).
		Str("origin", co.Origin.String()).
		Str("payment_method", co.Form.PaymentMethod).
		Msg("order submitted")

	if co.Form.PaymentMethod == PaymentVNPay {
		return o.openGatewaySession(ctx, co, created)
	}

	result := &Result{Order: created}
	if co.Origin == OriginCart {
		if clearErr := o.cart.Clear(ctx); clearErr != nil {
			// The order exists; a failed clear is recoverable on next fetch.
			o.logger.Warn().Err(clearErr).Msg("cart clear after checkout failed")
		} else {
			result.CartCleared = true
		}
	}
	return result, nil
}

func (o *Orchestrator) openGatewaySession(ctx context.Context, co *Context, created *model.Order) (*Result, error) {
	var userID int64
	if session := o.sessions.Current(); session.Authenticated() {
		userID = session.User.ID
	}

	session, err := o.payments.Create(ctx, model.PaymentRequest{
		OrderID:   created.ID,
		Amount:    co.Total().IntPart(),
		OrderInfo: fmt.Sprintf("Thanh toan don hang #%s", orderRef(created)),
		UserID:    userID,
	})
	if err != nil {
		// The order exists but payment does not; the caller retries the
		// payment, not the order.
		return nil, &model.PaymentAfterOrderError{OrderID: created.ID, Err: err}
	}

	return &Result{Order: created, RedirectURL: session.PaymentURL}, nil
}

// HandleGatewayReturn parses the gateway return redirect. On success the
// cart clear is scheduled after a delay rather than immediately, to avoid
// racing the backend's own cart-clearing side effect of order finalisation;
// on failure the cart is left untouched for retry.
func (o *Orchestrator) HandleGatewayReturn(query url.Values) payment.ReturnInfo {
	info := payment.ParseReturn(query)
	if info.Succeeded() {
		o.logger.Info().Str("txn_ref", info.TxnRef).Msg("gateway payment confirmed")
		o.cart.ScheduleClear(o.cartClearDelay)
	} else {
		o.logger.Warn().
			Str("txn_ref", info.TxnRef).
			Str("response_code", info.ResponseCode).
			Str("transaction_status", info.TransactionStatus).
			Msg("gateway payment failed")
	}
	return info
}

func formatAddress(a model.AddressSelection) string {
	return strings.Join([]string{a.Address, a.Ward, a.District, a.Province}, ", ")
}

func orderRef(o *model.Order) string {
	if o.OrderNumber != "" {
		return o.OrderNumber
	}
	return fmt.Sprintf("%d", o.ID)
}
