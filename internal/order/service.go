package order

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/api"
	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/model"

	"github.com/rs/zerolog"
)

// Service creates and queries orders. Orders are server-owned; the client
// only displays them and requests cancellation.
type Service struct {
	client *api.Client
	logger zerolog.Logger
}

// NewService creates an order service.
func NewService(client *api.Client, logger zerolog.Logger) *Service {
	return &Service{
		client: client,
		logger: logger.With().Str("service", "order").Logger(),
	}
}

// ListParams controls order paging and sorting.
type ListParams struct {
	Page    int
	Size    int
	SortBy  string
	SortDir string
}

func (p ListParams) query() string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	size := p.Size
	if size <= 0 {
		size = 10
	}
	q.Set("size", strconv.Itoa(size))
	sortBy := p.SortBy
	if sortBy == "" {
		sortBy = "orderDate"
	}
	q.Set("sortBy", sortBy)
	sortDir := p.SortDir
	if sortDir == "" {
		sortDir = "desc"
	}
	q.Set("sortDir", sortDir)
	return q.Encode()
}

// MyOrders returns the signed-in user's orders, newest first by default.
func (s *Service) MyOrders(ctx context.Context, params ListParams) (*model.Page[model.Order], error) {
	return api.Get[*model.Page[model.Order]](ctx, s.client, "/orders/my-orders?"+params.query())
}

// Get returns one order by ID.
func (s *Service) Get(ctx context.Context, id int64) (*model.Order, error) {
	return api.Get[*model.Order](ctx, s.client, fmt.Sprintf("/orders/%d", id))
}

// GetByNumber returns one order by its order number.
func (s *Service) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	return api.Get[*model.Order](ctx, s.client, "/orders/number/"+url.PathEscape(number))
}

// CreateFromCart creates an order from the server's authoritative cart.
func (s *Service) CreateFromCart(ctx context.Context, req model.CreateOrderRequest) (*model.Order, error) {
	order, err := api.Post[*model.Order](ctx, s.client, "/orders/create-from-cart", req)
	if err != nil {
		s.logger.Warn().Err(err).Msg("create-from-cart failed")
		return nil, err
	}
	if order == nil {
		return nil, model.ErrInvalidResponse
	}
	s.logger.Info().Int64("order_id", order.ID).Msg("order created from cart")
	return order, nil
}

// CreateDirect creates an order from an explicit item list (buy now); the
// user's cart is not involved.
func (s *Service) CreateDirect(ctx context.Context, req model.CreateDirectOrderRequest) (*model.Order, error) {
	order, err := api.Post[*model.Order](ctx, s.client, "/orders/create-direct", req)
	if err != nil {
		s.logger.Warn().Err(err).Msg("create-direct failed")
		return nil, err
	}
	if order == nil {
		return nil, model.ErrInvalidResponse
	}
	s.logger.Info().Int64("order_id", order.ID).Int("items", len(req.Items)).Msg("direct order created")
	return order, nil
}

// Cancel requests cancellation of an order.
func (s *Service) Cancel(ctx context.Context, id int64, reason string) (*model.Order, error) {
	path := fmt.Sprintf("/orders/%d/cancel", id)
	if reason != "" {
		path += "?reason=" + url.QueryEscape(reason)
	}
	return api.Put[*model.Order](ctx, s.client, path, nil)
}

// UpdateStatus sets an order's status (admin only).
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (*model.Order, error) {
	path := fmt.Sprintf("/orders/%d/status?status=%s", id, url.QueryEscape(status))
	return api.Put[*model.Order](ctx, s.client, path, nil)
}

// UpdateTracking sets an order's tracking number (admin only).
func (s *Service) UpdateTracking(ctx context.Context, id int64, trackingNumber string) (*model.Order, error) {
	path := fmt.Sprintf("/orders/%d/tracking?trackingNumber=%s", id, url.QueryEscape(trackingNumber))
	return api.Put[*model.Order](ctx, s.client, path, nil)
}
