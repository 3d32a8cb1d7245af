package payment

import (
	"context"
	"fmt"

	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/api"
	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/model"

	"github.com/rs/zerolog"
)

// Service creates gateway payment sessions and queries their status.
type Service struct {
	client *api.Client
	logger zerolog.Logger
}

// NewService creates a payment service.
func NewService(client *api.Client, logger zerolog.Logger) *Service {
	return &Service{
		client: client,
		logger: logger.With().Str("service", "payment").Logger(),
	}
}

// Create opens a gateway payment session for an order and returns the
// redirect URL. The browser round-trip to the gateway owns confirmation from
// here; the caller must not show a local success state.
func (s *Service) Create(ctx context.Context, req model.PaymentRequest) (*model.PaymentSession, error) {
	session, err := api.Post[*model.PaymentSession](ctx, s.client, "/payment/create", req)
	if err != nil {
		s.logger.Warn().Int64("order_id", req.OrderID).Err(err).Msg("payment session creation failed")
		return nil, err
	}
	if session == nil || session.PaymentURL == "" {
		return nil, model.ErrInvalidResponse
	}

	s.logger.Info().Int64("order_id", req.OrderID).Msg("payment session created")
	return session, nil
}

// Status returns the gateway transaction status for a reference.
func (s *Service) Status(ctx context.Context, txnRef string) (*model.Payment, error) {
	return api.Get[*model.Payment](ctx, s.client, "/payment/status/"+txnRef)
}

// UserPayments returns a user's recorded payments.
func (s *Service) UserPayments(ctx context.Context, userID int64) ([]model.Payment, error) {
	return api.Get[[]model.Payment](ctx, s.client, fmt.Sprintf("/payment/user/%d", userID))
}
