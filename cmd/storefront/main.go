package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/api"
	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/cart"
	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/checkout"
	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/config"
	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/geo"
	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/order"
	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/payment"
	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/product"
	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/session"
	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/user"
	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/wishlist"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting storefront client")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// The session store is the client's token source, so it is created
	// first and bound to the client afterwards.
	sessions := session.NewStore(session.NewFileStorage(cfg.Session.FilePath), logger)
	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, sessions, logger)
	sessions.Bind(client)
	sessions.OnInvalidate(func() {
		logger.Warn().Msg("session expired; sign in again")
	})

	// Stores and services
	cartStore := cart.NewStore(client, sessions, logger)
	wishlistStore := wishlist.NewStore(client, sessions, logger)
	products := product.NewService(client, logger)
	users := user.NewService(client, logger)
	orders := order.NewService(client, logger)
	payments := payment.NewService(client, logger)
	resolver := geo.NewResolver(cfg.Geo.BaseURL, cfg.Geo.Timeout, logger)

	_ = checkout.NewOrchestrator(orders, payments, cartStore, sessions, cfg.Payment.CartClearDelay, logger)

	// Read-only smoke sequence exercising the wiring.
	if page, err := products.List(ctx, product.ListParams{Page: 0, Size: 5}); err != nil {
		logger.Warn().Err(err).Msg("product list unavailable")
	} else {
		logger.Info().Int("products", len(page.Content)).Msg("catalog reachable")
	}

	if sessions.IsAuthenticated() {
		if profile, err := users.Profile(ctx); err != nil {
			logger.Warn().Err(err).Msg("profile fetch failed")
		} else {
			logger.Info().Str("username", profile.Username).Msg("signed in")
		}
		if currentCart, err := cartStore.Get(ctx); err != nil {
			logger.Warn().Err(err).Msg("cart fetch failed")
		} else {
			logger.Info().Int("items", len(currentCart.Items)).Str("subtotal", cartStore.Subtotal().String()).Msg("cart loaded")
		}
		if items, err := wishlistStore.Get(ctx); err != nil {
			logger.Warn().Err(err).Msg("wishlist fetch failed")
		} else {
			logger.Info().Int("items", len(items)).Msg("wishlist loaded")
		}
	} else {
		logger.Info().Msg("no session; browsing anonymously")
	}

	if provinces, err := resolver.LoadProvinces(ctx); err != nil {
		logger.Warn().Err(err).Msg("geo lookup unavailable")
	} else {
		logger.Info().Int("provinces", len(provinces)).Msg("geo lookup reachable")
	}

	logger.Info().Msg("storefront client ready")
	return nil
}
