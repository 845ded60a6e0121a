// Command seeder loads a demo shopping session into the key-value store so a
// fresh environment has a browsable cart, wishlist and order history.
package main

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/nutrihaven/storefront/internal/cart"
	"github.com/nutrihaven/storefront/internal/catalog"
	"github.com/nutrihaven/storefront/internal/config"
	"github.com/nutrihaven/storefront/internal/kv"
	"github.com/nutrihaven/storefront/internal/obs"
	"github.com/nutrihaven/storefront/internal/order"
	"github.com/nutrihaven/storefront/internal/pricing"
	"github.com/nutrihaven/storefront/internal/session"
	"github.com/nutrihaven/storefront/internal/wishlist"
)

func main() {
	logger := obs.NewLogger("console", "info")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	client := redis.NewClient(opts)
	defer func() { _ = client.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}

	store := kv.NewRedisStore(client, cfg.ChangeChannel)
	products := catalog.Seed()

	sessions := &session.Manager{KV: store, Pub: store, Logger: logger}
	if err := sessions.Login(ctx, "Demo Customer"); err != nil {
		logger.Fatal().Err(err).Msg("seed session")
	}

	cartStore, err := cart.NewStore(ctx, store, store, nil, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open cart")
	}
	if err := cartStore.Clear(ctx); err != nil {
		logger.Fatal().Err(err).Msg("reset cart")
	}
	for _, seed := range []struct {
		id  string
		qty int
	}{
		{id: "1", qty: 2},
		{id: "2", qty: 1},
	} {
		product, ok := catalog.ByID(products, seed.id)
		if !ok {
			logger.Fatal().Str("id", seed.id).Msg("unknown seed product")
		}
		item := cart.Item{
			ID:            product.ID,
			Name:          product.Name,
			Price:         product.Price,
			DiscountPrice: product.DiscountPrice,
			Image:         product.Image,
			Quantity:      seed.qty,
		}
		if err := cartStore.Add(ctx, item); err != nil {
			logger.Fatal().Err(err).Str("id", seed.id).Msg("seed cart item")
		}
	}

	wishlistStore, err := wishlist.NewStore(ctx, store, store, nil, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open wishlist")
	}
	if err := wishlistStore.Clear(ctx); err != nil {
		logger.Fatal().Err(err).Msg("reset wishlist")
	}
	for _, id := range []string{"4", "6", "12"} {
		product, ok := catalog.ByID(products, id)
		if !ok {
			logger.Fatal().Str("id", id).Msg("unknown seed product")
		}
		item := wishlist.Item{
			ID:            product.ID,
			Name:          product.Name,
			Price:         product.Price,
			DiscountPrice: product.DiscountPrice,
			Image:         product.Image,
			Rating:        product.Rating,
			Category:      product.Category,
		}
		if err := wishlistStore.Add(ctx, item); err != nil {
			logger.Fatal().Err(err).Str("id", id).Msg("seed wishlist item")
		}
	}

	orderStore, err := order.NewStore(ctx, store, store, nil, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open orders")
	}
	if len(orderStore.List()) == 0 {
		rules := pricing.Rules{
			TaxRate:               cfg.TaxRate,
			FlatShippingFee:       cfg.FlatShippingFee,
			FreeShippingThreshold: cfg.FreeShippingThreshold,
			PromoCode:             cfg.PromoCode,
			PromoRate:             cfg.PromoRate,
		}
		items := cartStore.List()
		totals, err := pricing.Compute(cartStore.PricingItems(), "", rules)
		if err != nil {
			logger.Fatal().Err(err).Msg("price demo order")
		}
		demo := order.Order{
			ID:      order.NewID(),
			Date:    time.Now().AddDate(0, 0, -7).Format(time.RFC3339),
			Status:  order.StatusProcessing,
			Items:   items,
			Pricing: totals.Rounded(),
			Total:   pricing.Round2(totals.Total),
			Customer: order.Customer{
				Name:    "Demo Customer",
				Email:   "demo@example.com",
				Phone:   "9876543210",
				Address: "12 Orchard Lane",
				City:    "Pune",
				State:   "MH",
				Pincode: "411001",
			},
			PaymentMethod: "card",
		}
		if err := orderStore.Append(ctx, demo); err != nil {
			logger.Fatal().Err(err).Msg("seed order")
		}
	}

	logger.Info().
		Int("cart_items", cartStore.Count()).
		Int("wishlist_items", wishlistStore.Count()).
		Int("orders", len(orderStore.List())).
		Msg("seeding completed")
}
