package main

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"

	"github.com/nutrihaven/storefront/internal/cart"
	"github.com/nutrihaven/storefront/internal/catalog"
	"github.com/nutrihaven/storefront/internal/checkout"
	"github.com/nutrihaven/storefront/internal/common"
	"github.com/nutrihaven/storefront/internal/config"
	"github.com/nutrihaven/storefront/internal/events"
	"github.com/nutrihaven/storefront/internal/health"
	"github.com/nutrihaven/storefront/internal/kv"
	"github.com/nutrihaven/storefront/internal/lock"
	"github.com/nutrihaven/storefront/internal/notify"
	"github.com/nutrihaven/storefront/internal/obs"
	"github.com/nutrihaven/storefront/internal/order"
	"github.com/nutrihaven/storefront/internal/pricing"
	"github.com/nutrihaven/storefront/internal/ratelimit"
	"github.com/nutrihaven/storefront/internal/reviews"
	"github.com/nutrihaven/storefront/internal/security"
	"github.com/nutrihaven/storefront/internal/session"
	"github.com/nutrihaven/storefront/internal/subscription"
	"github.com/nutrihaven/storefront/internal/wishlist"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "storefront")
	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)
	obs.MustRegisterDomainMetrics(metricsNamespace, nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}

	kvStore := kv.NewRedisStore(redisClient, cfg.ChangeChannel)

	bus := &events.Bus{Notifiers: []events.Notifier{
		notify.ToastNotifier{Sink: notify.LogSink{Logger: logger}, Enabled: true},
		notify.EmailNotifier{Sender: common.NopEmailSender{}, Logger: logger},
		obs.EventMetrics{},
	}}

	cartStore, err := cart.NewStore(ctx, kvStore, kvStore, bus, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("hydrate cart")
	}
	wishlistStore, err := wishlist.NewStore(ctx, kvStore, kvStore, bus, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("hydrate wishlist")
	}
	orderStore, err := order.NewStore(ctx, kvStore, kvStore, bus, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("hydrate orders")
	}

	sessions := &session.Manager{KV: kvStore, Pub: kvStore, Logger: logger}

	rules := pricing.Rules{
		TaxRate:               cfg.TaxRate,
		FlatShippingFee:       cfg.FlatShippingFee,
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		PromoCode:             cfg.PromoCode,
		PromoRate:             cfg.PromoRate,
	}
	products := catalog.Seed()

	flow := &checkout.Flow{
		KV:       kvStore,
		Pub:      kvStore,
		Cart:     cartStore,
		Orders:   orderStore,
		Session:  sessions,
		Rules:    rules,
		Validate: checkout.NewValidator(),
		Locker:   lock.Locker{R: redisClient},
		Logger:   logger,
	}

	catalogHandler := catalog.NewHandler(products)
	cartHandler := &cart.Handler{Store: cartStore, Catalog: products, Rules: rules, Events: bus}
	wishlistHandler := &wishlist.Handler{Store: wishlistStore, Catalog: products}
	checkoutHandler := &checkout.Handler{Flow: flow}
	orderHandler := &order.Handler{Store: orderStore}
	sessionHandler := &session.Handler{Manager: sessions}
	subscriptionHandler := &subscription.Handler{}
	reviewsHandler := &reviews.Handler{}

	idem := common.Idem{R: redisClient, TTL: 24 * time.Hour}

	limiter, err := ratelimit.New(redisClient, cfg.RateLimit)
	if err != nil {
		logger.Fatal().Err(err).Msg("configure rate limiter")
	}

	// A second browsing context re-hydrates collections when another one
	// writes. Last writer wins.
	go func() {
		err := kvStore.SubscribeChanges(ctx, func(key string) {
			var rehydrateErr error
			switch key {
			case cart.StorageKey:
				rehydrateErr = cartStore.Rehydrate(context.Background())
			case wishlist.StorageKey:
				rehydrateErr = wishlistStore.Rehydrate(context.Background())
			case order.StorageKey:
				rehydrateErr = orderStore.Rehydrate(context.Background())
			}
			if rehydrateErr != nil {
				logger.Error().Err(rehydrateErr).Str("key", key).Msg("rehydrate on change")
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("change subscription ended")
		}
	}()

	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		buckets := obs.ParseBucketsCSV(envOrDefault("OBS_METRICS_BUCKETS_MS", ""))
		httpMetrics = obs.NewHTTPMetrics(metricsNamespace, buckets, nil)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if metricsEnabled && httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(security.Headers{Enable: true, EnableHSTS: cfg.AppEnv == "production"}.Middleware)
	r.Use(security.BodyLimit{Max: cfg.BodyLimitBytes}.Middleware)
	r.Use(ratelimit.Middleware{Limiter: limiter, Logger: logger}.Handler)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(sessions.Middleware)

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}
	if envBool("OBS_ENABLE_PPROF", false) {
		user := envOrDefault("SECURE_PPROF_BASIC_AUTH_USER", "")
		pass := envOrDefault("SECURE_PPROF_BASIC_AUTH_PASS", "")
		r.Mount("/debug/pprof", protectPprof(newPprofMux(), user, pass))
	}

	healthHandler := health.Handler{
		Checker:      health.RedisChecker{Client: redisClient},
		RedisTimeout: 300 * time.Millisecond,
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Get("/categories", catalogHandler.Categories)
		v.Get("/products", catalogHandler.Products)
		v.Get("/products/{id}", catalogHandler.ProductDetail)
		v.Get("/testimonials", reviewsHandler.List)
		v.Get("/subscriptions/plans", subscriptionHandler.List)

		v.Route("/cart", func(c chi.Router) {
			c.Get("/", cartHandler.Get)
			c.Post("/items", cartHandler.AddItem)
			c.Patch("/items/{id}", cartHandler.UpdateItem)
			c.Delete("/items/{id}", cartHandler.RemoveItem)
			c.Delete("/", cartHandler.Clear)
			c.Post("/promo", cartHandler.ApplyPromo)
			c.Delete("/promo", cartHandler.RemovePromo)
		})

		v.Route("/wishlist", func(wl chi.Router) {
			wl.Get("/", wishlistHandler.List)
			wl.Post("/toggle", wishlistHandler.Toggle)
			wl.Delete("/{id}", wishlistHandler.Remove)
			wl.Delete("/", wishlistHandler.Clear)
		})

		v.Route("/checkout", func(c chi.Router) {
			c.Post("/", checkoutHandler.Begin)
			c.Get("/", checkoutHandler.Current)
			c.Post("/shipping", checkoutHandler.Shipping)
			c.Post("/payment", checkoutHandler.Payment)
			c.Post("/back", checkoutHandler.Back)
			c.With(idem.Middleware).Post("/submit", checkoutHandler.Submit)
			c.Delete("/", checkoutHandler.Cancel)
		})

		v.Get("/orders", orderHandler.List)
		v.Get("/orders/{id}", orderHandler.Get)

		v.Route("/auth", func(a chi.Router) {
			a.Post("/login", sessionHandler.Login)
			a.Post("/logout", sessionHandler.Logout)
			a.Get("/me", sessionHandler.Me)
		})
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	go func() {
		<-ctx.Done()
		health.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown server")
		}
	}()

	logger.Info().Str("addr", srv.Addr).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server exited unexpectedly")
	}
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "t", "true", "yes", "on":
			return true
		case "0", "f", "false", "no", "off":
			return false
		}
	}
	return fallback
}

func newPprofMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", pprof.Index)
	mux.HandleFunc("/cmdline", pprof.Cmdline)
	mux.HandleFunc("/profile", pprof.Profile)
	mux.HandleFunc("/symbol", pprof.Symbol)
	mux.HandleFunc("/trace", pprof.Trace)
	mux.Handle("/allocs", pprof.Handler("allocs"))
	mux.Handle("/goroutine", pprof.Handler("goroutine"))
	mux.Handle("/heap", pprof.Handler("heap"))
	mux.Handle("/mutex", pprof.Handler("mutex"))
	return mux
}

func protectPprof(handler http.Handler, user, pass string) http.Handler {
	user = strings.TrimSpace(user)
	pass = strings.TrimSpace(pass)
	if user == "" {
		return handler
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || subtle.ConstantTimeCompare([]byte(u), []byte(user)) != 1 || subtle.ConstantTimeCompare([]byte(p), []byte(pass)) != 1 {
			w.Header().Set("WWW-Authenticate", "Basic realm=restricted")
			http.Error(w, "unauthorised", http.StatusUnauthorized)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
