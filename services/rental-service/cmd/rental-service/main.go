package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/climatize/climatize/libs/config"
	"github.com/climatize/climatize/libs/db"
	"github.com/climatize/climatize/libs/httpx"
	"github.com/climatize/climatize/libs/kafkax"
	otelx "github.com/climatize/climatize/libs/otel"
	"github.com/climatize/climatize/libs/runtime"
	"github.com/climatize/climatize/services/rental-service/internal/booking"
	"github.com/climatize/climatize/services/rental-service/internal/handlers"
	"github.com/climatize/climatize/services/rental-service/internal/outbox"
	"github.com/climatize/climatize/services/rental-service/internal/reminder"
	"github.com/climatize/climatize/services/rental-service/internal/storage"
	"github.com/climatize/climatize/services/rental-service/internal/store"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	service := config.String("SERVICE_NAME", "rental-service")
	port, err := config.Port("PORT", "8080")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext(context.Background())
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	var (
		dataStore   store.Store
		events      handlers.Emitter
		readyChecks []runtime.ReadyCheck
	)

	brokers := config.String("KAFKA_BROKERS", "")
	if dbURL := strings.TrimSpace(config.String("DATABASE_URL", "")); dbURL != "" {
		pool, err := db.Open(ctx, dbURL)
		if err != nil {
			logger.Error("db connection failed", "err", err)
			panic(err)
		}
		defer pool.Close()

		pg := storage.NewPostgres(pool)
		outboxRepo := outbox.NewRepository(pool)
		outboxPublisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
			Brokers:   brokers,
			PollEvery: 2 * time.Second,
			BatchSize: 50,
		})
		go outboxPublisher.Run(ctx)

		reminderWorker := reminder.NewWorker(pg, outboxRepo, logger, reminder.WorkerConfig{
			Interval:  time.Duration(config.Int("REMINDER_INTERVAL_SECONDS", 30)) * time.Second,
			Lookahead: time.Duration(config.Int("REMINDER_LOOKAHEAD_HOURS", 24)) * time.Hour,
			BatchSize: config.Int("REMINDER_BATCH_SIZE", 50),
		})
		go reminderWorker.Run(ctx)

		dataStore = pg
		events = outboxRepo
		readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)})
		if strings.TrimSpace(brokers) != "" {
			readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(brokers)})
		}
	} else {
		logger.Warn("DATABASE_URL not set; using in-memory store with file snapshots")
		mem := store.NewMemory()
		if path := strings.TrimSpace(config.String("STATE_FILE", "data/rental-state.json")); path != "" {
			loaded, err := mem.EnableSnapshot(path, func(err error) {
				logger.Error("state snapshot write failed", "err", err)
			})
			if err != nil {
				logger.Error("state snapshot load failed", "err", err, "path", path)
				panic(err)
			}
			logger.Info("state snapshots enabled", "path", path, "loaded", loaded)
		}
		if config.Bool("SEED_DEMO_DATA", true) {
			if err := store.Seed(ctx, mem, time.Now()); err != nil {
				logger.Error("demo seed failed", "err", err)
			}
		}
		dataStore = mem
	}

	authHandler := handlers.NewAuthHandler(logger, handlers.AuthConfig{
		Username:     config.String("ADMIN_USERNAME", ""),
		PasswordHash: config.String("ADMIN_PASSWORD_HASH", ""),
		JWTSecret:    config.String("JWT_SECRET", ""),
		TokenTTL:     time.Duration(config.Int("AUTH_TOKEN_TTL_HOURS", 12)) * time.Hour,
	})

	bookingSvc := booking.NewService(dataStore)
	bookingHandler := handlers.NewBookingHandler(bookingSvc, events, logger)
	equipmentHandler := handlers.NewEquipmentHandler(dataStore, logger)
	clientHandler := handlers.NewClientHandler(dataStore, logger)
	quoteHandler := handlers.NewQuoteHandler(dataStore, logger)
	paymentHandler := handlers.NewPaymentHandler(dataStore, logger, handlers.PaymentConfig{
		StripeSecretKey:        config.String("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret:    config.String("STRIPE_WEBHOOK_SECRET", ""),
		StripeWebhookTolerance: time.Duration(config.Int("STRIPE_WEBHOOK_TOLERANCE_SECONDS", 300)) * time.Second,
		CheckoutSuccessURL:     config.String("STRIPE_CHECKOUT_SUCCESS_URL", ""),
		CheckoutCancelURL:      config.String("STRIPE_CHECKOUT_CANCEL_URL", ""),
	})

	mux := runtime.NewBaseMuxWithReady(readyChecks...)
	registerRoutes(mux, authHandler, bookingHandler, equipmentHandler, clientHandler, quoteHandler, paymentHandler)

	bodyLimit := int64(config.Int("REQUEST_BODY_LIMIT_BYTES", 1<<20))
	requestTimeout := time.Duration(config.Int("REQUEST_TIMEOUT_SECONDS", 10)) * time.Second
	limitPerMinute := config.Int("RATE_LIMIT_PER_MINUTE", 120)

	var rateLimitMW httpx.Middleware
	if addr := strings.TrimSpace(config.String("REDIS_ADDR", "")); addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: config.String("REDIS_PASSWORD", ""),
			DB:       config.Int("REDIS_DB", 0),
		})
		defer func() { _ = rdb.Close() }()

		rl := httpx.NewRedisRateLimiter(rdb, limitPerMinute, time.Minute, config.String("RATE_LIMIT_PREFIX", "rl"))
		rateLimitMW = rl.Middleware(logger, config.Bool("RATE_LIMIT_FAIL_OPEN", true))
		logger.Info("rate limiting enabled (redis)", "per_minute", limitPerMinute, "redis_addr", addr)
	} else {
		rl := httpx.NewRateLimiter(limitPerMinute, time.Minute)
		rateLimitMW = rl.Middleware()
		logger.Info("rate limiting enabled (in-memory)", "per_minute", limitPerMinute)
	}

	handler := httpx.Chain(mux,
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins:   config.List("CORS_ALLOWED_ORIGINS", ""),
			AllowedMethods:   config.List("CORS_ALLOWED_METHODS", "GET,POST,OPTIONS"),
			AllowedHeaders:   config.List("CORS_ALLOWED_HEADERS", "Authorization,Content-Type,X-Request-Id,Idempotency-Key"),
			AllowCredentials: config.Bool("CORS_ALLOW_CREDENTIALS", false),
			MaxAge:           time.Duration(config.Int("CORS_MAX_AGE_SECONDS", 600)) * time.Second,
		}),
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithBodyLimit(bodyLimit),
		httpx.WithTimeout(requestTimeout),
		rateLimitMW,
		httpx.WithRecover(logger),
	)
	handler = otelhttp.NewHandler(handler, "rental")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}

func registerRoutes(
	mux *http.ServeMux,
	authHandler *handlers.AuthHandler,
	bookingHandler *handlers.BookingHandler,
	equipmentHandler *handlers.EquipmentHandler,
	clientHandler *handlers.ClientHandler,
	quoteHandler *handlers.QuoteHandler,
	paymentHandler *handlers.PaymentHandler,
) {
	protected := func(h http.HandlerFunc) http.Handler {
		return authHandler.RequireAuth(h)
	}

	mux.HandleFunc("/api/v1/auth/login", authHandler.Login)
	// Stripe calls this without a JWT; the signature check is the auth.
	mux.HandleFunc("/api/v1/webhooks/stripe", paymentHandler.StripeWebhook)

	mux.Handle("/api/v1/bookings", protected(bookingHandler.Collection))
	mux.Handle("/api/v1/bookings/get", protected(bookingHandler.Get))
	mux.Handle("/api/v1/bookings/update", protected(bookingHandler.Update))
	mux.Handle("/api/v1/bookings/delete", protected(bookingHandler.Delete))
	mux.Handle("/api/v1/availability", protected(bookingHandler.Availability))

	mux.Handle("/api/v1/equipment", protected(equipmentHandler.Collection))
	mux.Handle("/api/v1/equipment/get", protected(equipmentHandler.Get))
	mux.Handle("/api/v1/equipment/update", protected(equipmentHandler.Update))
	mux.Handle("/api/v1/equipment/delete", protected(equipmentHandler.Delete))
	mux.Handle("/api/v1/equipment/status", protected(equipmentHandler.SetStatus))

	mux.Handle("/api/v1/clients", protected(clientHandler.Collection))
	mux.Handle("/api/v1/clients/get", protected(clientHandler.Get))
	mux.Handle("/api/v1/clients/update", protected(clientHandler.Update))
	mux.Handle("/api/v1/clients/delete", protected(clientHandler.Delete))

	mux.Handle("/api/v1/quotes", protected(quoteHandler.Collection))
	mux.Handle("/api/v1/quotes/get", protected(quoteHandler.Get))
	mux.Handle("/api/v1/quotes/update", protected(quoteHandler.Update))
	mux.Handle("/api/v1/quotes/delete", protected(quoteHandler.Delete))

	mux.Handle("/api/v1/payments", protected(paymentHandler.Collection))
	mux.Handle("/api/v1/payments/get", protected(paymentHandler.Get))
	mux.Handle("/api/v1/payments/update", protected(paymentHandler.Update))
	mux.Handle("/api/v1/payments/delete", protected(paymentHandler.Delete))
	mux.Handle("/api/v1/payments/checkout", protected(paymentHandler.Checkout))
}
