package main

import (
	"database/sql"
	"log"
	"net/http"

	"vastra-be/internal/config"
	"vastra-be/internal/db"
	"vastra-be/internal/logger"
	"vastra-be/internal/middleware"
	"vastra-be/internal/order"
	"vastra-be/internal/payment"
	"vastra-be/internal/payment/webhook"
	"vastra-be/internal/razorpay"

	"go.uber.org/zap"
)

// Indirections for testing.
var (
	initDBFunc      = db.InitDB
	startServerFunc = http.ListenAndServe
)

func setupRouter(h *webhook.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Initiation is customer-scoped; the confirmation callback carries its
	// own proof (the gateway signature) instead of a session token.
	mux.Handle("/payment/razorpay/order", middleware.RequireAuth(http.HandlerFunc(h.GenerateOrderHandler)))
	mux.HandleFunc("/payment/razorpay/confirm", h.ConfirmHandler)

	var handler http.Handler = mux
	handler = middleware.RateLimitMiddleware(handler)
	handler = logger.LoggingMiddleware(handler)
	handler = logger.RequestIDMiddleware(handler)
	return handler
}

func newServer(cfg *config.Config, database *sql.DB) http.Handler {
	orderRepo := order.NewRepository(database)
	paymentRepo := payment.NewRepository(database)

	svc := payment.NewService(
		orderRepo,
		paymentRepo,
		razorpay.New,
		cfg.PaymentMethodCode,
		cfg.Currency,
	)

	return setupRouter(webhook.NewHandler(svc))
}

func run() error {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	router := newServer(cfg, database)

	logger.L().Info("payment server listening",
		zap.String("port", cfg.AppPort),
		zap.String("currency", cfg.Currency),
		zap.String("payment_method", cfg.PaymentMethodCode),
	)
	return startServerFunc(":"+cfg.AppPort, router)
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
