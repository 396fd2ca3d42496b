package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adiwidodo/gerai/internal/config"
	delivery "github.com/adiwidodo/gerai/internal/delivery/http"
	"github.com/adiwidodo/gerai/internal/metrics"
	"github.com/adiwidodo/gerai/internal/notifier"
	"github.com/adiwidodo/gerai/internal/repository"
	"github.com/adiwidodo/gerai/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	m := metrics.NewServerMetrics(prometheus.DefaultRegisterer)

	carts := repository.NewCart(pool)
	catalog := repository.NewCatalog(pool)
	orders := repository.NewOrder(pool)
	outbox := repository.NewOutbox(pool)

	checkoutSvc := service.NewCheckout(pool, cfg.Recipients, logger, service.WithCheckoutMetrics(m))
	cartSvc := service.NewCart(carts, catalog)
	orderSvc := service.NewOrder(orders, logger)

	if cfg.WebhookURL != "" {
		dispatcher := notifier.NewDispatcher(
			outbox,
			notifier.NewWebhookClient(cfg.WebhookURL),
			cfg.PollEvery,
			logger,
			notifier.WithMetrics(m),
			notifier.WithBackoff(cfg.RetryBase, cfg.RetryMax),
		)
		go dispatcher.Run(ctx)
	} else {
		logger.Warn("no webhook url configured, order notifications disabled")
	}

	mux := http.NewServeMux()
	delivery.NewHandler(checkoutSvc, cartSvc, orderSvc).RegisterRoutes(mux)
	mux.Handle("GET /metrics", metrics.Handler())

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: delivery.Instrument(m, mux),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", cfg.HTTPAddr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	logger.Info("server stopped")
	return nil
}
