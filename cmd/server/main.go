package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jacksonlee411/hrops/internal/config"
	"github.com/jacksonlee411/hrops/internal/dashboard"
	"github.com/jacksonlee411/hrops/internal/server"
	"github.com/jacksonlee411/hrops/pkg/composer"
	"github.com/jacksonlee411/hrops/pkg/insights"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	_ = godotenv.Load()

	logger, err := newLogger(config.GetenvDefault("LOG_LEVEL", "info"))
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("HROPS_CONFIG")
	cfg, err := config.Load(cfgPath, time.Now())
	if err != nil {
		return err
	}

	engine, err := insights.NewEngine(ctx, cfg.Thresholds)
	if err != nil {
		return err
	}
	c := dashboard.NewContainer(dashboard.StateFromConfig(cfg), engine,
		dashboard.WithLogger(logger.Named("dashboard")),
		dashboard.WithClipboard(composer.SystemClipboard{}),
	)

	h, err := server.NewHandlerWithOptions(server.HandlerOptions{Container: c, Logger: logger.Named("http")})
	if err != nil {
		return err
	}

	addr := config.GetenvDefault("HTTP_ADDR", ":8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("addr", addr),
			zap.String("config", cfgPath),
			zap.String("payroll_month", cfg.PayrollMonth),
			zap.String("tracking_date", cfg.TrackingDate),
			zap.Int("employees", cfg.Roster.Len()),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
