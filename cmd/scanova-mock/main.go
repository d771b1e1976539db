package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/scanova-console/internal/mockserver"
	"github.com/noah-isme/scanova-console/internal/service"
	"github.com/noah-isme/scanova-console/pkg/config"
	"github.com/noah-isme/scanova-console/pkg/logger"
)

func main() {
	var (
		port   int
		noSeed bool
	)
	flag.IntVar(&port, "port", 0, "Listen port (default MOCK_PORT)")
	flag.BoolVar(&noSeed, "empty", false, "Start without demo data")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if port == 0 {
		port = cfg.Mock.Port
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := service.NewNamespacedMetricsService("scanova_mock")
	srv := mockserver.New(mockserver.Options{
		Logger:         logr,
		JWTSecret:      cfg.Mock.JWTSecret,
		TokenTTL:       cfg.Mock.TokenTTL,
		AllowedOrigins: cfg.Mock.AllowedOrigins,
		Metrics:        metrics,
		MetricsHandler: metrics.Handler(),
	})
	if !noSeed {
		seeded, err := mockserver.Seed(srv.Store())
		if err != nil {
			logr.Fatal("seeding failed", zap.Error(err))
		}
		logr.Sugar().Infow("demo data ready",
			"organization", seeded.Organization.Name,
			"owner_phone", mockserver.DemoOwnerPhone,
			"operator_phone", mockserver.DemoOperatorPhone,
			"guest_phone", mockserver.DemoGuestPhone,
			"password", mockserver.DemoPassword,
		)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("mock server starting", "addr", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Warn("shutdown failed", zap.Error(err))
	}
}
