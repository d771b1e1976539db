package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/noah-isme/scanova-console/internal/app"
	"github.com/noah-isme/scanova-console/internal/service"
	"github.com/noah-isme/scanova-console/internal/tokenstore"
	"github.com/noah-isme/scanova-console/pkg/cache"
	"github.com/noah-isme/scanova-console/pkg/config"
	"github.com/noah-isme/scanova-console/pkg/logger"
)

const appName = "scanova"

func main() {
	var (
		ephemeral bool
		apiBase   string
		noBanner  bool
	)
	flag.BoolVar(&ephemeral, "ephemeral", false, "Keep tokens in memory only")
	flag.StringVar(&apiBase, "api", "", "Override API_BASE_URL")
	flag.BoolVar(&noBanner, "no-banner", false, "Skip the start-up banner")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if apiBase != "" {
		cfg.API.BaseURL = apiBase
	}
	if ephemeral {
		cfg.Tokens.Store = config.TokenStoreMemory
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr, !noBanner); err != nil {
		logr.Error("console stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger, banner bool) error {
	tokens, closeTokens, err := openTokenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeTokens()

	var readPassword func() ([]byte, error)
	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		readPassword = func() ([]byte, error) { return term.ReadPassword(fd) }
	}

	metrics := service.NewMetricsService()
	a, err := app.New(app.Options{
		Config:       cfg,
		Logger:       logr,
		Tokens:       tokens,
		In:           os.Stdin,
		Out:          os.Stdout,
		ReadPassword: readPassword,
		Metrics:      metrics,
	})
	if err != nil {
		return err
	}
	defer a.Close()

	if cfg.Metrics.Addr != "" {
		srv := serveMetrics(cfg.Metrics.Addr, metrics, logr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if banner {
		fmt.Println(figure.NewFigure(appName, "cybermedium", true).String())
	}
	logr.Info("console starting", zap.String("api", cfg.API.BaseURL), zap.String("token_store", cfg.Tokens.Store))

	switch a.Start(ctx) {
	case service.SessionAuthenticated:
		fmt.Printf("Welcome back, %s (%s).\n", a.Session.Identity().DisplayName(), a.Organization.DisplayName())
	default:
		fmt.Println("Not signed in. Use \"login <phone>\" or \"register\"; \"help\" lists commands.")
	}
	return a.Run(ctx)
}

func openTokenStore(ctx context.Context, cfg *config.Config) (tokenstore.Store, func(), error) {
	noop := func() {}
	switch cfg.Tokens.Store {
	case config.TokenStoreMemory:
		return tokenstore.NewMemoryStore(), noop, nil
	case config.TokenStoreRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, noop, err
		}
		return tokenstore.NewRedisStore(client, cfg.Tokens.KeyPrefix), func() { _ = client.Close() }, nil
	case config.TokenStoreFile, "":
		store, err := tokenstore.NewFileStore(cfg.Tokens.FileDir)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown TOKEN_STORE %q", cfg.Tokens.Store)
	}
}

func serveMetrics(addr string, metrics *service.MetricsService, logr *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Warn("metrics server failed", zap.Error(err))
		}
	}()
	return srv
}
