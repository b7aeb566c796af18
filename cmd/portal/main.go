package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/SAR-DEVELOPER/IT/internal/application"
	"github.com/SAR-DEVELOPER/IT/internal/auth"
	"github.com/SAR-DEVELOPER/IT/internal/backend"
	"github.com/SAR-DEVELOPER/IT/internal/config"
	httptransport "github.com/SAR-DEVELOPER/IT/internal/http"
	"github.com/SAR-DEVELOPER/IT/internal/logging"
	"github.com/SAR-DEVELOPER/IT/internal/persistence/sqlite"
	"github.com/SAR-DEVELOPER/IT/internal/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := logging.New(os.Stdout, cfg.LogLevel)
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("failed to build logger", "error", err)
		os.Exit(1)
	}

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName: cfg.ModuleName,
		Version:     cfg.ModuleVersion,
		Environment: cfg.Environment,
		Endpoint:    cfg.OTLPEndpoint,
	})
	if err != nil {
		logger.Error("failed to set up tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Error("failed to flush traces", "error", err)
		}
	}()

	server, closeServer, err := newServer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build server", "error", err)
		os.Exit(1)
	}
	defer closeServer()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("portal listening", "addr", server.Addr, "api_url", cfg.APIURL, "environment", cfg.Environment)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// newServer opens and migrates the journal and wires every handler. The
// returned func closes the journal.
func newServer(ctx context.Context, cfg config.Config, logger *slog.Logger) (*http.Server, func(), error) {
	storage, err := sqlite.Open(ctx, cfg.SQLiteDSN, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	closeStorage := func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}
	if err := storage.Migrate(ctx); err != nil {
		closeStorage()
		return nil, nil, fmt.Errorf("apply migrations: %w", err)
	}

	client, err := backend.New(cfg.APIURL, cfg.APITimeout, backend.WithLogger(logger))
	if err != nil {
		closeStorage()
		return nil, nil, err
	}

	gate, err := auth.NewGate(auth.GateConfig{
		Protected:            cfg.ProtectedPaths,
		Public:               cfg.PublicPaths,
		PublicDetailPatterns: cfg.PublicDetailPatterns,
		LoginURL:             cfg.LoginURL(),
		AppURL:               cfg.AppURL,
	})
	if err != nil {
		closeStorage()
		return nil, nil, err
	}

	decoder := auth.NewClaimsDecoder(cfg.JWTSecret, time.Now)
	if !decoder.Verifies() {
		logger.Warn("session tokens are decoded without signature verification; set PORTAL_JWT_HMAC_SECRET to verify them")
	}

	keycloak := auth.Keycloak{
		BaseURL:     cfg.KeycloakBaseURL,
		Realm:       cfg.KeycloakRealm,
		ClientID:    cfg.KeycloakClientID,
		RedirectURI: cfg.KeycloakRedirect(),
	}

	meetings := application.NewMeetingServiceWithLogger(client, storage, uuid.NewString, time.Now, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Module: httptransport.NewModuleHandler(httptransport.ModuleInfo{
			Name:        cfg.ModuleName,
			DisplayName: cfg.ModuleDisplayName,
			Version:     cfg.ModuleVersion,
		}, storage, logger),
		Auth:     httptransport.NewAuthHandler(gate, keycloak, cfg.LogoutURL(), logger),
		Meetings: httptransport.NewMeetingHandler(meetings, logger),
		Proxy:    httptransport.NewProxyHandler(client, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.RateLimit("/api/", cfg.RateLimitRPS, cfg.RateLimitBurst, logger),
			httptransport.AuthGate(gate, cfg.SessionCookie),
			httptransport.Session(cfg.SessionCookie, decoder, logger),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.APITimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return server, closeStorage, nil
}
