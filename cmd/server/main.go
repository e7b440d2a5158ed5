package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/vedran77/devfolio/internal/config"
	"github.com/vedran77/devfolio/internal/database"
	"github.com/vedran77/devfolio/internal/logging"
	"github.com/vedran77/devfolio/internal/repository"
	"github.com/vedran77/devfolio/internal/repository/chain"
	"github.com/vedran77/devfolio/internal/repository/memory"
	postgresrepo "github.com/vedran77/devfolio/internal/repository/postgres"
	"github.com/vedran77/devfolio/internal/service"
	"github.com/vedran77/devfolio/internal/sui"
	"github.com/vedran77/devfolio/internal/telemetry"
	"github.com/vedran77/devfolio/internal/transport/http/handlers"
	"github.com/vedran77/devfolio/internal/transport/http/middleware"
	"github.com/vedran77/devfolio/internal/transport/ws"
	"github.com/vedran77/devfolio/internal/walrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "devfolio", cfg.OTELEndpoint)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer shutdownTracing(context.Background()) //nolint:errcheck

	// Chain
	suiClient := sui.New(sui.Options{
		URL:       cfg.Chain.RPCURL,
		Timeout:   cfg.RPCTimeout,
		BatchSize: cfg.RPCBatchSize,
		Retry: sui.RetryPolicy{
			MaxAttempts:     cfg.RPCMaxAttempts,
			InitialInterval: cfg.RPCInitialBackoff,
			MaxInterval:     cfg.RPCMaxBackoff,
		},
	}, logger.Named("sui"))
	walrusClient := walrus.New(cfg.Chain.PublisherURL, cfg.Chain.AggregatorURL)

	// Repositories
	directoryRepo := chain.NewDirectoryRepo(suiClient, cfg.Chain.DashboardID, logger.Named("directory"))
	challengeRepo := memory.NewChallengeRepo()

	var submissionRepo repository.SubmissionRepository
	switch cfg.JournalBackend {
	case "postgres":
		pool, err := database.Connect(ctx, cfg.DSN())
		if err != nil {
			return err
		}
		defer pool.Close()
		logger.Info("connected to database")
		submissionRepo = postgresrepo.NewSubmissionRepo(pool)
	default:
		submissionRepo = memory.NewSubmissionRepo()
	}

	// WebSocket Hub
	hub := ws.NewHub(logger.Named("ws"))
	go hub.Run(ctx)

	// Services
	directoryService := service.NewDirectoryService(directoryRepo, cfg.Chain.AggregatorURL, logger.Named("directory"))
	txService := service.NewTxService(suiClient, submissionRepo, service.TxConfig{
		PackageID:   cfg.Chain.PackageID,
		DashboardID: cfg.Chain.DashboardID,
		ExplorerURL: cfg.Chain.ExplorerURL,
		GasBudget:   cfg.GasBudget,
	}, logger.Named("tx"))
	txService.SetNotifier(ws.NewHubNotifier(hub))
	authService := service.NewAuthService(challengeRepo, cfg.JWTSecret, cfg.SessionTTL, cfg.ChallengeTTL)
	mediaService := service.NewMediaService(walrusClient, cfg.WalrusEpochs, cfg.MaxUploadBytes)

	// Handlers
	directoryHandler := handlers.NewDirectoryHandler(directoryService, logger)
	txHandler := handlers.NewTxHandler(txService, logger)
	authHandler := handlers.NewAuthHandler(authService, logger)
	blobHandler := handlers.NewBlobHandler(mediaService, logger)

	// Wallet session middleware
	auth := middleware.Auth(cfg.JWTSecret)

	// Routes
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.HandleFunc("GET /api/v1/dashboard", directoryHandler.Dashboard)
	mux.HandleFunc("GET /api/v1/profiles", directoryHandler.Profiles)
	mux.HandleFunc("GET /api/v1/profiles/owner/{address}", directoryHandler.ProfileByOwner)
	mux.HandleFunc("GET /api/v1/profiles/username/{username}", directoryHandler.ProfileByUsername)
	mux.HandleFunc("GET /api/v1/developers/{handle}", directoryHandler.Developer)
	mux.HandleFunc("GET /api/v1/projects", directoryHandler.Projects)
	mux.HandleFunc("GET /api/v1/projects/{id}/voters/{address}", directoryHandler.HasVoted)
	mux.HandleFunc("GET /api/v1/certificates", directoryHandler.Certificates)
	mux.HandleFunc("POST /api/v1/auth/challenge", authHandler.Challenge)
	mux.HandleFunc("POST /api/v1/auth/verify", authHandler.Verify)

	// Protected - Transactions
	mux.Handle("POST /api/v1/tx/profile", auth(http.HandlerFunc(txHandler.VerifyProfile)))
	mux.Handle("POST /api/v1/tx/profile/remove", auth(http.HandlerFunc(txHandler.RemoveProfile)))
	mux.Handle("POST /api/v1/tx/projects", auth(http.HandlerFunc(txHandler.CreateProject)))
	mux.Handle("POST /api/v1/tx/certificates", auth(http.HandlerFunc(txHandler.CreateCertificate)))
	mux.Handle("POST /api/v1/tx/projects/{id}/vote", auth(http.HandlerFunc(txHandler.Vote)))
	mux.Handle("POST /api/v1/tx/{id}/execute", auth(http.HandlerFunc(txHandler.Execute)))
	mux.Handle("GET /api/v1/tx", auth(http.HandlerFunc(txHandler.List)))

	// Protected - Blobs
	mux.Handle("POST /api/v1/blobs", auth(http.HandlerFunc(blobHandler.Upload)))

	// WebSocket
	mux.HandleFunc("GET /ws", ws.ServeWS(ctx, hub, cfg.JWTSecret, []string{cfg.CORSOrigin}))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           middleware.CORS(cfg.CORSOrigin)(middleware.Logging(logger.Named("http"))(mux)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("addr", srv.Addr),
			zap.String("network", cfg.Network),
			zap.String("dashboard", cfg.Chain.DashboardID),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
