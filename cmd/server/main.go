package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/user/lifequest/config"
	"github.com/user/lifequest/internal/game"
	"github.com/user/lifequest/internal/logging"
	"github.com/user/lifequest/internal/web"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "./config/config.json", "Path to configuration file")
	flag.Parse()

	// Bootstrap logger until the configured one is built
	logger := setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger, err = logging.New(cfg.Server.LogLevel, cfg.Logging)
	if err != nil {
		logger = setupLogger()
		logger.Fatal("Failed to build logger", zap.Error(err))
	}
	defer logger.Sync()

	// Initialize game manager
	gameManager, err := game.OpenGameManager(cfg)
	if err != nil {
		logger.Fatal("Failed to open game state", zap.Error(err))
	}
	gameManager.SetLogger(logger)
	defer gameManager.Close()

	logger.Info("Game state opened",
		zap.String("driver", cfg.Storage.Driver),
		zap.String("path", cfg.Storage.Path),
		zap.Strings("roster", cfg.Game.Roster))

	// Initialize session manager
	sessionManager := web.NewSessionManager(cfg.Server.SessionDir, cfg.Server.PublicURL, logger)

	sessions, err := sessionManager.ListSessions()
	if err != nil {
		logger.Error("Failed to list existing sessions", zap.Error(err))
	} else {
		logger.Info("Found existing sessions", zap.Int("count", len(sessions)))
	}

	// Set up HTTP server
	handler := web.NewHandler(gameManager, sessionManager, logger)
	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start HTTP server
	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	waitForShutdown(server, logger)
}

func setupLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}

func waitForShutdown(server *http.Server, logger *zap.Logger) {
	// Set up channel for shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	sig := <-sigChan
	logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Failed to shut down HTTP server", zap.Error(err))
	}

	logger.Info("Shutting down")
}
