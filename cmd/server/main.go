package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segyhp/auction-billing/internal/app"
	"github.com/segyhp/auction-billing/internal/config"
	"github.com/segyhp/auction-billing/internal/handler"
	"github.com/segyhp/auction-billing/internal/logger"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()
	zap.ReplaceGlobals(zapLogger)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	application, err := app.New(startCtx, cfg, zapLogger)
	cancelStart()
	if err != nil {
		zapLogger.Fatal("failed to start", zap.String("op", "main"), zap.Error(err))
	}
	defer application.Close()

	router := handler.NewRouter(
		handler.NewObligationHandler(application.Service, zapLogger),
		handler.NewHealthHandler(cfg.GetHealthTimeout(), map[string]handler.Check{
			"database": handler.DatabaseCheck(application.DB),
			"redis":    handler.RedisCheck(application.Redis),
		}),
		zapLogger,
	)
	if application.Files != nil {
		router.PathPrefix("/files/").Handler(http.StripPrefix("/files/", http.FileServer(http.Dir(application.Files.BaseDir))))
	}

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
	}

	// Start server in a goroutine
	go func() {
		zapLogger.Info("server starting", zap.String("addr", server.Addr), zap.String("env", cfg.Server.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		zapLogger.Error("server forced to shutdown", zap.Error(err))
		return
	}

	zapLogger.Info("server exited")
}
