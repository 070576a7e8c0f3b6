// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/wms-stockout/internal/api"
	"github.com/andresuchdata/wms-stockout/internal/config"
	"github.com/andresuchdata/wms-stockout/internal/service"
	"github.com/andresuchdata/wms-stockout/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetFormat(cfg.Log.Format)
	logger.SetLevel(cfg.Log.Level)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := config.EnsureDir(cfg.App.ModelsDir); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to prepare models directory")
	}

	svc, cleanup, err := service.Bootstrap(context.Background(), cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize stockout service")
	}
	defer cleanup()

	// Train or load the model before serving predictions
	res, err := svc.Train(context.Background(), 0, cfg.App.RetrainOnStart)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Model not ready, prediction routes will fail until POST /api/v1/model/train")
	} else {
		logger.Log.Info().
			Bool("trained", res.Trained).
			Float64("accuracy", res.Metrics.Accuracy).
			Float64("roc_auc", res.Metrics.ROCAUC).
			Msg("Model ready")
	}

	// Initialize HTTP server
	router := api.NewRouter(&api.Services{StockoutService: svc}, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
