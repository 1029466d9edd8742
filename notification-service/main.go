package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/arunvm123/thamco-events/internal/logger"
	"github.com/arunvm123/thamco-events/notification-service/config"
	"github.com/arunvm123/thamco-events/notification-service/model"
	"github.com/arunvm123/thamco-events/notification-service/worker"
)

func main() {
	// Try to load from config.yaml first, fallback to environment variables
	cfg, err := config.Initialise("config.yaml", false)
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Set(logger.NewLogger(cfg.Environment))
	defer logger.Sync()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reader := worker.NewKafkaReader(&cfg.Kafka)
	defer reader.Close()
	processor := worker.NewProcessor(worker.LogMailer{}, cfg.Email)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           setupRouter(processor),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Notification processor worker started", zap.String("topic", cfg.Kafka.NotificationTopic))
		if err := processor.Run(gctx, reader); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("Starting Notification Service API", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Notification service stopped with error", zap.Error(err))
	}
	logger.Info("Notification service stopped")
}

func setupRouter(processor *worker.Processor) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// Health check endpoint only
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, model.HealthResponse{
			Status:            "healthy",
			Service:           "notification-service",
			Timestamp:         time.Now(),
			MessagesProcessed: processor.Processed(),
		})
	})
	return r
}
