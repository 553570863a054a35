package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-pilot/adapters/event"
	"github.com/khoahotran/portfolio-pilot/internal/application/service"
	"github.com/khoahotran/portfolio-pilot/internal/config"
	"github.com/khoahotran/portfolio-pilot/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Starting Portfolio Pilot activity worker...")

	if len(cfg.Kafka.Brokers) == 0 {
		appLogger.Fatal("Kafka brokers not configured", nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := event.NewActivityConsumer(event.NewActivityReader(cfg.Kafka.Brokers), appLogger)
	defer func() {
		if err := consumer.Close(); err != nil {
			appLogger.Warn("Failed to close Kafka reader", zap.Error(err))
		}
	}()

	appLogger.Info("Worker listening",
		zap.Strings("topics", []string{service.TopicPortfolioEvents, service.TopicSessionEvents}))
	if err := consumer.Run(ctx); err != nil {
		appLogger.Error("Worker stopped", err)
	}
}
