package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookwise/api/internal/cache"
	"bookwise/api/internal/config"
	"bookwise/api/internal/log"
	"bookwise/api/internal/notices"
	"bookwise/api/internal/queue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment, "worker")

	client, err := cache.NewRedisClient(context.Background(), cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection failed")
	}
	defer client.Close()

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "worker"
	}

	processor := notices.NewProcessor(logger)
	consumer := queue.NewConsumer(
		client,
		cfg.Circulation.NoticeStream,
		"bookwise-notices",
		hostname,
		time.Minute,
		logger,
		processor,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := consumer.EnsureGroup(ctx); err != nil {
		logger.Fatal().Err(err).Msg("consumer group setup failed")
	}

	go func() {
		if err := consumer.Start(ctx); err != nil && err != context.Canceled {
			logger.Fatal().Err(err).Msg("consumer stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")
	time.Sleep(500 * time.Millisecond)
}
