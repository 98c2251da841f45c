package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/airport/config"
	"github.com/Domenick1991/airport/internal/email"
	"github.com/Domenick1991/airport/internal/kafka"
	"github.com/Domenick1991/airport/internal/logging"
	"github.com/Domenick1991/airport/internal/repository"
	"github.com/Domenick1991/airport/internal/worker"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.Log.Env, cfg.Log.Level)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatalw("worker stopped", "error", err)
	}
}

func run(cfg *config.Config, logger *zap.SugaredLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers, logger)
	defer producer.Close()
	if err := producer.CheckConnection(ctx); err != nil {
		logger.Warnw("kafka not reachable yet, relay will retry", "error", err)
	}

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.OrdersTopic, logger)
	defer consumer.Close()

	poller := worker.NewOutboxPoller(
		repository.NewOutboxRepository(pool),
		producer,
		cfg.Kafka.OrdersTopic,
		cfg.Worker.OutboxPollInterval(),
		cfg.Worker.OutboxBatchSize,
		cfg.Worker.OutboxStaleAfter(),
		logger,
	)
	notifier := worker.NewNotifier(email.NewSender(logger), logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return poller.Run(gctx)
	})
	g.Go(func() error {
		if err := consumer.Consume(gctx, notifier.Handle); err != nil {
			return fmt.Errorf("consume orders: %w", err)
		}
		return nil
	})

	logger.Infow("worker started", "topic", cfg.Kafka.OrdersTopic, "group", cfg.Kafka.GroupID)
	return g.Wait()
}
