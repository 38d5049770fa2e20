package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"zymo/internal/career"
	"zymo/internal/config"
	"zymo/internal/logging"
	"zymo/internal/queue"
	"zymo/internal/store"
)

// Worker consumes submitted applications and acknowledges them.
func main() {
	cfg := config.Load()
	logging.Configure(cfg.LogLevel, cfg.LogPretty)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("shutdown signal received")
		cancel()
	}()

	if cfg.QueueBackend == queue.BackendMemory {
		log.Fatal().Msg("memory queue is in-process only; the API consumes it itself")
	}

	db, err := store.NewDB(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Str(logging.BACKEND, cfg.DBDriver).Msg("db connect failed")
	}
	defer db.Close()

	repo := career.NewSQLRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("schema migration failed")
	}

	redisClient := store.NewRedis(store.RedisOptions{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DB:          cfg.RedisDB,
		DialTimeout: cfg.RedisDialTimeout,
		IOTimeout:   cfg.RedisIOTimeout,
	})
	defer redisClient.Close()

	q, closeQueue, err := queue.Open(queue.Options{
		Backend: cfg.QueueBackend,
		Key:     cfg.QueueKey,
		Redis:   redisClient.Client,
		NATSURL: cfg.NATSURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("queue init failed")
	}
	defer closeQueue()

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("queue consume init failed")
	}

	log.Info().Str(logging.BACKEND, cfg.QueueBackend).Msg("worker started, waiting for messages")
	career.NewProcessor(repo).Run(ctx, messages)
	log.Info().Msg("worker stopped")
}
