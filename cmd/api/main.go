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
	"github.com/rs/zerolog/log"

	"zymo/internal/auth"
	"zymo/internal/cache"
	"zymo/internal/career"
	"zymo/internal/config"
	"zymo/internal/handler"
	"zymo/internal/logging"
	"zymo/internal/meta"
	"zymo/internal/queue"
	"zymo/internal/storage"
	"zymo/internal/store"
)

func main() {
	cfg := config.Load()
	logging.Configure(cfg.LogLevel, cfg.LogPretty)

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

func runHTTP(cfg config.App) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := store.NewDB(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if db == nil {
		return err
	}
	if err != nil {
		log.Warn().Err(err).Str(logging.BACKEND, cfg.DBDriver).Msg("db not reachable")
	}
	defer db.Close()

	repo := career.NewSQLRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		log.Warn().Err(err).Msg("schema migration failed")
	}

	redisClient := store.NewRedis(store.RedisOptions{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DB:          cfg.RedisDB,
		DialTimeout: cfg.RedisDialTimeout,
		IOTimeout:   cfg.RedisIOTimeout,
	})
	defer redisClient.Close()
	if !redisClient.Healthy(ctx) {
		log.Warn().Str("addr", redisClient.Addr()).Msg("redis not reachable")
	}

	objects, files, err := openStorage(cfg)
	if err != nil {
		return err
	}

	q, closeQueue, err := queue.Open(queue.Options{
		Backend: cfg.QueueBackend,
		Key:     cfg.QueueKey,
		Redis:   redisClient.Client,
		NATSURL: cfg.NATSURL,
	})
	if err != nil {
		return err
	}
	defer closeQueue()

	// without an external broker the API acknowledges applications itself
	processed := make(chan struct{})
	if cfg.QueueBackend == queue.BackendMemory {
		msgs, err := q.Consume(ctx)
		if err != nil {
			return err
		}
		go func() {
			defer close(processed)
			career.NewProcessor(repo).Run(ctx, msgs)
		}()
	} else {
		close(processed)
	}

	pages, err := meta.Load()
	if err != nil {
		return err
	}

	tracker := career.NewTracker(career.SystemClock(), cfg.CareerResetDelay)
	defer tracker.Close()

	svc := career.NewService(repo, objects, q, career.SystemClock())
	h := handler.New(cache.New(redisClient.Client, cfg.LocalTTL, cfg.SessionTTL), svc, tracker, pages, handler.Options{
		SubmitTimeout:  cfg.SubmitTimeout,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Files:          files,
	})

	r, err := handler.NewRouter(handler.RouterConfig{
		Session: auth.SessionConfig{
			Cookie:     cfg.SessionCookie,
			Issuer:     cfg.SessionIssuer,
			SigningKey: cfg.SessionSigningKey,
			TTL:        cfg.LocalTTL,
			Secure:     cfg.Production(),
		},
		AllowedOrigins:  cfg.AllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		HSTS:            cfg.Production(),
		Health: map[string]handler.HealthCheck{
			"redis": redisClient.Healthy,
			"db":    db.Healthy,
		},
	}, h)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.SubmitTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("server forced shutdown")
	}

	// stop consumers before the deferred queue, redis and db closes run
	cancel()
	select {
	case <-processed:
	case <-shutdownCtx.Done():
		log.Warn().Msg("processor did not stop in time")
	}

	log.Info().Msg("server exited")
	return nil
}

// openStorage selects the résumé backend. The local backend is also
// returned as the file server for /files.
func openStorage(cfg config.App) (storage.ObjectStore, handler.FileOpener, error) {
	switch cfg.StorageBackend {
	case "cloudinary":
		if !cfg.CloudinaryConfigured() {
			return nil, nil, errors.New("cloudinary storage selected but CLOUDINARY_CLOUD_NAME / API_KEY / API_SECRET not set")
		}
		log.Info().Str(logging.BACKEND, "cloudinary").Str("cloud", cfg.CloudinaryCloudName).Msg("storage configured")
		return storage.NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder), nil, nil
	default:
		local, err := storage.NewLocal(cfg.StorageDir, cfg.StorageBaseURL)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str(logging.BACKEND, "local").Str("dir", cfg.StorageDir).Msg("storage configured")
		return local, local, nil
	}
}
