package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"hellomap/internal/config"
	"hellomap/internal/db"
	apihttp "hellomap/internal/http"
	"hellomap/internal/repository"
	"hellomap/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	repo, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("store connect", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer closeStore()

	limiter := newRateLimiter(ctx, cfg, logger)

	messageSvc := service.NewMessageService(logger, repo)
	messageHandler := apihttp.NewMessageHandler(logger, messageSvc, limiter)
	router, err := apihttp.NewRouter(logger, apihttp.RouterOptions{
		CORSOrigin:     cfg.CORSOrigin,
		RequestTimeout: cfg.RequestTimeout,
		TrustedProxies: cfg.TrustedProxies,
	}, messageHandler)
	if err != nil {
		logger.Fatal("router setup", zap.Error(err))
	}

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.HTTPPort), zap.String("store", cfg.StoreDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.MessageRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := db.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repository.NewPgMessageRepository(pool), pool.Close, nil
	case config.StoreMemory:
		logger.Warn("using in-memory message store; messages are lost on restart")
		return repository.NewMemoryMessageRepository(), func() {}, nil
	default:
		client, err := db.NewMongoClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewMongoMessageRepository(db.MessagesCollection(client, cfg))
		if err := repo.EnsureIndexes(ctx); err != nil {
			logger.Warn("mongo index creation failed", zap.Error(err))
		}
		closeFn := func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(dctx)
		}
		return repo, closeFn, nil
	}
}

func newRateLimiter(ctx context.Context, cfg *config.Config, logger *zap.Logger) service.RateLimiter {
	if cfg.RateLimitPerMinute <= 0 {
		return nil
	}
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory rate limiter", zap.Error(err))
			_ = redisClient.Close()
		} else {
			return service.NewRedisRateLimiter(redisClient, time.Minute, cfg.RateLimitPerMinute)
		}
	}
	return service.NewMemoryRateLimiter(cfg.RateLimitPerMinute)
}
