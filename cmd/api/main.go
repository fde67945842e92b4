package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"vidtube/internal/cache"
	"vidtube/internal/config"
	"vidtube/internal/db"
	apihttp "vidtube/internal/http"
	"vidtube/internal/migrations"
	"vidtube/internal/repository"
	"vidtube/internal/service"
	"vidtube/internal/storage"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sqlDB, err := db.NewSQLDB(cfg)
	if err != nil {
		logger.Fatal("db open", zap.Error(err))
	}
	if err := migrations.Run(sqlDB); err != nil {
		logger.Fatal("migrations", zap.Error(err))
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("closing migration connection", zap.Error(err))
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()
	if err := db.Ping(ctx, pool); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}

	userRepo := repository.NewPgUserRepository(pool)
	subRepo := repository.NewPgSubscriptionRepository(pool)
	videoRepo := repository.NewPgVideoRepository(pool)

	var profileCache service.ProfileCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			profileCache = cache.New(redisClient, 30*time.Second)
		}
		cancel()
	}

	store, err := storage.NewS3Store(ctx, cfg)
	if err != nil {
		logger.Fatal("object store init", zap.Error(err))
	}

	tokenServ := service.NewTokenService(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		userRepo,
	)
	userServ := service.NewUserService(logger, userRepo)
	mediaServ := service.NewMediaService(logger, userRepo, store)
	channelServ := service.NewChannelService(logger, userRepo, subRepo, profileCache)
	historyServ := service.NewHistoryService(userRepo, videoRepo)

	cookieCfg := apihttp.CookieConfig{Domain: cfg.CookieDomain, Secure: cfg.CookieSecure}
	userH := apihttp.NewUserHandler(logger, userServ, tokenServ, mediaServ, cookieCfg)
	mediaH := apihttp.NewMediaHandler(logger, mediaServ)
	channelH := apihttp.NewChannelHandler(logger, channelServ, historyServ)
	router := apihttp.NewRouter(logger, tokenServ, userH, mediaH, channelH)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
