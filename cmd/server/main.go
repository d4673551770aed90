package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	gomongo "go.mongodb.org/mongo-driver/mongo"

	"github.com/icct-edu/campus-events/internal/api"
	"github.com/icct-edu/campus-events/internal/api/metrics"
	"github.com/icct-edu/campus-events/internal/core/service"
	"github.com/icct-edu/campus-events/internal/infrastructure/config"
	"github.com/icct-edu/campus-events/internal/infrastructure/db/mongo"
	"github.com/icct-edu/campus-events/internal/infrastructure/db/redis"
	"github.com/icct-edu/campus-events/internal/infrastructure/qrcode"
	"github.com/icct-edu/campus-events/internal/keyval"
	"github.com/icct-edu/campus-events/internal/refresh"
	"github.com/icct-edu/campus-events/internal/session"
	"github.com/icct-edu/campus-events/internal/store"
	"github.com/icct-edu/campus-events/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "campus-events",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Record store: Mongo when configured and reachable, else local files ---
	var (
		mongoDB     *gomongo.Database
		mongoClient *gomongo.Client
		driver      store.Driver
	)
	if cfg.Mongo.URI != "" {
		client, db, err := mongo.Connect(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			log.Warn().Err(err).Msg("mongo unavailable, falling back to local store")
		} else {
			mongoClient, mongoDB = client, db
			if err := store.EnsureIndexes(ctx, db); err != nil {
				log.Warn().Err(err).Msg("index creation failed")
			}
			driver = store.NewMongoDriver(db)
		}
	}
	if driver == nil {
		local, err := store.NewLocalDriver(cfg.DataDir)
		if err != nil {
			log.Fatal().Err(err).Msg("local store unavailable")
		}
		driver = local
	}
	metrics.StoreBackendActive.WithLabelValues(driver.Name()).Set(1)
	log.Info().Str("backend", driver.Name()).Msg("record store selected")

	recordStore, err := store.New(ctx, driver, log)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}

	// --- Key-value layer and change notifier: Redis when reachable ---
	var (
		redisClient *goredis.Client
		kv          keyval.KV
		notifier    refresh.Notifier
	)
	if cfg.Redis.Addr != "" {
		client, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, falling back to file store")
		} else {
			redisClient = client
			kv = keyval.NewRedisKV(client)
			n, err := redis.NewNotifier(ctx, client, log)
			if err != nil {
				log.Warn().Err(err).Msg("redis notifier unavailable")
			} else {
				notifier = n
			}
		}
	}
	if kv == nil {
		fileKV, err := keyval.NewFileKV(cfg.DataDir)
		if err != nil {
			log.Fatal().Err(err).Msg("file key-value store unavailable")
		}
		kv = fileKV
	}
	if notifier == nil {
		notifier = refresh.NewLocalNotifier()
	}

	// --- Services ---
	sess, err := session.New(ctx, kv, log)
	if err != nil {
		log.Fatal().Err(err).Msg("session init failed")
	}

	coordinator := refresh.New(cfg.RefreshInterval, notifier, kv, log)

	authService := service.NewAuthService(recordStore, sess, cfg.JWTSecret, 24*time.Hour, cfg.AdminUsername, cfg.AdminPassword, log)
	catalogService := service.NewCatalogService(recordStore, cfg.PageSize, log)
	cartService := service.NewCartService(recordStore, sess, kv, coordinator, log)
	adminService := service.NewAdminService(recordStore, sess, coordinator, log)
	qrService := service.NewQRService(qrcode.NewEncoder(), kv, cfg.QRSize, log)

	coordinator.Register("catalog", catalogService.Refresh)
	coordinator.Start(ctx)

	// --- HTTP server ---
	e := api.NewRouter(api.Deps{
		Auth:      authService,
		Catalog:   catalogService,
		Cart:      cartService,
		Admin:     adminService,
		QR:        qrService,
		Mongo:     mongoDB,
		Redis:     redisClient,
		JWTSecret: cfg.JWTSecret,
		Log:       log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("portal listening")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	_ = notifier.Close()
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if mongoClient != nil {
		_ = mongoClient.Disconnect(shutdownCtx)
	}
}
