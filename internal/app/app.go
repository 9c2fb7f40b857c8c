package app

import (
	"context"
	"fmt"
	"time"

	"tasklist/internal/cache"
	"tasklist/internal/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type App struct {
	cfg    config.Config
	log    *zap.Logger
	store  *storage
	redis  *redis.Client
	router *gin.Engine
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{cfg: cfg, log: log}

	store, err := openStorage(cfg.Storage)
	if err != nil {
		return nil, err
	}
	a.store = store
	log.Info("storage ready", zap.String("driver", cfg.Storage.Driver))

	var taskCache *cache.TaskCache
	if cfg.Redis.Enabled() {
		rdb, err := newRedis(cfg.Redis)
		if err != nil {
			store.close()
			return nil, err
		}
		a.redis = rdb
		taskCache = cache.NewTaskCache(rdb, cfg.Redis.DefaultTTL.Duration())
		log.Info("task cache enabled", zap.String("redis_addr", cfg.Redis.Addr))
	}

	a.router = newRouter(cfg, log, store, taskCache)
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Close(ctx context.Context) error {
	_ = ctx
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.store != nil {
		a.store.close()
	}
	return nil
}

func newRedis(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

func newRouter(cfg config.Config, log *zap.Logger, store *storage, taskCache *cache.TaskCache) *gin.Engine {
	if cfg.App.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log), requestMetrics())

	// any origin and any requested header are echoed back, since a literal "*"
	// does not count as a wildcard on credentialed requests
	r.Use(echoRequestHeaders(), cors.New(cors.Config{
		AllowOriginFunc:  func(string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowCredentials: true,
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		MaxAge:           12 * time.Hour,
	}))

	Setup(r, cfg, log, store, taskCache)
	return r
}
