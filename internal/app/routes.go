package app

import (
	"context"
	"net/http"
	"time"

	"tasklist/internal/cache"
	"tasklist/internal/config"
	"tasklist/internal/handlers"
	"tasklist/internal/service"

	_ "tasklist/docs"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
	"go.uber.org/zap"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, log *zap.Logger, store *storage, taskCache *cache.TaskCache) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/readyz", readyHandler(store, taskCache))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))

	locks := service.NewKeyedMutex()
	userSvc := service.NewUserService(store.users, cfg.Auth.BcryptCost, locks, log)
	taskSvc := service.NewTaskService(store.users, store.tasks, taskCache, locks, log)
	registerUserRoutes(r, handlers.NewUserHandler(userSvc, log))
	registerTaskRoutes(r, handlers.NewTaskHandler(taskSvc, log))
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Task List API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"storage": cfg.Storage.Driver,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": cfg.App.Version})
	}
}

func readyHandler(store *storage, taskCache *cache.TaskCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := store.ping(ctx); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "storage_not_ready", "error": err.Error()})
			return
		}
		if taskCache != nil {
			if err := taskCache.Ping(ctx); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"status": "cache_not_ready", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerUserRoutes(r *gin.Engine, h *handlers.UserHandler) {
	r.POST("/create_user/", h.Create)
}

func registerTaskRoutes(r *gin.Engine, h *handlers.TaskHandler) {
	r.POST("/create_task/", h.Create)
	r.GET("/get_tasks/", h.List)
}
