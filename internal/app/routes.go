package app

import (
	"log/slog"
	"net/http"

	_ "github.com/Jaco-Potgieter/todo/docs"
	"github.com/Jaco-Potgieter/todo/internal/cache"
	"github.com/Jaco-Potgieter/todo/internal/config"
	"github.com/Jaco-Potgieter/todo/internal/handlers"
	"github.com/Jaco-Potgieter/todo/internal/repo"
	"github.com/Jaco-Potgieter/todo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine. A nil rdb disables the todo cache.
func Setup(r *gin.Engine, cfg config.Config, log *slog.Logger, todoRepo repo.TodoRepo, rdb *redis.Client) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))

	opts := []service.Option{service.WithLogger(log)}
	if rdb != nil {
		opts = append(opts, service.WithCache(cache.NewTodoCache(rdb, cfg.Redis.DefaultTTL.Duration())))
	}
	todoSvc := service.NewTodoService(todoRepo, opts...)
	todoHandler := handlers.NewTodoHandler(todoSvc, log)
	registerTodoRoutes(r.Group("/api"), todoHandler)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Todo API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"openapi": "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api/todo",
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

func registerTodoRoutes(api *gin.RouterGroup, h *handlers.TodoHandler) {
	api.GET("/todo", h.List)
	api.POST("/todo/createItem", h.Create)
	api.GET("/todo/status/:status", h.ListByStatus)
	api.GET("/todo/:id", h.GetByID)
	api.PUT("/todo/:id", h.Update)
	api.DELETE("/todo/:id", h.Delete)
}
