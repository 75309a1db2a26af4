package httpserver

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/TanuSree02/prodex/internal/handler"
	"github.com/TanuSree02/prodex/pkg/metrics"
)

type Handlers struct {
	Data     *handler.DataHandler
	Sync     *handler.SyncHandler
	Resource *handler.ResourceHandler
	Auth     *handler.AuthHandler
}

func NewRouter(h Handlers, logger *zap.Logger, db *pgxpool.Pool) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		metrics.RecordHTTPRequestDuration(c.Request.Method, c.FullPath(), strconv.Itoa(status), latency)
		logger.Info("HTTP Request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})
	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if db != nil {
			if err := db.Ping(ctx); err != nil {
				c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
				return
			}
		}
		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "message": "Prodex backend running"})
	})

	v1 := r.Group("/api/v1")
	{
		v1.GET("/data", h.Data.GetData)
		v1.GET("/resources/categories", h.Resource.ListCategories)
		v1.GET("/resources/categories/:slug", h.Resource.GetBySlug)
		v1.POST("/tasks/sync", h.Sync.TasksSync)
		v1.POST("/sync", h.Sync.FullSync)
		v1.POST("/auth/login", h.Auth.Login)
	}

	return r
}
