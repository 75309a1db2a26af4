package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/TanuSree02/prodex/internal/cache"
	"github.com/TanuSree02/prodex/internal/handler"
	"github.com/TanuSree02/prodex/internal/httpserver"
	"github.com/TanuSree02/prodex/internal/repository"
	"github.com/TanuSree02/prodex/internal/service/sync"
	"github.com/TanuSree02/prodex/pkg/config"
	"github.com/TanuSree02/prodex/pkg/db"
	"github.com/TanuSree02/prodex/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg := config.Load(*configPath)

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting prodex server...",
		zap.String("db_host", cfg.DB.Host),
		zap.Int("db_port", cfg.DB.Port),
		zap.String("port", cfg.Server.Port),
	)

	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to init DB", zap.Error(err))
	}
	defer dbConn.Close()

	rdb := cache.NewRedisClient(cfg.Redis)
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		// The resource cache fails open, so a missing redis only costs reads.
		log.Warn("Redis unavailable, resource catalog served uncached", zap.Error(err))
	}
	pingCancel()

	userRepo := repository.NewUserRepository(dbConn, log)
	taskRepo := repository.NewTaskRepository(dbConn, log)
	goalRepo := repository.NewGoalRepository(dbConn, log)
	applicationRepo := repository.NewApplicationRepository(dbConn, log)
	skillRepo := repository.NewSkillRepository(dbConn, log)
	resourceRepo := repository.NewResourceRepository(dbConn, log)

	syncService := sync.NewService(userRepo, taskRepo, goalRepo, applicationRepo, skillRepo, log)
	resourceCache := cache.NewResourceCache(resourceRepo, rdb, log)

	handlers := httpserver.Handlers{
		Data:     handler.NewDataHandler(syncService, log),
		Sync:     handler.NewSyncHandler(syncService, log),
		Resource: handler.NewResourceHandler(resourceCache, log),
		Auth:     handler.NewAuthHandler(syncService, cfg.JWT.Secret, log),
	}
	router := httpserver.NewRouter(handlers, log, dbConn)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down prodex server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	if err := rdb.Close(); err != nil {
		log.Error("Redis close error", zap.Error(err))
	}
	dbConn.Close()

	log.Info("prodex server shutdown complete")
}
