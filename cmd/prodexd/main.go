// prodexd runs the Prodex client sync agent: it hydrates local state
// from the server, then keeps pulling and pushing in the background
// until interrupted.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/TanuSree02/prodex/internal/client/api"
	"github.com/TanuSree02/prodex/internal/client/provider"
	"github.com/TanuSree02/prodex/internal/client/tombstone"
	"github.com/TanuSree02/prodex/internal/model"
	"github.com/TanuSree02/prodex/pkg/config"
	"github.com/TanuSree02/prodex/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg := config.Load(*configPath)

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting prodexd...",
		zap.String("api_base", cfg.Client.APIBase),
		zap.Duration("poll_interval", cfg.Client.PollInterval),
	)

	tombs, err := tombstone.Open(cfg.Client.TombstonePath)
	if err != nil {
		log.Fatal("Failed to open tombstone store", zap.Error(err))
	}
	defer tombs.Close()

	client := api.NewClient(cfg.Client.APIBase, log)
	p := provider.New(client, tombs, log, provider.Options{
		PollInterval: cfg.Client.PollInterval,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := p.Hydrate(ctx); err != nil {
		log.Warn("Initial hydration incomplete, continuing with local defaults", zap.Error(err))
	}

	settings := p.Settings()
	var scheduled float64
	for _, t := range p.Tasks() {
		if t.Status != model.TaskStatusDone && t.Status != model.TaskStatusArchived {
			scheduled += t.EstimatedHours
		}
	}
	log.Info("Hydrated",
		zap.Int("tasks", len(p.Tasks())),
		zap.Int("goals", len(p.Goals())),
		zap.Int("applications", len(p.Applications())),
		zap.Int("skills", len(p.Skills())),
		zap.Float64("workload_pct", model.WorkloadPercent(scheduled, settings.WeeklyCapacity)),
	)

	go p.Run(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down prodexd...")
	cancel()
	p.Close()
	log.Info("prodexd shutdown complete")
}
