package main

import (
	"context"
	"time"

	"github.com/shashiranjanraj/stockroom/app/dashboard"
	"github.com/shashiranjanraj/stockroom/app/services"
	"github.com/shashiranjanraj/stockroom/config"
	"github.com/shashiranjanraj/stockroom/pkg/cache"
	"github.com/shashiranjanraj/stockroom/pkg/logger"
	"github.com/shashiranjanraj/stockroom/pkg/schedule"
	"github.com/shashiranjanraj/stockroom/pkg/storage"
	"github.com/shashiranjanraj/stockroom/pkg/workerpool"
)

// runtime is what every dashboard-facing command needs: the upstream
// services, the cache behind them, the export disk and the load pool.
type runtime struct {
	store    cache.Store
	services *services.Services
	disk     storage.Disk
	pool     *workerpool.Pool
	closers  []func()
}

// boot loads config, attaches the log sink and connects the cache and the
// storage disks. Redis is optional; without it the cache is in-process.
func boot(ctx context.Context) (*runtime, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	rt := &runtime{}
	rt.closers = append(rt.closers, logger.Setup())

	if rs, err := cache.Connect(ctx); err != nil {
		logger.Warn("cache: redis unavailable, using memory", "error", err)
		rt.store = cache.NewMemory()
	} else {
		rt.store = rs
		rt.closers = append(rt.closers, func() { _ = rs.Close() })
	}

	storage.Connect(ctx)
	rt.disk = storage.Default()
	rt.services = services.FromEnv(rt.store)
	rt.pool = workerpool.New(config.WorkerPoolSize())
	rt.closers = append(rt.closers, rt.pool.Shutdown)
	return rt, nil
}

// close releases resources in reverse order.
func (rt *runtime) close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
}

func (rt *runtime) deps(events dashboard.Publisher) dashboard.Deps {
	return dashboard.Deps{
		Services:   rt.services,
		Pool:       rt.pool,
		Disk:       rt.disk,
		Events:     events,
		Stagger:    config.SectionStagger(),
		LowStock:   config.LowStockThreshold(),
		ProductURL: config.ProductURL(),
	}
}

const (
	jobWarm  = "cache:warm"
	jobPrune = "exports:prune"
)

// jobs registers the background jobs. Warm-up follows WARMUP_CRON and
// defaults to every five minutes.
func (rt *runtime) jobs() (*schedule.Scheduler, error) {
	s := schedule.New()

	spec := config.WarmupCron()
	if spec == "" {
		spec = "@every 5m"
	}
	warm := s.Cron(spec).Name(jobWarm).WithoutOverlapping()
	if err := warm.Run(rt.warm); err != nil {
		return nil, err
	}
	if err := s.Daily().Name(jobPrune).WithoutOverlapping().Run(rt.prune); err != nil {
		return nil, err
	}
	return s, nil
}

// warm fetches the query-independent resources so the first dashboard
// search hits the cache.
func (rt *runtime) warm(ctx context.Context) {
	s := rt.services
	r1 := s.Inventory.Items(ctx)
	r2 := s.Warehouse.Stock(ctx)
	r3 := s.Analytics.InventoryByCategory(ctx)
	r4 := s.Analytics.CostByMonth(ctx)
	logger.Info("schedule: cache warmed",
		"inventory", r1.Status, "warehouses", r2.Status, "byCategory", r3.Status, "costByMonth", r4.Status)
}

func (rt *runtime) prune(ctx context.Context) {
	cutoff := time.Now().Add(-config.Duration("EXPORT_RETENTION", 7*24*time.Hour))
	n, err := storage.Prune(ctx, rt.disk, "exports", cutoff)
	if err != nil {
		logger.Error("schedule: export prune failed", "error", err)
		return
	}
	logger.Info("schedule: exports pruned", "removed", n, "cutoff", cutoff)
}
