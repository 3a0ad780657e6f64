package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/config"
	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/bootstrap"
	cronjob "github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/resilience/cron"
	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/resilience/dataset"
	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/resilience/domain"
	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/resilience/repository"
	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/resilience/service"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	catalog := domain.CanonicalCatalog()
	loader := dataset.NewLoader(catalog, dataset.WithSheet(cfg.Dataset.Sheet))

	// A malformed dataset is fatal at startup.
	if _, err := loader.Load(ctx, cfg.Dataset.Path); err != nil {
		log.Fatalf("dataset: %v", err)
	}

	var (
		rdb   *redis.Client
		cache service.ScoreCache
	)
	if cfg.Redis.Enabled() {
		rdb, err = bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer rdb.Close()
		cache = repository.NewScoreCache(rdb, cfg.Redis.ScoreTTL)
		log.Printf("[cache] redis score cache at %s (ttl %s)", cfg.Redis.Addr, cfg.Redis.ScoreTTL)
	} else {
		log.Println("[cache] REDIS_ADDR not set, score cache disabled")
	}

	svc, err := service.NewDashboardService(loader, cache, service.Options{
		DatasetPath:      cfg.Dataset.Path,
		Mode:             cfg.Scoring.Mode,
		Domains:          cfg.Scoring.Domains,
		ResilienceLevels: cfg.Dataset.ResilienceLevels,
	})
	if err != nil {
		log.Fatalf("dashboard service: %v", err)
	}

	if cache != nil && cfg.Redis.WarmSchedule != "" {
		sched := cronjob.NewScheduler(svc)
		if err := sched.Start(cfg.Redis.WarmSchedule); err != nil {
			log.Fatalf("warm schedule %q: %v", cfg.Redis.WarmSchedule, err)
		}
		defer sched.Stop()
		go sched.RunOnce()
	}

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    "cyber-resilience-dashboard",
		Version:        cfg.App.Version,
		CORSOrigins:    cfg.Server.CORSOrigins,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
		Dashboard:      svc,
		Catalog:        catalog,
		Redis:          rdb,
		DatasetLoaded:  func() bool { return loader.Cached(cfg.Dataset.Path) },
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	log.Printf("listening on :%s", cfg.Server.Port)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Printf("serve: %v", err)
		}
	}
}
