package app

import (
	"Mumkin/internal/app/server"
	"Mumkin/internal/config"
	"Mumkin/internal/delivery/http"
	"Mumkin/internal/delivery/http/controllers/middleware"
	"Mumkin/internal/service"
	"Mumkin/internal/worker"
	"Mumkin/pkg/logger"
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func Run(cfg *config.Config) {
	log := logger.New(cfg.Env)
	defer func() { _ = log.Sync() }()
	log.Info("Starting with Env: " + cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := NewDeps(ctx, cfg, log)
	if err != nil {
		log.FatalErr("error wiring dependencies", err)
	}
	defer deps.Close()

	if err := deps.Courses.FetchAll(ctx); err != nil {
		log.ErrorErr("initial catalog fetch failed", err)
	}
	if deps.Search {
		if err := deps.Courses.Reindex(ctx); err != nil {
			log.ErrorErr("initial reindex failed", err)
		}
	}
	go func() {
		if err := deps.Courses.Watch(ctx); err != nil {
			log.ErrorErr("course change feed stopped", err)
		}
	}()

	reindexSpec := ""
	if deps.Search {
		reindexSpec = cfg.Catalog.ReindexSchedule
	}
	scheduler, err := worker.New(log,
		worker.CatalogRefresh(cfg.Catalog.RefreshSchedule, deps.Courses),
		worker.SearchReindex(reindexSpec, deps.Courses),
		worker.TokenCleanup(cfg.Catalog.TokenCleanupSchedule, log, deps.Tokens),
	)
	if err != nil {
		log.FatalErr("error scheduling jobs", err)
	}
	scheduler.Start()

	u := service.Collection{
		AuthService:         deps.Auth,
		CourseService:       deps.Courses,
		ApplicationService:  deps.Applications,
		InstructorService:   deps.Instructors,
		NotificationService: deps.Notifications,
		Resolver:            deps.Resolver,
	}
	r := http.InitRoutes(log, u, http.Options{
		AllowOrigins: cfg.HTTPServer.AllowOrigins,
		MaxBodyBytes: cfg.HTTPServer.MaxUploadMB << 20,
		Limiter:      middleware.NewRateLimiter(log, deps.Redis),
		LoginLimit:   cfg.Auth.LoginRateLimit,
		LoginWindow:  cfg.Auth.LoginRateWindow,
		Health:       deps.Health,
	})

	srv := server.New(cfg.HTTPServer.Address, cfg.HTTPServer.Timeout, cfg.HTTPServer.IdleTimeout, r)
	srv.Start()
	log.Info("http server started", "address", cfg.HTTPServer.Address)

	select {
	case <-ctx.Done():
		log.Info("app signal received, shutting down")
	case err := <-srv.Notify():
		log.ErrorErr("http server stopped", err)
	}
	if err := srv.Shutdown(); err != nil {
		log.ErrorErr("http server shutdown failed", err)
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	scheduler.Stop(stopCtx)
}
