package app

import (
	"Mumkin/internal/config"
	"Mumkin/internal/delivery/http/controllers"
	"Mumkin/internal/service/application"
	"Mumkin/internal/service/auth"
	"Mumkin/internal/service/course"
	"Mumkin/internal/service/instructor"
	"Mumkin/internal/service/notification"
	"Mumkin/internal/session"
	"Mumkin/internal/storage/elastic"
	"Mumkin/internal/storage/minio_storage"
	"Mumkin/internal/storage/postgres"
	"Mumkin/internal/storage/realtime"
	"Mumkin/pkg/logger"
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Deps is the fully wired core shared by the API server and the CLI.
type Deps struct {
	Redis  *redis.Client
	Tokens *postgres.TokensPostgres
	Health map[string]controllers.Pinger
	Search bool

	Auth          *auth.AuthService
	Resolver      *session.Resolver
	Courses       *course.CourseService
	Applications  *application.ApplicationService
	Instructors   *instructor.InstructorService
	Notifications *notification.NotificationService

	closers []func()
}

func (d *Deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

func NewDeps(ctx context.Context, cfg *config.Config, log logger.Log) (*Deps, error) {
	d := &Deps{Health: make(map[string]controllers.Pinger)}

	pg, err := postgres.NewPostgresPool(ctx, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.DBName)
	if err != nil {
		return nil, err
	}
	d.closers = append(d.closers, pg.Close)
	d.Health["postgres"] = pg

	d.Redis = redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	d.closers = append(d.closers, func() { _ = d.Redis.Close() })
	feed := realtime.New(d.Redis)
	if err := feed.Ping(ctx); err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	d.Health["redis"] = feed

	assets, err := minio_storage.NewMinioStorage(ctx, minio_storage.Options{
		Endpoint:      cfg.Minio.Endpoint,
		AccessKey:     cfg.Minio.AccessKey,
		SecretKey:     cfg.Minio.SecretKey,
		UseSSL:        cfg.Minio.UseSSL,
		PublicBaseURL: cfg.Minio.PublicBaseURL,
		PresignTTL:    cfg.Minio.PresignTTL,
		Buckets:       cfg.Minio.Buckets,
	})
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to connect to minio: %w", err)
	}
	d.Health["minio"] = assets

	courseOpts := []course.Option{course.WithChangeFeed(feed)}
	if cfg.ES.Enabled {
		client, err := elastic.NewElasticClient(cfg.ES.Password, cfg.ES.Hosts)
		if err != nil {
			d.Close()
			return nil, err
		}
		search := elastic.NewCourseSearchRepository(client, cfg.ES.Index)
		if err := search.CreateIndexIfNotExist(ctx); err != nil {
			d.Close()
			return nil, err
		}
		courseOpts = append(courseOpts, course.WithSearch(search))
		d.Health["elasticsearch"] = search
		d.Search = true
	}

	profileRepo := postgres.NewProfilePostgres(pg.Pool)
	notificationRepo := postgres.NewNotificationPostgres(pg.Pool)
	d.Tokens = postgres.NewTokensPostgres(pg.Pool)

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Issuer, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	google := auth.NewGoogleProvider(cfg.OAuth.GoogleClientID, cfg.OAuth.GoogleClientSecret, cfg.OAuth.RedirectURL)
	d.Auth = auth.NewAuthService(log, jwtManager, postgres.NewUserPostgres(pg.Pool), d.Tokens, google)
	d.Resolver = session.NewResolver(profileRepo, cfg.Auth.AdminEmail)

	d.Courses = course.NewCourseService(log, postgres.NewCoursePostgres(pg.Pool), profileRepo, assets, courseOpts...)
	d.Applications = application.NewApplicationService(log, postgres.NewApplicationPostgres(pg.Pool), profileRepo, d.Courses)
	d.Instructors = instructor.NewInstructorService(log, profileRepo, notificationRepo, feed)
	d.Notifications = notification.NewNotificationService(log, notificationRepo, feed)
	return d, nil
}
