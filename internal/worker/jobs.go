package worker

import (
	"Mumkin/pkg/logger"
	"context"
	"time"
)

type catalog interface {
	FetchAll(ctx context.Context) error
	Reindex(ctx context.Context) error
}

type tokenStore interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

func CatalogRefresh(spec string, c catalog) Job {
	return Job{Name: "catalog.refresh", Spec: spec, Timeout: time.Minute, Run: c.FetchAll}
}

func SearchReindex(spec string, c catalog) Job {
	return Job{Name: "catalog.reindex", Spec: spec, Timeout: 10 * time.Minute, Run: c.Reindex}
}

func TokenCleanup(spec string, log logger.Log, tokens tokenStore) Job {
	return Job{Name: "auth.token_cleanup", Spec: spec, Timeout: time.Minute, Run: func(ctx context.Context) error {
		n, err := tokens.DeleteExpired(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Info("expired refresh tokens removed", "count", n)
		}
		return nil
	}}
}
