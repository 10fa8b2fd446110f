package worker

import (
	"Mumkin/pkg/logger"
	"context"
	"errors"
	"testing"
	"time"
)

type fakeCatalog struct {
	fetches  int
	reindex  int
	fetchErr error
}

func (f *fakeCatalog) FetchAll(ctx context.Context) error {
	f.fetches++
	return f.fetchErr
}

func (f *fakeCatalog) Reindex(ctx context.Context) error {
	f.reindex++
	return nil
}

type fakeTokens struct{ calls int }

func (f *fakeTokens) DeleteExpired(ctx context.Context) (int64, error) {
	f.calls++
	return 3, nil
}

func TestNewRejectsBadSpec(t *testing.T) {
	_, err := New(logger.Nop(), CatalogRefresh("every now and then", &fakeCatalog{}))
	if err == nil {
		t.Fatal("New accepted an invalid cron spec")
	}
}

func TestNewSkipsEmptySpec(t *testing.T) {
	s, err := New(logger.Nop(), SearchReindex("", &fakeCatalog{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if n := len(s.cron.Entries()); n != 0 {
		t.Errorf("entries = %d, want 0", n)
	}
}

func TestRunJobs(t *testing.T) {
	cat := &fakeCatalog{fetchErr: errors.New("db down")}
	tokens := &fakeTokens{}
	log := logger.Nop()
	s, err := New(log,
		CatalogRefresh("@every 5m", cat),
		SearchReindex("@daily", cat),
		TokenCleanup("@hourly", log, tokens),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if n := len(s.cron.Entries()); n != 3 {
		t.Fatalf("entries = %d, want 3", n)
	}
	for _, e := range s.cron.Entries() {
		e.Job.Run()
	}
	if cat.fetches != 1 || cat.reindex != 1 || tokens.calls != 1 {
		t.Errorf("fetches=%d reindex=%d cleanup=%d, want 1 each", cat.fetches, cat.reindex, tokens.calls)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Start()
	s.Stop(ctx)
}

func TestJobTimeout(t *testing.T) {
	var deadline bool
	s, _ := New(logger.Nop())
	s.run(Job{Name: "deadline", Timeout: time.Second, Run: func(ctx context.Context) error {
		_, deadline = ctx.Deadline()
		return nil
	}})
	if !deadline {
		t.Error("job context has no deadline")
	}
}
