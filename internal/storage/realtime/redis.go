package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	TableCourses       = "courses"
	TableNotifications = "notifications"
	TableApplications  = "instructor_applications"

	// OwnerAll is used for tables that are not partitioned per user.
	OwnerAll = "all"
)

type Event struct {
	Table string    `json:"table"`
	Owner string    `json:"owner"`
	Op    string    `json:"op"`
	At    time.Time `json:"at"`
}

type Feed struct {
	client *redis.Client
}

func New(client *redis.Client) *Feed {
	return &Feed{client: client}
}

func (f *Feed) Ping(ctx context.Context) error {
	return f.client.Ping(ctx).Err()
}

func Channel(table, owner string) string {
	return fmt.Sprintf("realtime:%s:%s", table, owner)
}

func (f *Feed) Publish(ctx context.Context, table, owner, op string) error {
	payload, err := json.Marshal(Event{Table: table, Owner: owner, Op: op, At: time.Now().UTC()})
	if err != nil {
		return err
	}
	return f.client.Publish(ctx, Channel(table, owner), payload).Err()
}

// Subscribe delivers events until ctx is done or the returned cancel func
// is called. Undecodable messages are skipped.
func (f *Feed) Subscribe(ctx context.Context, table, owner string) (<-chan Event, func() error, error) {
	sub := f.client.Subscribe(ctx, Channel(table, owner))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("subscribe %s: %w", Channel(table, owner), err)
	}

	out := make(chan Event)
	go func() {
		defer close(out)
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, sub.Close, nil
}
