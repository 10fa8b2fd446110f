package notification

import (
	"Mumkin/internal/models"
	"Mumkin/internal/storage/realtime"
	"Mumkin/pkg/observable"
	"context"

	"github.com/google/uuid"
)

type Inbox struct {
	Items  []models.Notification
	Unread int
}

// Feed keeps one user's inbox current.
type Feed struct {
	svc    *NotificationService
	userID uuid.UUID
	inbox  *observable.Value[Inbox]
}

func (s *NotificationService) Feed(userID uuid.UUID) *Feed {
	return &Feed{
		svc:    s,
		userID: userID,
		inbox:  observable.New(Inbox{Items: []models.Notification{}}),
	}
}

func (f *Feed) Inbox() observable.Reader[Inbox] {
	return f.inbox
}

// Refresh refetches the inbox. On failure the previous inbox is kept.
func (f *Feed) Refresh(ctx context.Context) error {
	items, err := f.svc.ForUser(ctx, f.userID)
	if err != nil {
		return err
	}
	f.inbox.Publish(Inbox{Items: items, Unread: countUnread(items)})
	return nil
}

// Run refreshes once and then again on every change to the user's
// notifications until ctx is done.
func (f *Feed) Run(ctx context.Context) error {
	if err := f.Refresh(ctx); err != nil {
		f.svc.log.ErrorErr("failed to fetch notifications", err, "user_id", f.userID)
	}
	if f.svc.feed == nil {
		<-ctx.Done()
		return nil
	}
	events, closeSub, err := f.svc.feed.Subscribe(ctx, realtime.TableNotifications, f.userID.String())
	if err != nil {
		return err
	}
	defer func() { _ = closeSub() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-events:
			if !ok {
				return nil
			}
			if err := f.Refresh(ctx); err != nil {
				f.svc.log.ErrorErr("failed to refetch notifications", err, "user_id", f.userID)
			}
		}
	}
}

// MarkAllRead marks the unread items of the current inbox read. The local
// inbox only changes once the backend accepted the update.
func (f *Feed) MarkAllRead(ctx context.Context) error {
	ids := unreadIDs(f.inbox.Get().Items)
	if err := f.svc.markRead(ctx, f.userID, ids); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	marked := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		marked[id] = struct{}{}
	}
	f.inbox.Update(func(in Inbox) Inbox {
		items := make([]models.Notification, len(in.Items))
		for i, n := range in.Items {
			if _, ok := marked[n.ID]; ok {
				n.IsRead = true
			}
			items[i] = n
		}
		return Inbox{Items: items, Unread: countUnread(items)}
	})
	return nil
}
