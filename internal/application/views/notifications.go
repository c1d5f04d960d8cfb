package views

import (
	"context"
	"slices"
	"sync"

	"github.com/zatekoja/boulevard/internal/application/optimistic"
	"github.com/zatekoja/boulevard/internal/domain/entities"
	"github.com/zatekoja/boulevard/internal/domain/providers"
	apperrors "github.com/zatekoja/boulevard/pkg/errors"
)

// NotificationItem is one notification as rendered
type NotificationItem struct {
	Notification *entities.Notification
	Read         bool
	Pending      bool
}

// NotificationView lists the user's notifications. Read/unread is optimistic;
// deletion waits for the backend.
type NotificationView struct {
	scope *Scope
	deps  Deps
	ctrl  *optimistic.Controller
	res   *Resource[[]*entities.Notification]

	mu    sync.Mutex
	reads map[string]*optimistic.Toggle
}

// NewNotificationView creates a notification view
func NewNotificationView(scope *Scope, deps Deps) *NotificationView {
	v := &NotificationView{
		scope: scope,
		deps:  deps,
		ctrl:  deps.controller(scope),
		reads: make(map[string]*optimistic.Toggle),
	}
	v.res = NewResource(scope, "notifications",
		func(ctx context.Context) ([]*entities.Notification, error) {
			if _, err := deps.Session.Current(ctx); err != nil {
				return nil, err
			}
			items, err := deps.Notifications.List(ctx)
			if err != nil {
				return nil, err
			}
			out := make([]*entities.Notification, len(items))
			for i := range items {
				out[i] = &items[i]
			}
			return out, nil
		},
		WithLoadRetry[[]*entities.Notification](deps.retryAttempts()),
		WithEmpty(func(items []*entities.Notification) bool { return len(items) == 0 }),
		WithReady(v.bind),
	)
	return v
}

func (v *NotificationView) bind(items []*entities.Notification) {
	rel := ReadRelation(v.deps.Notifications)
	userID := v.deps.userID(v.scope.Context())
	reads := make(map[string]*optimistic.Toggle, len(items))
	for _, n := range items {
		reads[n.ID] = rel.Bind(v.ctrl, n, userID)
	}
	v.mu.Lock()
	v.reads = reads
	v.mu.Unlock()
}

// Load fetches the notifications
func (v *NotificationView) Load(ctx context.Context) error {
	return v.res.Load(ctx)
}

// Retry reloads after a failed load
func (v *NotificationView) Retry(ctx context.Context) error {
	return v.res.Retry(ctx)
}

// Snapshot returns the load state
func (v *NotificationView) Snapshot() Snapshot[[]*entities.Notification] {
	return v.res.Snapshot()
}

// Items returns the notifications with their current read state
func (v *NotificationView) Items() []NotificationItem {
	items := v.res.Data()
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]NotificationItem, 0, len(items))
	for _, n := range items {
		item := NotificationItem{Notification: n, Read: n.Read}
		if t := v.reads[n.ID]; t != nil {
			item.Read = t.State().On
			item.Pending = t.Pending()
		}
		out = append(out, item)
	}
	return out
}

// UnreadCount returns how many notifications are shown as unread
func (v *NotificationView) UnreadCount() int {
	n := 0
	for _, item := range v.Items() {
		if !item.Read {
			n++
		}
	}
	return n
}

// ToggleRead flips read/unread on one notification
func (v *NotificationView) ToggleRead(ctx context.Context, id string) (bool, error) {
	v.mu.Lock()
	t, ok := v.reads[id]
	v.mu.Unlock()
	if !ok {
		return false, apperrors.NewNotFoundError("Notification not found.")
	}
	state, err := t.Toggle(ctx)
	return state.On, err
}

// MarkAllRead marks every notification read once the backend confirms
func (v *NotificationView) MarkAllRead(ctx context.Context) error {
	if _, err := requireSession(ctx, v.deps); err != nil {
		return err
	}
	if err := v.deps.Notifications.MarkAllRead(ctx); err != nil {
		return reportFailure(ctx, v.scope, v.deps, "mark all read", err)
	}
	if !v.scope.Alive() {
		return nil
	}

	var next []*entities.Notification
	v.res.Mutate(func(items []*entities.Notification) []*entities.Notification {
		next = make([]*entities.Notification, len(items))
		for i, n := range items {
			cp := *n
			cp.Read = true
			next[i] = &cp
		}
		return next
	})
	if next != nil {
		v.bind(next)
	}
	v.deps.notify(providers.LevelSuccess, "All notifications marked as read.")
	return nil
}

// Delete removes one notification after the backend confirms
func (v *NotificationView) Delete(ctx context.Context, id string) error {
	if _, err := requireSession(ctx, v.deps); err != nil {
		return err
	}
	if err := v.deps.Notifications.Delete(ctx, id); err != nil {
		return reportFailure(ctx, v.scope, v.deps, "delete notification", err)
	}
	if !v.scope.Alive() {
		return nil
	}
	v.res.Mutate(func(items []*entities.Notification) []*entities.Notification {
		return slices.DeleteFunc(slices.Clone(items), func(n *entities.Notification) bool {
			return n.ID == id
		})
	})
	v.mu.Lock()
	delete(v.reads, id)
	v.mu.Unlock()
	return nil
}
