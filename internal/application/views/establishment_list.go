package views

import (
	"context"
	"sync"

	"github.com/zatekoja/boulevard/internal/application/optimistic"
	"github.com/zatekoja/boulevard/internal/domain/entities"
	apperrors "github.com/zatekoja/boulevard/pkg/errors"
)

// ListMode selects which establishments a list view shows
type ListMode int

const (
	ListApproved ListMode = iota
	ListAll
)

// Card is one establishment as rendered in a list
type Card struct {
	Establishment *entities.Establishment
	Like          optimistic.State
	Follow        optimistic.State
	LikePending   bool
	FollowPending bool
}

// EstablishmentListView renders a paginated establishment list with per-card like and follow
type EstablishmentListView struct {
	scope    *Scope
	deps     Deps
	ctrl     *optimistic.Controller
	res      *Resource[[]*entities.Establishment]
	pageSize int

	mu      sync.Mutex
	page    int
	likes   map[string]*optimistic.Toggle
	follows map[string]*optimistic.Toggle
}

// NewEstablishmentListView creates a list view; nothing is fetched until Load
func NewEstablishmentListView(scope *Scope, deps Deps, mode ListMode) *EstablishmentListView {
	v := &EstablishmentListView{
		scope:    scope,
		deps:     deps,
		ctrl:     deps.controller(scope),
		pageSize: deps.PageSize,
		likes:    make(map[string]*optimistic.Toggle),
		follows:  make(map[string]*optimistic.Toggle),
	}
	if v.pageSize < 1 {
		v.pageSize = 12
	}

	list := deps.Establishments.ListApproved
	name := "establishments.approved"
	if mode == ListAll {
		list = deps.Establishments.List
		name = "establishments.all"
	}

	v.res = NewResource(scope, name,
		func(ctx context.Context) ([]*entities.Establishment, error) {
			items, err := list(ctx)
			if err != nil {
				return nil, err
			}
			out := make([]*entities.Establishment, len(items))
			for i := range items {
				out[i] = &items[i]
			}
			return out, nil
		},
		WithLoadRetry[[]*entities.Establishment](deps.retryAttempts()),
		WithEmpty(func(items []*entities.Establishment) bool { return len(items) == 0 }),
		WithReady(v.bind),
	)
	return v
}

// Load fetches the list and replaces whatever was shown
func (v *EstablishmentListView) Load(ctx context.Context) error {
	return v.res.Load(ctx)
}

// Retry reloads after a failed load
func (v *EstablishmentListView) Retry(ctx context.Context) error {
	return v.res.Retry(ctx)
}

// Snapshot returns the load state of the whole list
func (v *EstablishmentListView) Snapshot() Snapshot[[]*entities.Establishment] {
	return v.res.Snapshot()
}

func (v *EstablishmentListView) bind(items []*entities.Establishment) {
	userID := v.deps.userID(v.scope.Context())
	likes := make(map[string]*optimistic.Toggle, len(items))
	follows := make(map[string]*optimistic.Toggle, len(items))
	likeRel := LikeRelation(v.deps.Establishments)
	followRel := FollowRelation(v.deps.Establishments)
	for _, e := range items {
		likes[e.ID] = likeRel.Bind(v.ctrl, e, userID)
		follows[e.ID] = followRel.Bind(v.ctrl, e, userID)
	}

	v.mu.Lock()
	v.likes = likes
	v.follows = follows
	if v.page >= pageCount(len(items), v.pageSize) {
		v.page = 0
	}
	v.mu.Unlock()
}

// PageCount returns the number of pages in the loaded list
func (v *EstablishmentListView) PageCount() int {
	return pageCount(len(v.res.Data()), v.pageSize)
}

// Page returns the zero-based current page
func (v *EstablishmentListView) Page() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

// SetPage moves to page n, clamped to the loaded range
func (v *EstablishmentListView) SetPage(n int) int {
	pages := v.PageCount()
	v.mu.Lock()
	defer v.mu.Unlock()
	switch {
	case n < 0 || pages == 0:
		n = 0
	case n >= pages:
		n = pages - 1
	}
	v.page = n
	return n
}

// Cards returns the current page
func (v *EstablishmentListView) Cards() []Card {
	items := v.res.Data()
	v.mu.Lock()
	defer v.mu.Unlock()

	start := v.page * v.pageSize
	if start >= len(items) {
		return nil
	}
	end := min(start+v.pageSize, len(items))

	cards := make([]Card, 0, end-start)
	for _, e := range items[start:end] {
		card := Card{Establishment: e}
		if t := v.likes[e.ID]; t != nil {
			card.Like = t.State()
			card.LikePending = t.Pending()
		}
		if t := v.follows[e.ID]; t != nil {
			card.Follow = t.State()
			card.FollowPending = t.Pending()
		}
		cards = append(cards, card)
	}
	return cards
}

// ToggleLike flips the like on one card
func (v *EstablishmentListView) ToggleLike(ctx context.Context, id string) (optimistic.State, error) {
	t, err := v.toggle(id, false)
	if err != nil {
		return optimistic.State{}, err
	}
	return t.Toggle(ctx)
}

// ToggleFollow flips the follow on one card
func (v *EstablishmentListView) ToggleFollow(ctx context.Context, id string) (optimistic.State, error) {
	t, err := v.toggle(id, true)
	if err != nil {
		return optimistic.State{}, err
	}
	return t.Toggle(ctx)
}

func (v *EstablishmentListView) toggle(id string, follow bool) (*optimistic.Toggle, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	m := v.likes
	if follow {
		m = v.follows
	}
	t, ok := m[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Establishment not found.")
	}
	return t, nil
}

func pageCount(n, size int) int {
	if n == 0 {
		return 0
	}
	return (n + size - 1) / size
}
