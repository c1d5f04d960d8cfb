package views

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/zatekoja/boulevard/internal/application/optimistic"
	"github.com/zatekoja/boulevard/internal/domain/entities"
	"github.com/zatekoja/boulevard/internal/domain/providers"
	"github.com/zatekoja/boulevard/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/boulevard/pkg/errors"
)

// Detail is what the establishment page renders
type Detail struct {
	Establishment *entities.Establishment
	Like          optimistic.State
	Follow        optimistic.State
	CommentCount  int
	AverageRating float64
}

// EstablishmentDetailView renders one establishment with its comments.
// Like and follow are optimistic; every other mutation waits for the backend.
type EstablishmentDetailView struct {
	scope *Scope
	deps  Deps
	ctrl  *optimistic.Controller
	id    string
	res   *Resource[*entities.Establishment]

	mu     sync.Mutex
	like   *optimistic.Toggle
	follow *optimistic.Toggle
}

// NewEstablishmentDetailView creates a detail view for establishment id
func NewEstablishmentDetailView(scope *Scope, deps Deps, id string) *EstablishmentDetailView {
	v := &EstablishmentDetailView{
		scope: scope,
		deps:  deps,
		ctrl:  deps.controller(scope),
		id:    id,
	}
	v.res = NewResource(scope, "establishment.detail", v.fetch,
		WithLoadRetry[*entities.Establishment](deps.retryAttempts()),
		WithReady(v.bind),
	)
	return v
}

func (v *EstablishmentDetailView) fetch(ctx context.Context) (*entities.Establishment, error) {
	e, err := v.deps.Establishments.GetByID(ctx, v.id)
	if err != nil {
		return nil, err
	}
	if v.deps.Comments == nil {
		return e, nil
	}
	comments, err := v.deps.Comments.ListByEstablishment(ctx, v.id)
	if err != nil {
		// the embedded comments are still a usable snapshot
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("establishment_id", v.id).Msg("failed to load comments")
		return e, nil
	}
	e.Comments = comments
	return e, nil
}

func (v *EstablishmentDetailView) bind(e *entities.Establishment) {
	userID := v.deps.userID(v.scope.Context())
	like := LikeRelation(v.deps.Establishments).Bind(v.ctrl, e, userID)
	follow := FollowRelation(v.deps.Establishments).Bind(v.ctrl, e, userID)

	v.mu.Lock()
	v.like = like
	v.follow = follow
	v.mu.Unlock()
}

// Load fetches the establishment and its comments
func (v *EstablishmentDetailView) Load(ctx context.Context) error {
	return v.res.Load(ctx)
}

// Retry reloads after a failed load
func (v *EstablishmentDetailView) Retry(ctx context.Context) error {
	return v.res.Retry(ctx)
}

// Status returns the load status
func (v *EstablishmentDetailView) Status() Status {
	return v.res.Status()
}

// Err returns the last load failure
func (v *EstablishmentDetailView) Err() error {
	return v.res.Snapshot().Err
}

// Detail returns the current render state; nil until loaded
func (v *EstablishmentDetailView) Detail() *Detail {
	snap := v.res.Snapshot()
	if snap.Status != Ready || snap.Data == nil {
		return nil
	}
	e := snap.Data
	d := &Detail{
		Establishment: e,
		CommentCount:  len(e.Comments),
		AverageRating: entities.AverageRating(e.Comments),
	}
	v.mu.Lock()
	if v.like != nil {
		d.Like = v.like.State()
	}
	if v.follow != nil {
		d.Follow = v.follow.State()
	}
	v.mu.Unlock()
	return d
}

// ToggleLike flips the like
func (v *EstablishmentDetailView) ToggleLike(ctx context.Context) (optimistic.State, error) {
	v.mu.Lock()
	t := v.like
	v.mu.Unlock()
	if t == nil {
		return optimistic.State{}, errNotLoaded
	}
	return t.Toggle(ctx)
}

// ToggleFollow flips the follow
func (v *EstablishmentDetailView) ToggleFollow(ctx context.Context) (optimistic.State, error) {
	v.mu.Lock()
	t := v.follow
	v.mu.Unlock()
	if t == nil {
		return optimistic.State{}, errNotLoaded
	}
	return t.Toggle(ctx)
}

// AddComment posts a comment and, once the backend accepts it, appends it
// locally so the count and average update without a refetch.
func (v *EstablishmentDetailView) AddComment(ctx context.Context, rating int, body string) (*entities.Comment, error) {
	session, err := v.requireSession(ctx)
	if err != nil {
		return nil, err
	}

	input := &entities.CommentInput{EstablishmentID: v.id, Rating: rating, Body: strings.TrimSpace(body)}
	if err := v.deps.validator().Comment(input); err != nil {
		v.deps.notify(providers.LevelWarning, apperrors.UserMessage(err))
		return nil, err
	}

	created, err := v.deps.Comments.Create(ctx, input)
	if err != nil {
		return nil, v.fail(ctx, "create comment", err)
	}
	if !v.scope.Alive() {
		return created, nil
	}
	if created.Author.ID == "" {
		created.Author = entities.Ref{ID: session.UserID(), Name: session.User.Name}
	}

	v.res.Mutate(func(e *entities.Establishment) *entities.Establishment {
		next := *e
		next.Comments = append(slices.Clone(e.Comments), *created)
		next.AverageRating = entities.AverageRating(next.Comments)
		return &next
	})
	v.deps.notify(providers.LevelSuccess, "Comment added.")
	return created, nil
}

// EditComment changes the rating and text of an existing comment. The shown
// comment is replaced only after the backend accepts the edit.
func (v *EstablishmentDetailView) EditComment(ctx context.Context, commentID string, rating int, body string) (*entities.Comment, error) {
	if _, err := v.requireSession(ctx); err != nil {
		return nil, err
	}
	current := v.res.Data()
	if current == nil || !slices.ContainsFunc(current.Comments, func(c entities.Comment) bool { return c.ID == commentID }) {
		return nil, apperrors.NewNotFoundError("Comment not found.")
	}

	input := &entities.CommentInput{EstablishmentID: v.id, Rating: rating, Body: strings.TrimSpace(body)}
	if err := v.deps.validator().Comment(input); err != nil {
		v.deps.notify(providers.LevelWarning, apperrors.UserMessage(err))
		return nil, err
	}

	updated, err := v.deps.Comments.Update(ctx, commentID, input)
	if err != nil {
		return nil, v.fail(ctx, "edit comment", err)
	}
	if !v.scope.Alive() {
		return updated, nil
	}

	v.res.Mutate(func(e *entities.Establishment) *entities.Establishment {
		next := *e
		next.Comments = slices.Clone(e.Comments)
		for i, c := range next.Comments {
			if c.ID != commentID {
				continue
			}
			edited := *updated
			if edited.ID == "" {
				edited.ID = commentID
			}
			if edited.Author.ID == "" {
				edited.Author = c.Author
			}
			if edited.CreatedAt.IsZero() {
				edited.CreatedAt = c.CreatedAt
			}
			next.Comments[i] = edited
		}
		next.AverageRating = entities.AverageRating(next.Comments)
		return &next
	})
	v.deps.notify(providers.LevelSuccess, "Comment updated.")
	return updated, nil
}

// DeleteComment removes one comment after the backend confirms
func (v *EstablishmentDetailView) DeleteComment(ctx context.Context, commentID string) error {
	if _, err := v.requireSession(ctx); err != nil {
		return err
	}
	if err := v.deps.Comments.Delete(ctx, commentID); err != nil {
		return v.fail(ctx, "delete comment", err)
	}
	if !v.scope.Alive() {
		return nil
	}
	v.res.Mutate(func(e *entities.Establishment) *entities.Establishment {
		next := *e
		next.Comments = slices.DeleteFunc(slices.Clone(e.Comments), func(c entities.Comment) bool {
			return c.ID == commentID
		})
		next.AverageRating = entities.AverageRating(next.Comments)
		return &next
	})
	v.deps.notify(providers.LevelSuccess, "Comment deleted.")
	return nil
}

// DeleteImage removes one gallery image after the backend confirms
func (v *EstablishmentDetailView) DeleteImage(ctx context.Context, imageID string) error {
	if _, err := v.requireSession(ctx); err != nil {
		return err
	}
	if err := v.deps.Establishments.DeleteImage(ctx, v.id, imageID); err != nil {
		return v.fail(ctx, "delete image", err)
	}
	if !v.scope.Alive() {
		return nil
	}
	v.res.Mutate(func(e *entities.Establishment) *entities.Establishment {
		next := *e
		next.Images = slices.DeleteFunc(slices.Clone(e.Images), func(img entities.Image) bool {
			return img.ID == imageID
		})
		return &next
	})
	v.deps.notify(providers.LevelSuccess, "Image deleted.")
	return nil
}

// Update submits owner edits and replaces the shown establishment with the result
func (v *EstablishmentDetailView) Update(ctx context.Context, form *entities.EstablishmentForm) error {
	if _, err := v.requireSession(ctx); err != nil {
		return err
	}
	if err := v.deps.validator().Establishment(form); err != nil {
		v.deps.notify(providers.LevelWarning, apperrors.UserMessage(err))
		return err
	}
	updated, err := v.deps.Establishments.Update(ctx, v.id, form)
	if err != nil {
		return v.fail(ctx, "update establishment", err)
	}
	if !v.scope.Alive() {
		return nil
	}

	var current *entities.Establishment
	v.res.Mutate(func(e *entities.Establishment) *entities.Establishment {
		next := *updated
		if len(next.Comments) == 0 {
			next.Comments = e.Comments
		}
		current = &next
		return current
	})
	if current != nil {
		v.bind(current)
	}
	v.deps.notify(providers.LevelSuccess, "Establishment updated.")
	return nil
}

// SetModerationState changes the publication state. Administrators only.
func (v *EstablishmentDetailView) SetModerationState(ctx context.Context, state entities.ModerationState) error {
	if err := v.requireAdmin(ctx); err != nil {
		return err
	}
	if err := v.deps.Establishments.SetModerationState(ctx, v.id, state); err != nil {
		return v.fail(ctx, "set moderation state", err)
	}
	if !v.scope.Alive() {
		return nil
	}
	v.res.Mutate(func(e *entities.Establishment) *entities.Establishment {
		next := *e
		next.ModerationState = state
		return &next
	})
	v.deps.notify(providers.LevelSuccess, "Moderation state updated.")
	return nil
}

// SetVerified changes the verified flag. Administrators only.
func (v *EstablishmentDetailView) SetVerified(ctx context.Context, verified bool) error {
	if err := v.requireAdmin(ctx); err != nil {
		return err
	}
	if err := v.deps.Establishments.SetVerified(ctx, v.id, verified); err != nil {
		return v.fail(ctx, "set verified", err)
	}
	if !v.scope.Alive() {
		return nil
	}
	v.res.Mutate(func(e *entities.Establishment) *entities.Establishment {
		next := *e
		next.Verified = verified
		return &next
	})
	v.deps.notify(providers.LevelSuccess, "Verification updated.")
	return nil
}

func (v *EstablishmentDetailView) requireSession(ctx context.Context) (*entities.Session, error) {
	return requireSession(ctx, v.deps)
}

func (v *EstablishmentDetailView) requireAdmin(ctx context.Context) error {
	session, err := v.requireSession(ctx)
	if err != nil {
		return err
	}
	if !session.User.IsAdmin() {
		err := apperrors.NewUnauthenticatedError("Only administrators can do that.")
		v.deps.notify(providers.LevelWarning, err.UserMessage())
		return err
	}
	return nil
}

func (v *EstablishmentDetailView) fail(ctx context.Context, action string, err error) error {
	return reportFailure(ctx, v.scope, v.deps, action, err)
}
