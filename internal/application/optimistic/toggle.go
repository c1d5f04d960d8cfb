package optimistic

import (
	"context"
	"errors"
	"sync"

	"github.com/zatekoja/boulevard/internal/domain/providers"
	"github.com/zatekoja/boulevard/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/boulevard/pkg/errors"
)

const (
	outcomeApplied    = "applied"
	outcomeRolledBack = "rolled_back"
	outcomeRejected   = "rejected"
)

// State is what a view renders for one relation instance
type State struct {
	On    bool
	Count int
}

// Toggle is one bound relation instance, e.g. "user u1 likes establishment e1".
// The local state flips before the request is sent and is reverted exactly if it fails.
type Toggle struct {
	c         *Controller
	relation  string
	subjectID string
	userID    string
	add       func(context.Context, string) error
	remove    func(context.Context, string) error
	counted   bool

	mu      sync.Mutex
	state   State
	pending bool
}

// State returns the current local state
func (t *Toggle) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Pending reports whether a request for this toggle is in flight
func (t *Toggle) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// SubjectID returns the id of the item the toggle is bound to
func (t *Toggle) SubjectID() string {
	return t.subjectID
}

// Toggle flips the relation
func (t *Toggle) Toggle(ctx context.Context) (State, error) {
	t.mu.Lock()
	on := !t.state.On
	t.mu.Unlock()
	return t.Set(ctx, on)
}

// Set moves the relation to on. Setting the state it already has is a no-op and sends nothing.
func (t *Toggle) Set(ctx context.Context, on bool) (State, error) {
	logger := observability.LoggerFromContext(ctx)

	session, err := t.c.session.Current(ctx)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeUnauthenticated) {
			t.c.notifier.Notify(providers.LevelWarning, LoginRequiredMessage)
		} else {
			logger.Warn().Err(err).Str("relation", t.relation).Msg("failed to read session")
			t.c.notifier.Notify(providers.LevelError, apperrors.UserMessage(err))
		}
		return t.State(), err
	}
	userID := t.userID
	if userID == "" {
		userID = session.UserID()
	}
	key := Key(t.relation, t.subjectID, userID)

	t.mu.Lock()
	if t.state.On == on {
		state := t.state
		t.mu.Unlock()
		return state, nil
	}
	if t.pending || !t.c.registry.acquire(key) {
		state := t.state
		t.mu.Unlock()
		observability.RecordToggle(ctx, t.c.metrics, t.relation, outcomeRejected)
		logger.Debug().Str("relation", t.relation).Str("subject_id", t.subjectID).Msg("toggle rejected, request in flight")
		return state, ErrToggleInFlight
	}
	prev := t.state
	t.state = flip(prev, on, t.counted)
	t.pending = true
	t.mu.Unlock()

	call := t.remove
	if on {
		call = t.add
	}
	callErr := call(ctx, t.subjectID)
	t.c.registry.release(key)

	t.mu.Lock()
	t.pending = false
	if !t.c.alive() {
		state := t.state
		t.mu.Unlock()
		logger.Debug().Str("relation", t.relation).Str("subject_id", t.subjectID).Msg("view closed, toggle result dropped")
		return state, callErr
	}
	if callErr == nil {
		state := t.state
		t.mu.Unlock()
		observability.RecordToggle(ctx, t.c.metrics, t.relation, outcomeApplied)
		return state, nil
	}
	t.state = prev
	t.mu.Unlock()

	observability.RecordToggle(ctx, t.c.metrics, t.relation, outcomeRolledBack)
	logger.Warn().Err(callErr).
		Str("relation", t.relation).
		Str("subject_id", t.subjectID).
		Msg("toggle failed, reverted local state")
	if !errors.Is(callErr, context.Canceled) {
		t.c.notifier.Notify(providers.LevelError, apperrors.UserMessage(callErr))
	}
	return prev, callErr
}

func flip(s State, on, counted bool) State {
	next := State{On: on, Count: s.Count}
	if !counted {
		return next
	}
	if on {
		next.Count++
	} else if next.Count > 0 {
		next.Count--
	}
	return next
}
